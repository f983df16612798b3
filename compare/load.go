package compare

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/foldmatch/cache"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/pdb"
)

// Structure reads a PDB file (optionally gzipped) and returns the residues
// of its first model.
func Structure(path string) ([]*pdb.Residue, error) {
	entry, err := pdb.New(path)
	if err != nil {
		return nil, err
	}
	residues := entry.Residues(entry.FirstModel())
	if len(residues) == 0 {
		return nil, fmt.Errorf("%s: no amino acid residues", path)
	}
	return residues, nil
}

// Cache persists prepared structures between runs. Get reports whether key
// was found and decodes it into v.
type Cache interface {
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
}

// Preparer loads and prepares structure files, each at most once. It is
// safe for concurrent use.
type Preparer struct {
	conf        config.Config
	store       Cache
	fingerprint string

	mu       sync.Mutex
	prepared map[string]*Prepared
}

// NewPreparer returns a preparer using conf. The cache may be nil.
func NewPreparer(conf config.Config, store Cache) *Preparer {
	return &Preparer{
		conf:        conf,
		store:       store,
		fingerprint: conf.Fingerprint(),
		prepared:    make(map[string]*Prepared),
	}
}

// Load returns the prepared structure of the PDB file at path. Cached
// preparations are keyed by the file's size and modification time, so an
// edited file is prepared again. A cache that cannot be read or written is
// not an error: the structure is prepared from the file instead.
func (p *Preparer) Load(path string) (*Prepared, error) {
	p.mu.Lock()
	prep, ok := p.prepared[path]
	p.mu.Unlock()
	if ok {
		return prep, nil
	}

	var key string
	if p.store != nil {
		var err error
		if key, err = cache.Key(path, p.fingerprint); err != nil {
			return nil, err
		}
		prep = new(Prepared)
		if found, err := p.store.Get(key, prep); err == nil && found {
			p.remember(path, prep)
			return prep, nil
		}
	}

	residues, err := Structure(path)
	if err != nil {
		return nil, err
	}
	prep = Prepare(path, residues, p.conf)
	if p.store != nil {
		// A failed write only costs the next run some time.
		_ = p.store.Put(key, prep)
	}
	p.remember(path, prep)
	return prep, nil
}

func (p *Preparer) remember(path string, prep *Prepared) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prepared[path] = prep
}
