package util

import (
	"github.com/spf13/viper"

	"github.com/BurntSushi/foldmatch/cache"
	"github.com/BurntSushi/foldmatch/compare"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/pdb"
)

// Config loads the configuration from v, after reading the --config file
// into it when one was given.
func Config(v *viper.Viper) config.Config {
	if len(FlagConfig) > 0 {
		v.SetConfigFile(FlagConfig)
		Assert(v.ReadInConfig(), "Could not read settings file '%s'", FlagConfig)
	}
	conf, err := config.Load(v)
	Assert(err, "Invalid configuration")
	return conf
}

// Preparer returns a structure preparer, backed by the --cache database
// when one was given. The returned function closes the cache.
func Preparer(conf config.Config) (*compare.Preparer, func()) {
	if len(FlagCache) == 0 {
		return compare.NewPreparer(conf, nil), func() {}
	}
	store, err := cache.Open(FlagCache)
	Assert(err, "Could not open cache")
	return compare.NewPreparer(conf, store), func() {
		Warning(store.Close(), "Could not close cache '%s'", FlagCache)
	}
}

func PDBRead(path string) *pdb.Entry {
	entry, err := pdb.New(path)
	Assert(err, "Could not open PDB file '%s'", path)
	return entry
}

func Prepared(prep *compare.Preparer, path string) *compare.Prepared {
	p, err := prep.Load(path)
	Assert(err, "Could not prepare structure '%s'", path)
	return p
}
