/*
Package pdb reads and writes the coordinate section of PDB files.

Only what structure comparison needs is kept: ATOM records (and HETATM
records of modified amino acids), grouped into residues, chains and models.
Each atom keeps its occupancy so that poorly resolved residues can be
excluded later on.
*/
package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/BurntSushi/foldmatch/geom"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// modifiedAmino maps HETATM residue names that are still part of the
// polypeptide to the amino acid they stand in for.
var modifiedAmino = map[string]byte{
	"MSE": 'M', "SEP": 'S', "TPO": 'T', "PTR": 'Y', "CSO": 'C',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this packages 'init' function.
var AminoOneToThree = map[byte]string{}

func init() {
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// Entry represents the coordinates of one PDB file.
type Entry struct {
	Path   string
	IdCode string

	// Chains in the order they first appear. A chain that appears in more
	// than one model is listed once per model.
	Chains []*Chain
}

// Chain is the list of residues of one chain in one model.
type Chain struct {
	Ident    byte
	Model    int
	Residues []*Residue
}

// ResidueID uniquely identifies a residue inside an entry.
type ResidueID struct {
	Model int
	Chain byte
	Seq   int
	ICode byte
}

func (id ResidueID) String() string {
	if id.ICode == ' ' || id.ICode == 0 {
		return fmt.Sprintf("%c%d", id.Chain, id.Seq)
	}
	return fmt.Sprintf("%c%d%c", id.Chain, id.Seq, id.ICode)
}

// Residue is an amino acid residue and all of its atoms.
type Residue struct {
	ID    ResidueID
	Name  string
	Atoms []Atom
}

// Atom is a single ATOM or HETATM record.
type Atom struct {
	Serial    int
	Name      string
	AltLoc    byte
	Element   string
	Occupancy float64
	BFactor   float64
	Het       bool
	Coords    geom.Coords
}

// Atom returns the atom with the given name, e.g., "CA".
func (r *Residue) Atom(name string) (Atom, bool) {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a, true
		}
	}
	return Atom{}, false
}

// OneLetter returns the single letter code of the residue. Unknown residues
// are reported as 'X'.
func (r *Residue) OneLetter() byte {
	if one, ok := AminoThreeToOne[r.Name]; ok {
		return one
	}
	if one, ok := modifiedAmino[r.Name]; ok {
		return one
	}
	return 'X'
}

func (r *Residue) String() string {
	return fmt.Sprintf("%s %s", r.Name, r.ID)
}

// Copy returns a deep copy of the residue.
func (r *Residue) Copy() *Residue {
	atoms := make([]Atom, len(r.Atoms))
	copy(atoms, r.Atoms)
	return &Residue{ID: r.ID, Name: r.Name, Atoms: atoms}
}

// Sequence returns the one letter sequence of a list of residues.
func Sequence(residues []*Residue) string {
	bs := make([]byte, len(residues))
	for i, r := range residues {
		bs[i] = r.OneLetter()
	}
	return string(bs)
}

// New creates a new PDB Entry from a file. If the file cannot be read, or
// there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
func New(fileName string) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	entry, err := Read(reader, fileName)
	if err != nil {
		return nil, fmt.Errorf("Could not read PDB file '%s': %w", fileName, err)
	}
	return entry, nil
}

// Read parses PDB formatted data from r. The name is stored as the entry's
// path.
func Read(r io.Reader, name string) (*Entry, error) {
	entry := &Entry{Path: name}
	chains := make(map[chainKey]*Chain)

	var last *Residue
	model := 1
	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}

		// The record name is always in the first six columns.
		switch strings.TrimSpace(line[0:6]) {
		case "HEADER":
			if len(line) >= 66 {
				entry.IdCode = strings.TrimSpace(line[62:66])
			}
		case "MODEL":
			num, err := strconv.Atoi(strings.TrimSpace(column(line, 10, 14)))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad MODEL serial: %w",
					lineNum, err)
			}
			model = num
			last = nil
		case "ENDMDL":
			last = nil
		case "ATOM", "HETATM":
			atom, id, resName, err := parseAtom(line, model)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if !isAmino(resName, atom.Het) {
				continue
			}
			if last == nil || last.ID != id {
				key := chainKey{model, id.Chain}
				chain, ok := chains[key]
				if !ok {
					chain = &Chain{Ident: id.Chain, Model: model}
					chains[key] = chain
					entry.Chains = append(entry.Chains, chain)
				}
				last = &Residue{ID: id, Name: resName}
				chain.Residues = append(chain.Residues, last)
			}

			// Only the first alternate location of an atom is kept.
			if _, dup := last.Atom(atom.Name); dup {
				continue
			}
			last.Atoms = append(last.Atoms, atom)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entry, nil
}

type chainKey struct {
	model int
	ident byte
}

func isAmino(resName string, het bool) bool {
	if _, ok := AminoThreeToOne[resName]; ok {
		return true
	}
	if het {
		_, ok := modifiedAmino[resName]
		return ok
	}
	return false
}

// parseAtom reads the fixed columns of an ATOM or HETATM record.
func parseAtom(line string, model int) (Atom, ResidueID, string, error) {
	var atom Atom
	var id ResidueID

	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.Serial, _ = strconv.Atoi(strings.TrimSpace(column(line, 6, 11)))
	atom.Name = strings.TrimSpace(column(line, 12, 16))
	atom.AltLoc = columnByte(line, 16)
	resName := strings.TrimSpace(column(line, 17, 20))

	seq, err := strconv.Atoi(strings.TrimSpace(column(line, 22, 26)))
	if err != nil {
		return atom, id, "", fmt.Errorf("bad residue number: %w", err)
	}
	id = ResidueID{
		Model: model,
		Chain: columnByte(line, 21),
		Seq:   seq,
		ICode: columnByte(line, 26),
	}

	var xyz [3]float64
	for i, start := range []int{30, 38, 46} {
		v, err := strconv.ParseFloat(
			strings.TrimSpace(column(line, start, start+8)), 64)
		if err != nil {
			return atom, id, "", fmt.Errorf("bad coordinate: %w", err)
		}
		xyz[i] = v
	}
	atom.Coords = geom.Coords{X: xyz[0], Y: xyz[1], Z: xyz[2]}

	// Occupancy and temperature factor are optional in sloppy files. A
	// missing occupancy means the atom is fully occupied.
	atom.Occupancy = 1.0
	if s := strings.TrimSpace(column(line, 54, 60)); len(s) > 0 {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			atom.Occupancy = v
		}
	}
	if s := strings.TrimSpace(column(line, 60, 66)); len(s) > 0 {
		atom.BFactor, _ = strconv.ParseFloat(s, 64)
	}
	atom.Element = strings.TrimSpace(column(line, 76, 78))
	if len(atom.Element) == 0 && len(atom.Name) > 0 {
		atom.Element = atom.Name[0:1]
	}
	return atom, id, resName, nil
}

// column returns line[start:end], clipped to the length of the line.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func columnByte(line string, i int) byte {
	if i >= len(line) {
		return ' '
	}
	return line[i]
}

// Chain returns the chain with the given identifier in the first model
// that has it. If such a chain does not exist, nil is returned.
func (e *Entry) Chain(ident byte) *Chain {
	for _, c := range e.Chains {
		if c.Ident == ident {
			return c
		}
	}
	return nil
}

// FirstModel returns the number of the first model in the entry, or 0 if
// the entry has no coordinates.
func (e *Entry) FirstModel() int {
	if len(e.Chains) == 0 {
		return 0
	}
	return e.Chains[0].Model
}

// Residues returns all residues of a model in file order.
func (e *Entry) Residues(model int) []*Residue {
	var rs []*Residue
	for _, c := range e.Chains {
		if c.Model == model {
			rs = append(rs, c.Residues...)
		}
	}
	return rs
}

// Map returns a deep copy of the entry with every atom coordinate passed
// through f.
func (e *Entry) Map(f func(geom.Coords) geom.Coords) *Entry {
	cp := &Entry{Path: e.Path, IdCode: e.IdCode}
	for _, c := range e.Chains {
		nc := &Chain{Ident: c.Ident, Model: c.Model}
		nc.Residues = MapResidues(c.Residues, f)
		cp.Chains = append(cp.Chains, nc)
	}
	return cp
}

// MapResidues returns deep copies of residues with every atom coordinate
// passed through f.
func MapResidues(
	residues []*Residue,
	f func(geom.Coords) geom.Coords,
) []*Residue {
	out := make([]*Residue, len(residues))
	for i, r := range residues {
		nr := r.Copy()
		for j := range nr.Atoms {
			nr.Atoms[j].Coords = f(nr.Atoms[j].Coords)
		}
		out[i] = nr
	}
	return out
}

// NewEntry groups loose residues into an entry, one chain per (model,
// chain identifier) in order of appearance.
func NewEntry(name string, residues []*Residue) *Entry {
	entry := &Entry{Path: name}
	chains := make(map[chainKey]*Chain)
	for _, r := range residues {
		key := chainKey{r.ID.Model, r.ID.Chain}
		chain, ok := chains[key]
		if !ok {
			chain = &Chain{Ident: r.ID.Chain, Model: r.ID.Model}
			chains[key] = chain
			entry.Chains = append(entry.Chains, chain)
		}
		chain.Residues = append(chain.Residues, r)
	}
	return entry
}
