/*
Package compare runs whole structure comparisons.

Each structure is prepared once (characteristic vectors, secondary structure
and structural graph) and may then take part in any number of comparisons,
concurrently. A comparison builds the product graph of its two structures,
runs several independent ladder searches on a small pool of goroutines and
reduces all of their reports to one match.Outcome.
*/
package compare

import (
	"context"
	"fmt"
	"log"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
	"github.com/BurntSushi/foldmatch/product"
	"github.com/BurntSushi/foldmatch/rmsd"
	"github.com/BurntSushi/foldmatch/sgraph"
	"github.com/BurntSushi/foldmatch/ss"
)

// Prepared is everything about one structure that does not depend on what
// it is compared to. It is never modified after Prepare returns.
type Prepared struct {
	Name       string
	Assignment *ss.Assignment
	Graph      *sgraph.Graph
}

// Prepare classifies the residues of one structure and builds its
// structural graph.
func Prepare(name string, residues []*pdb.Residue, conf config.Config) *Prepared {
	a := ss.Classify(residues, conf)
	return &Prepared{
		Name:       name,
		Assignment: a,
		Graph:      sgraph.Build(name, a, conf.Classify),
	}
}

// Residues returns the residues that survived extraction.
func (p *Prepared) Residues() []*pdb.Residue {
	return p.Assignment.Residues
}

// check returns an *match.InputError when the structure has too few helices
// and strands to be compared.
func (p *Prepared) check() error {
	if n := p.Graph.Len(); n < 2 {
		return &match.InputError{
			Structure: p.Name,
			Fragments: n,
			Err:       match.ErrInsufficientFragments,
		}
	}
	return nil
}

// Options are the parts of a comparison that are not configuration.
type Options struct {
	// A and B are the same structure; cross edges between an edge and
	// itself are left out.
	Self bool

	// optional sequence gate applied to every candidate
	Gate match.SequenceGate

	// receives recoverable failures; nil discards them
	Logger *log.Logger
}

// Compare finds the best fragment correspondence of b onto a. It returns an
// error only for unusable input; a comparison that finds nothing acceptable
// returns an Outcome with a Reason. When Search.Timeout or ctx runs out, the
// best result so far is returned with Exhausted set.
func Compare(
	ctx context.Context,
	a, b *Prepared,
	conf config.Config,
	opts Options,
) (match.Outcome, error) {
	for _, p := range []*Prepared{a, b} {
		if err := p.check(); err != nil {
			return match.Outcome{Reason: match.ReasonInsufficientFragments}, err
		}
	}
	pg, err := product.Build(a.Graph, b.Graph, conf.Product, opts.Self)
	if err != nil {
		return match.Outcome{}, fmt.Errorf("product graph of %s and %s: %w",
			a.Name, b.Name, err)
	}

	if conf.Search.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Search.Timeout)
		defer cancel()
	}

	sel := match.NewSelector(conf.Fit.RMSDMax, conf.Select)
	attempts := newAttemptPool(ctx, pg, conf, opts)
	go func() {
		for i := 0; i < conf.Search.Attempts; i++ {
			attempts.enqueue(conf.Search.Seed + int64(i))
		}
		attempts.done()
	}()
	match.Collect(attempts.reports, sel)

	if best := sel.Best(); best != nil {
		score(a, b, best, conf.Select)
	}
	return sel.Outcome(), nil
}

// score fills in the core of a match: the residues of a lying close to
// some residue of b once b is superposed, and the percentage of a's
// fragments mostly made of them.
func score(a, b *Prepared, m *match.Match, conf config.Select) {
	t := m.Fit.Transform
	frags := make([][]*pdb.Residue, len(a.Graph.Nodes))
	for i, n := range a.Graph.Nodes {
		frags[i] = n.Fragment.Residues
	}
	m.CorePercentage = rmsd.CorePercentage(frags, b.Residues(), t, conf.CoreTolerance)

	m.CoreResidues = 0
	for _, in := range rmsd.CoreResidues(a.Residues(), b.Residues(), t, conf.CoreTolerance) {
		if in {
			m.CoreResidues++
		}
	}
}
