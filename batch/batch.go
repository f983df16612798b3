/*
Package batch runs many structure comparisons.

Pairs are compared on a pool of goroutines and every result, failed or not,
comes out of a single channel. A pair that cannot be compared (an unreadable
file, a structure with too few helices and strands) yields a Result with Err
set; it never stops the rest of the batch.
*/
package batch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/BurntSushi/foldmatch/compare"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/match"
)

// Pair names two structure files; B is superposed onto A.
type Pair struct {
	A, B string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s %s", p.A, p.B)
}

// Result is the outcome of one pair.
type Result struct {
	// position of the pair in the input
	Index int
	Pair

	Outcome  match.Outcome
	Err      error
	Duration time.Duration
}

// Label is a short summary of the result: "accepted", the reason the
// comparison failed or "error" when the pair could not be compared.
func (r Result) Label() string {
	switch {
	case r.Err != nil && r.Outcome.Reason == match.ReasonNone:
		return "error"
	case r.Outcome.Accepted():
		return "accepted"
	}
	return r.Outcome.Reason.String()
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s\t%s\t%s", r.Pair, r.Label(), r.Err)
	}
	best := r.Outcome.Best
	if best == nil {
		return fmt.Sprintf("%s\t%s", r.Pair, r.Label())
	}
	return fmt.Sprintf("%s\t%s\t%d\t%0.3f\t%0.1f", r.Pair, r.Label(),
		best.Len(), best.RMSD(), best.CorePercentage)
}

// Loader provides prepared structures. *compare.Preparer is one.
type Loader interface {
	Load(path string) (*compare.Prepared, error)
}

// Options are the parts of a batch that are not configuration.
type Options struct {
	Compare compare.Options

	// optional
	Metrics *Metrics

	// receives progress; nil discards it
	Logger *log.Logger
}

// Run compares every pair on Search.Workers goroutines and sends each
// result on the returned channel, which is closed once all pairs are done.
// Each comparison runs its attempts one after the other, so parallelism is
// across pairs only. The channel must be drained.
func Run(
	ctx context.Context,
	pairs []Pair,
	prep Loader,
	conf config.Config,
	opts Options,
) <-chan Result {
	inner := conf
	inner.Search.Workers = 1

	numWorkers := max(1, conf.Search.Workers)
	jobs := make(chan int, numWorkers*2)
	results := make(chan Result, numWorkers*2)
	progress := newProgress(len(pairs), opts.Logger)
	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := compareOne(ctx, i, pairs[i], prep, inner, opts.Compare)
				opts.Metrics.observe(r)
				progress.jobDone(r.Err)
				results <- r
			}
		}()
	}
	go func() {
		for i := range pairs {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		progress.close()
		close(results)
	}()
	return results
}

func compareOne(
	ctx context.Context,
	index int,
	pair Pair,
	prep Loader,
	conf config.Config,
	opts compare.Options,
) (r Result) {
	start := time.Now()
	r = Result{Index: index, Pair: pair}
	defer func() { r.Duration = time.Since(start) }()

	a, err := prep.Load(pair.A)
	if err != nil {
		r.Err = err
		return r
	}
	b, err := prep.Load(pair.B)
	if err != nil {
		r.Err = err
		return r
	}
	r.Outcome, r.Err = compare.Compare(ctx, a, b, conf, opts)
	return r
}
