package compare

import (
	"context"
	"sync"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/ladder"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/product"
)

// attemptPool runs independent ladder searches over one product graph. The
// product graph is only read; every search owns its random source.
type attemptPool struct {
	wg      *sync.WaitGroup
	seeds   chan int64
	reports chan match.Report
}

func newAttemptPool(
	ctx context.Context,
	pg *product.Graph,
	conf config.Config,
	opts Options,
) attemptPool {
	numWorkers := max(1, min(conf.Search.Workers, conf.Search.Attempts))
	seeds := make(chan int64, numWorkers*2)
	reports := make(chan match.Report, numWorkers*2)
	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				s := ladder.New(pg, conf, ladder.Options{
					Seed:   seed,
					Gate:   opts.Gate,
					Logger: opts.Logger,
				})
				reports <- s.Run(ctx)
			}
		}()
	}
	return attemptPool{wg, seeds, reports}
}

func (p attemptPool) done() {
	close(p.seeds)
	p.wg.Wait() // wait for workers to finish sending reports
	close(p.reports)
}

func (p attemptPool) enqueue(seed int64) {
	p.seeds <- seed
}
