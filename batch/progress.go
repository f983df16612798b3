package batch

import (
	"log"
)

// progress counts finished comparisons and logs a running tally.
type progress struct {
	errs chan error
	done chan struct{}
}

func newProgress(total int, logger *log.Logger) progress {
	p := progress{make(chan error), make(chan struct{})}
	go func() {
		completed, errorCount := 0, 0
		for err := range p.errs {
			if err == nil {
				completed++
			} else {
				errorCount++
				if logger != nil {
					logger.Printf("%s", err)
				}
			}
			if logger != nil {
				ratio := 100.0 * float64(completed+errorCount) / float64(total)
				logger.Printf("%d of %d comparisons done (%0.2f%%, %d errors)",
					completed+errorCount, total, ratio, errorCount)
			}
		}
		p.done <- struct{}{}
	}()
	return p
}

func (p progress) jobDone(err error) {
	p.errs <- err
}

func (p progress) close() {
	close(p.errs)
	<-p.done
}
