package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/BurntSushi/foldmatch/config"
)

// ErrUnknownJob is returned for job ids a scheduler has never issued.
var ErrUnknownJob = errors.New("unknown job")

// JobID identifies a submitted batch.
type JobID string

// JobStatus is a snapshot of a job's progress.
type JobStatus struct {
	Total, Done int
	Finished    bool
}

// Scheduler runs batches asynchronously. Submit starts a batch, Poll
// reports how far it got and Collect waits for all of its results.
type Scheduler interface {
	Submit(ctx context.Context, pairs []Pair) (JobID, error)
	Poll(id JobID) (JobStatus, error)
	Collect(ctx context.Context, id JobID) ([]Result, error)
}

type job struct {
	total    int
	mu       sync.Mutex
	results  []Result
	finished chan struct{}
}

// LocalScheduler runs every submitted batch in this process with Run.
type LocalScheduler struct {
	prep Loader
	conf config.Config
	opts Options

	mu   sync.Mutex
	jobs map[JobID]*job
}

var _ Scheduler = (*LocalScheduler)(nil)

// NewLocalScheduler returns a scheduler comparing pairs with the given
// loader, configuration and options.
func NewLocalScheduler(prep Loader, conf config.Config, opts Options) *LocalScheduler {
	return &LocalScheduler{
		prep: prep,
		conf: conf,
		opts: opts,
		jobs: make(map[JobID]*job),
	}
}

// Submit starts comparing pairs in the background. The job stops early,
// with partial outcomes, when ctx is cancelled.
func (s *LocalScheduler) Submit(ctx context.Context, pairs []Pair) (JobID, error) {
	if len(pairs) == 0 {
		return "", errors.New("no pairs to compare")
	}
	id := JobID(uuid.NewString())
	j := &job{total: len(pairs), finished: make(chan struct{})}

	s.mu.Lock()
	s.jobs[id] = j
	s.mu.Unlock()

	results := Run(ctx, append([]Pair(nil), pairs...), s.prep, s.conf, s.opts)
	go func() {
		for r := range results {
			j.mu.Lock()
			j.results = append(j.results, r)
			j.mu.Unlock()
		}
		close(j.finished)
	}()
	return id, nil
}

func (s *LocalScheduler) job(id JobID) (*job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	return j, nil
}

// Poll reports the progress of a job.
func (s *LocalScheduler) Poll(id JobID) (JobStatus, error) {
	j, err := s.job(id)
	if err != nil {
		return JobStatus{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	st := JobStatus{Total: j.total, Done: len(j.results)}
	select {
	case <-j.finished:
		st.Finished = true
	default:
	}
	return st, nil
}

// Collect waits for a job to finish and returns its results in input
// order. The job is forgotten afterwards.
func (s *LocalScheduler) Collect(ctx context.Context, id JobID) ([]Result, error) {
	j, err := s.job(id)
	if err != nil {
		return nil, err
	}
	select {
	case <-j.finished:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()

	results := append([]Result(nil), j.results...)
	sort.Slice(results, func(i, k int) bool {
		return results[i].Index < results[k].Index
	})
	return results, nil
}
