package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/renderer"
)

// Job identifies one run of a batch.
type Job struct {
	Index int
	Seed  uint64
	Kind  layout.Kind
}

// Sink receives every finished run. It is called from worker goroutines.
type Sink func(job Job, out *Output) error

// Batch 描述一批运行：数量、基准种子、布局权重与并发度。
type Batch struct {
	Config   Config
	Count    int
	BaseSeed uint64
	Weights  map[layout.Kind]int // 为空时三种布局等权
	Workers  int
	Backend  renderer.Backend
	Sink     Sink
	// Progress 在每个运行结束后调用（可为空）。
	Progress func(done, total int)
}

// Summary counts the outcome of a batch.
type Summary struct {
	Done     int
	Failed   int
	Canceled bool
}

// DeriveSeed maps a base seed and run index to the run's own seed
// (splitmix64), so any single run can be regenerated on its own.
func DeriveSeed(base uint64, index int) uint64 {
	z := base + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// PickKind makes the weighted layout choice of a run from its seed alone.
func PickKind(seed uint64, weights map[layout.Kind]int) layout.Kind {
	kinds := layout.Kinds()
	total := 0
	for _, k := range kinds {
		if w := weight(weights, k); w > 0 {
			total += w
		}
	}
	if total == 0 {
		return layout.KindScattered
	}
	n := NewRand(seed ^ 0x6b696e64).IntN(total)
	for _, k := range kinds {
		w := weight(weights, k)
		if w <= 0 {
			continue
		}
		if n < w {
			return k
		}
		n -= w
	}
	return kinds[len(kinds)-1]
}

func weight(weights map[layout.Kind]int, k layout.Kind) int {
	if len(weights) == 0 {
		return 1
	}
	return weights[k]
}

// Jobs lists the batch's runs in index order.
func (b *Batch) Jobs() []Job {
	jobs := make([]Job, b.Count)
	for i := range jobs {
		seed := DeriveSeed(b.BaseSeed, i)
		jobs[i] = Job{Index: i, Seed: seed, Kind: PickKind(seed, b.Weights)}
	}
	return jobs
}

// Run executes the batch on Workers goroutines. Cancellation is checked
// between runs; a run in progress always completes. Failed runs are
// counted and reported together in the returned error.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	if b.Backend == nil {
		return Summary{}, errors.New("backend 不能为空")
	}
	workers := b.Workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan Job)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sum  Summary
		errs []jobError
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				err := b.runOne(job)
				mu.Lock()
				if err != nil {
					sum.Failed++
					errs = append(errs, jobError{job.Index, err})
				} else {
					sum.Done++
				}
				finished := sum.Done + sum.Failed
				mu.Unlock()
				if b.Progress != nil {
					b.Progress(finished, b.Count)
				}
			}
		}()
	}

feed:
	for _, job := range b.Jobs() {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job:
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil && sum.Done+sum.Failed < b.Count {
		sum.Canceled = true
	}
	tracer().Infof("pipeline: batch finished, %d done, %d failed", sum.Done, sum.Failed)
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].index < errs[j].index })
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = fmt.Errorf("#%d: %w", e.index, e.err)
		}
		return sum, errors.Join(joined...)
	}
	return sum, nil
}

type jobError struct {
	index int
	err   error
}

func (b *Batch) runOne(job Job) error {
	out, err := Generate(b.Config, job.Kind, job.Seed, b.Backend)
	if err != nil {
		return err
	}
	if b.Sink == nil {
		return nil
	}
	return b.Sink(job, out)
}
