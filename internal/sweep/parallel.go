package sweep

import (
	"context"
	"sync"
)

// runParallel partitions the temperature axis into contiguous chunks, one
// goroutine per chunk. Every worker builds its own trajectory from a derived
// seed, so no random stream is ever shared between goroutines. In fixed-seed
// mode every point reseeds from cfg.Seed anyway, making the partition
// invisible in the output.
func runParallel(ctx context.Context, cfg Config, temps []float64, tc float64, points []Point, onPoint func(Point)) (*Result, error) {
	workers := cfg.Workers
	if workers > len(temps) {
		workers = len(temps)
	}

	chunk := (len(temps) + workers - 1) / workers

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(temps) {
			end = len(temps)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()

			tr, err := newTrajectory(cfg, cfg.Seed+int64(worker)*3)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}

			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					mu.Lock()
					errs = append(errs, ctx.Err())
					mu.Unlock()
					return
				default:
				}

				points[i] = tr.point(temps[i], tc)
				if onPoint != nil {
					mu.Lock()
					onPoint(points[i])
					mu.Unlock()
				}
			}
		}(w, start, end)
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &Result{Points: points, BothStarts: cfg.FixedSeed}, nil
}
