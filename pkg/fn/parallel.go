package fn

import "sync"

// ParMapResult applies f concurrently with a bounded number of workers,
// preserving order. limit <= 0 means unbounded.
func ParMapResult[T, U any](in []T, limit int, f func(T) Result[U]) []Result[U] {
	out := make([]Result[U], len(in))
	var wg sync.WaitGroup
	wg.Add(len(in))

	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}

	for i, v := range in {
		go func(i int, v T) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			out[i] = f(v)
		}(i, v)
	}
	wg.Wait()
	return out
}
