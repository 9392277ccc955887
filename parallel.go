package octree

import "sync"

// refreshLeaves copies current body positions into leaves using multiple
// goroutines. Each worker handles a contiguous range of leaves, so writes
// never overlap and need no synchronization. Falls back to a plain loop if
// numWorkers <= 1 or there are too few leaves to be worth splitting.
func refreshLeaves(src BodySource, leaves []Leaf, numWorkers int) {
	const minPerWorker = 1024

	n := len(leaves)
	if numWorkers > n/minPerWorker {
		numWorkers = n / minPerWorker
	}
	if numWorkers <= 1 {
		refreshRange(src, leaves)
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers
	for start := 0; start < n; start += perWorker {
		end := min(start+perWorker, n)
		wg.Add(1)
		go func(part []Leaf) {
			defer wg.Done()
			refreshRange(src, part)
		}(leaves[start:end])
	}
	wg.Wait()
}

func refreshRange(src BodySource, leaves []Leaf) {
	for i := range leaves {
		leaves[i].Pos = src.Pos(leaves[i].Body)
	}
}
