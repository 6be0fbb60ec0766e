package physics

import (
	"sync"

	"github.com/torkelz/havenborough/physics/actor"
)

const DEFAULT_WORKERS = 1

// task runs fn over data split in contiguous chunks, one goroutine per chunk.
// A single worker runs inline.
func task[T any](workersCount int, data []T, fn func(data T)) {
	if workersCount <= 1 || len(data) <= 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}

// integrate advances every dynamic body. Gravity only applies to bodies in the air.
// Bodies only touch their own state here.
func integrate(workers int, bodies []*actor.Body, h, gravity float64) {
	task(workers, bodies, func(body *actor.Body) {
		if body.IsStatic() {
			return
		}
		if body.InAir {
			body.SetGravity(gravity)
		} else {
			body.SetGravity(0)
		}
		body.Update(h)
	})
}
