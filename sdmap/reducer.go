package sdmap

import (
	"sync"

	viamutils "go.viam.com/utils"
)

// RowFunc processes the half-open row range [yStart, yEnd).
type RowFunc func(yStart, yEnd int)

// Reducer splits [yMin, yMax) into chunks and runs f over each, joining
// before returning. It is the abstraction behind the row-level data
// parallelism used by observation and regularization; propagation takes no
// Reducer and runs as a single loop, since it writes to destination cells
// that are not guaranteed disjoint across rows.
type Reducer interface {
	Reduce(yMin, yMax int, f RowFunc)
}

// ParallelReducer splits [yMin, yMax) into chunks of Stride rows and runs
// each chunk on its own goroutine, mirroring utils.GroupWorkParallel's
// group-and-join shape but specialized to disjoint row ranges. A Stride <=
// 0 defaults to 10, the chunk size used throughout the original pipeline's
// thread-pool reduce calls.
type ParallelReducer struct {
	Stride int
}

// Reduce implements Reducer.
func (p ParallelReducer) Reduce(yMin, yMax int, f RowFunc) {
	stride := p.Stride
	if stride <= 0 {
		stride = 10
	}
	if yMax <= yMin {
		return
	}

	var wg sync.WaitGroup
	for y := yMin; y < yMax; y += stride {
		yStart, yEnd := y, y+stride
		if yEnd > yMax {
			yEnd = yMax
		}
		wg.Add(1)
		viamutils.PanicCapturingGo(func() {
			defer wg.Done()
			f(yStart, yEnd)
		})
	}
	wg.Wait()
}

// SequentialReducer runs f once over the full range on the calling
// goroutine, giving deterministic, allocation-free behavior in tests.
type SequentialReducer struct{}

// Reduce implements Reducer.
func (SequentialReducer) Reduce(yMin, yMax int, f RowFunc) {
	if yMax <= yMin {
		return
	}
	f(yMin, yMax)
}

// DefaultReducer is the reducer a DepthMapper uses when none is supplied:
// row-parallel with the standard chunk size.
func DefaultReducer() Reducer {
	return ParallelReducer{Stride: 10}
}
