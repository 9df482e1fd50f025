package utils

import (
	"runtime"
	"sync"
)

// FetchResult is the outcome of one boundary fetch job.
type FetchResult struct {
	Place string
	Path  string
	Err   error
}

// FetchFunc runs one boundary fetch for a place name.
type FetchFunc func(place string) FetchResult

// WorkerPool fans boundary fetches out over a fixed number of goroutines.
type WorkerPool struct {
	NumWorkers int
	Jobs       chan string
	Results    chan FetchResult
	wg         sync.WaitGroup
}

func NewWorkerPool(numWorkers int, bufferSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Jobs:       make(chan string, bufferSize),
		Results:    make(chan FetchResult, bufferSize),
	}
}

// Start launches the workers. Submit jobs with Submit, then Close the
// queue; Wait returns after the last result has been delivered.
func (wp *WorkerPool) Start(work FetchFunc) {
	wp.wg.Add(wp.NumWorkers)
	for i := 0; i < wp.NumWorkers; i++ {
		go wp.worker(work)
	}
}

func (wp *WorkerPool) worker(work FetchFunc) {
	defer wp.wg.Done()
	for place := range wp.Jobs {
		wp.Results <- work(place)
	}
}

func (wp *WorkerPool) Submit(place string) {
	wp.Jobs <- place
}

func (wp *WorkerPool) Close() {
	close(wp.Jobs)
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
	close(wp.Results)
}
