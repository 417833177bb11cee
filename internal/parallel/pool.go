// Package parallel runs independent meshing units on a bounded set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool owns a fixed number of workers, each with its own queue.
// Idle workers steal from the other queues so one slow face does not hold
// back the units queued behind it.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts workers goroutines. A non-positive count uses
// GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	size := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), size)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case unit := <-own:
			unit()
			continue
		default:
		}

		if unit := p.steal(id); unit != nil {
			unit()
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case unit := <-own:
			unit()
		}
	}
}

func (p *WorkerPool) drain(q chan func()) {
	for {
		select {
		case unit := <-q:
			unit()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case unit := <-p.queues[(id+i)%p.workers]:
			return unit
		default:
		}
	}
	return nil
}

// ExecuteAll runs every unit and returns once all of them finished. Units
// are dealt round-robin; their order of execution is unspecified.
func (p *WorkerPool) ExecuteAll(units []func()) {
	if len(units) == 0 || !p.running.Load() {
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(units))
	for i, unit := range units {
		unit := unit
		wrapped := func() {
			defer wg.Done()
			unit()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()
}

// Close stops the workers after they ran what is still queued. Calling it
// more than once is harmless.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

func (p *WorkerPool) Workers() int {
	return p.workers
}

func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
