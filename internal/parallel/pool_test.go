package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolWorkers(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()
	if got := pool.Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
	if !pool.IsRunning() {
		t.Error("pool is not running after creation")
	}

	for _, n := range []int{0, -2} {
		p := NewWorkerPool(n)
		if got, want := p.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, got, want)
		}
		p.Close()
	}
}

func TestWorkerPoolExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Each unit writes only its own slot, like faces do.
	const n = 200
	out := make([]int, n)
	units := make([]func(), n)
	for i := range units {
		i := i
		units[i] = func() {
			out[i] = i * i
		}
	}
	pool.ExecuteAll(units)
	for i, v := range out {
		if v != i*i {
			t.Fatalf("unit %d did not run", i)
		}
	}

	// The pool is reusable.
	var count atomic.Int64
	pool.ExecuteAll([]func(){func() { count.Add(1) }, func() { count.Add(1) }})
	if got := count.Load(); got != 2 {
		t.Errorf("second batch ran %d units, want 2", got)
	}
}

func TestWorkerPoolStealing(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	// Units dealt to worker 0 are slow, so worker 1 steals from its queue.
	var ran atomic.Int64
	units := make([]func(), 8)
	for i := range units {
		slow := i%2 == 0
		units[i] = func() {
			if slow {
				time.Sleep(5 * time.Millisecond)
			}
			ran.Add(1)
		}
	}
	pool.ExecuteAll(units)
	if got := ran.Load(); got != 8 {
		t.Errorf("ran %d units, want 8", got)
	}
}

func TestWorkerPoolClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()
	if pool.IsRunning() {
		t.Error("pool is running after Close")
	}
	var count atomic.Int64
	pool.ExecuteAll([]func(){func() { count.Add(1) }})
	if count.Load() != 0 {
		t.Error("closed pool ran a unit")
	}
}
