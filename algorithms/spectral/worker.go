package spectral

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// job describes one unit of split-range transform work handed to the worker.
// It is written by the producer, consumed by the worker, and retired once the
// worker clears the slot. Exactly one job is in flight at a time.
type job struct {
	signal []byte
	grid   []float64
	start  int
	end    int
	out    []complex128
	done   atomic.Bool
}

// Worker hosts the second execution context of the parallel transform: a
// permanently running loop that waits for a job, computes its assigned
// frequency sub-range with the same inner algorithm as the serial path, and
// signals completion.
//
// The hand-off is a single-slot rendezvous, not a queue. The slot pointer is
// published with an atomic store after every job field is initialized, so the
// worker's atomic load of a non-nil pointer guarantees it sees the fields.
// Completion travels the other way through the job's done flag: the worker
// stores it after writing its output bins, and the producer's load of true
// guarantees the bins are visible. Cancellation is not supported; a published
// job always runs to completion on one side or the other. Should the loop
// exit before picking a job up, the producer reclaims the slot and computes
// the remaining range itself, so a concurrent Stop can never strand a caller.
type Worker struct {
	dtft    *DTFT
	slot    atomic.Pointer[job]
	running atomic.Bool
	quit    atomic.Bool
}

// NewWorker creates a worker that computes bins with the given calculator.
// The worker does not run until Start is called.
func NewWorker(d *DTFT) *Worker {
	if d == nil {
		d = NewDTFT()
	}
	return &Worker{dtft: d}
}

// Start launches the worker loop. Calling Start on a running worker is a nil
// operation.
func (w *Worker) Start() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	w.quit.Store(false)
	go w.loop()
}

// Stop asks the worker loop to exit once it is idle. An in-flight job still
// runs to completion first.
func (w *Worker) Stop() {
	w.quit.Store(true)
}

// Running reports whether the worker loop has been started and not stopped
func (w *Worker) Running() bool {
	return w.running.Load()
}

func (w *Worker) loop() {
	// The loop stands in for a dedicated core; pin it to one OS thread so it
	// does not migrate mid-job.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer w.running.Store(false)

	for {
		j := w.slot.Load()
		if j == nil {
			if w.quit.Load() {
				return
			}
			runtime.Gosched()
			continue
		}

		w.dtft.transformRange(j.signal, j.grid, j.start, j.end, j.out)

		// Retire the slot before signaling completion so a follow-up publish
		// can never be wiped by this job's cleanup.
		w.slot.Store(nil)
		j.done.Store(true)
	}
}

// publish hands a job to the worker, waiting for the previous one to be
// retired first. The single-in-flight invariant is owned here: the CAS only
// succeeds on an empty slot.
func (w *Worker) publish(j *job) {
	for !w.slot.CompareAndSwap(nil, j) {
		runtime.Gosched()
	}
}

// TransformParallel evaluates the same spectrum as Transform with the
// frequency grid split at its midpoint: the calling goroutine computes bins
// [0, K/2) while the worker computes [K/2, K). The call blocks until the
// worker signals completion.
//
// The split only pays for itself once the grid is large; callers gate it on a
// threshold. When the worker is not running the transform silently degrades
// to the serial path.
func (d *DTFT) TransformParallel(signal []byte, grid []float64, w *Worker) []complex128 {
	out := make([]complex128, len(grid))
	// out is freshly zeroed, so the length check cannot fail
	_ = d.TransformParallelInto(signal, grid, out, w)
	return out
}

// TransformParallelInto is TransformParallel writing into a caller-owned
// output buffer. The buffer must not be touched again by the caller until the
// call returns; every element is overwritten.
func (d *DTFT) TransformParallelInto(signal []byte, grid []float64, out []complex128, w *Worker) error {
	if len(out) != len(grid) {
		return fmt.Errorf("spectral: output length %d does not match grid length %d", len(out), len(grid))
	}

	points := len(grid)
	if points == 0 {
		return nil
	}
	if w == nil || !w.Running() || points < 2 {
		d.transformRange(signal, grid, 0, points, out)
		return nil
	}

	split := points / 2
	j := &job{
		signal: signal,
		grid:   grid,
		start:  split,
		end:    points,
		out:    out,
	}
	w.publish(j)

	d.transformRange(signal, grid, 0, split, out)

	for !j.done.Load() {
		// The worker loop may exit between the Running check above and the
		// publish landing in the slot. If it already retired, reclaim the job
		// and finish its range here; a failed reclaim means the worker took
		// the job and will set done.
		if !w.Running() && w.slot.CompareAndSwap(j, nil) {
			d.transformRange(signal, grid, split, points, out)
			return nil
		}
		runtime.Gosched()
	}
	return nil
}
