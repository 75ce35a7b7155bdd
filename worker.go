package cardscan

import (
	"image"
	"sync"
)

type frameJob struct {
	img  image.Image
	mode Mode
	seq  uint64
}

// Worker runs a session's guidance pass on a dedicated goroutine with
// single-flight semantics: at most one frame is processed at a time and
// frames arriving while busy are dropped rather than queued, so guidance
// always reflects a recent frame.
type Worker struct {
	session *Session
	jobs    chan frameJob
	done    chan struct{}

	mu        sync.Mutex
	closed    bool
	nextSeq   uint64
	latest    GuidanceResult
	latestSeq uint64
	hasLatest bool
}

// NewWorker starts a worker around the session.
func NewWorker(session *Session) *Worker {
	w := &Worker{
		session: session,
		jobs:    make(chan frameJob),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for job := range w.jobs {
		result := w.session.ProcessFrame(job.img, job.mode)
		w.store(job.seq, result)
	}
}

func (w *Worker) store(seq uint64, result GuidanceResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq >= w.latestSeq {
		w.latest = result
		w.latestSeq = seq
		w.hasLatest = true
	}
}

// Feed offers a frame to the worker. It never blocks: the frame is dropped
// and false returned when the worker is busy or closed.
func (w *Worker) Feed(img image.Image, mode Mode) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.nextSeq++
	select {
	case w.jobs <- frameJob{img: img, mode: mode, seq: w.nextSeq}:
		return true
	default:
		return false
	}
}

// Latest returns the most recent guidance result, if any frame has completed.
func (w *Worker) Latest() (GuidanceResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest, w.hasLatest
}

// Captures delivers the session's automatic captures.
func (w *Worker) Captures() <-chan CaptureResult {
	return w.session.Captures()
}

// Close stops the worker and waits for any in-flight frame to finish.
// Feed calls after Close return false.
func (w *Worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}
