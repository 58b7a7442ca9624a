package synth

// PeriodQueue is the bounded blocking queue connecting the mix thread
// to the sink thread (spec.md section 5: "The mix and sink threads
// communicate via a bounded blocking queue of byte-packed periods").
// Its capacity is the latency knob: max_latency = capacity ×
// period_length.
type PeriodQueue struct {
	ch chan []byte
}

// NewPeriodQueue returns a queue with room for capacity periods.
func NewPeriodQueue(capacity int) *PeriodQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &PeriodQueue{ch: make(chan []byte, capacity)}
}

// Push enqueues a period, blocking if the queue is full (spec.md
// section 4.5 step 5, "the backpressure point"). period is copied
// before enqueueing since the mixer reuses its internal buffer.
func (q *PeriodQueue) Push(period []byte) {
	cp := make([]byte, len(period))
	copy(cp, period)
	q.ch <- cp
}

// Pop blocks until a period is available, returning false if the
// queue has been closed and drained.
func (q *PeriodQueue) Pop() ([]byte, bool) {
	p, ok := <-q.ch
	return p, ok
}

// Close signals no more periods will be pushed; Pop drains whatever
// remains, then returns ok=false.
func (q *PeriodQueue) Close() { close(q.ch) }

// Len reports the number of periods currently queued.
func (q *PeriodQueue) Len() int { return len(q.ch) }

// Cap reports the queue's capacity in periods.
func (q *PeriodQueue) Cap() int { return cap(q.ch) }
