package synth

import "sync"

// CollectFunc renders up to frames samples into acc, accumulating in
// place (spec.md section 4.6, "custom source"). Voice.Collect has this
// shape.
type CollectFunc func(acc []float64, frames, channels int)

// bufferEntry is one registry-held playback source: either a static
// PCM buffer or a custom collect callback (a Voice).
type bufferEntry struct {
	immortal bool
	finished bool

	// Static buffer fields.
	pcm       []int16
	pos       int
	loopStart int
	loopEnd   int
	looping   bool

	// Custom source fields.
	collect    CollectFunc
	isFinished func() bool
}

// Registry is the mix engine's id-keyed table of playback sources
// (spec.md section 4.6). Reads and writes are guarded by a mutex: the
// control thread adds/removes entries while the mix thread iterates
// them once per period; contention is low since the mix side takes the
// lock once per period for Collect, plus once more when it runs GC.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]*bufferEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint64]*bufferEntry)}
}

// AddStatic registers a static PCM buffer and returns its id.
func (r *Registry) AddStatic(pcm []int16, loopStart, loopEnd int, looping, immortal bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.entries[id] = &bufferEntry{
		immortal:  immortal,
		pcm:       pcm,
		loopStart: loopStart,
		loopEnd:   loopEnd,
		looping:   looping,
	}
	return id
}

// AddCustom registers a custom collect callback (typically
// Voice.Collect) alongside a predicate reporting when it has nothing
// left to render (typically Voice.Finished), and returns its id.
// Custom sources are never immortal: once isFinished reports true the
// entry becomes eligible for GC like any other finished, non-immortal
// entry.
func (r *Registry) AddCustom(collect CollectFunc, isFinished func() bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.entries[id] = &bufferEntry{collect: collect, isFinished: isFinished}
	return id
}

// Extend appends more PCM to a static buffer.
func (r *Registry) Extend(id uint64, more []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.pcm = append(e.pcm, more...)
	}
}

// EndLoop disables wraparound on a static buffer; it will play through
// its tail and become finished (spec.md section 4.6).
func (r *Registry) EndLoop(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.looping = false
	}
}

// MarkFinished lets a caller tell the registry an entry has nothing
// left to render, so it becomes eligible for GC. Voices registered by
// Instrument report this through their isFinished predicate instead.
func (r *Registry) MarkFinished(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.finished = true
	}
}

// Remove deletes an entry outright, regardless of immortal/finished
// state. Finished voices are removed by GC, not through Remove.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Collect renders every live entry's contribution for this period into
// acc (frames*channels, accumulated in place), marking entries that
// finish during this call. Called once per period from the mix thread
// (spec.md section 4.5 step 3).
func (r *Registry) Collect(acc []float64, frames, channels int) {
	r.mu.Lock()
	entries := make([]*bufferEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		if e.finished {
			continue
		}
		if e.collect != nil {
			e.collect(acc, frames, channels)
			if e.isFinished != nil && e.isFinished() {
				e.finished = true
			}
			continue
		}
		collectStatic(e, acc, frames, channels)
	}
}

// collectStatic renders one period from a static PCM buffer, mono
// replicated to every output channel, honoring its loop region.
func collectStatic(e *bufferEntry, acc []float64, frames, channels int) {
	for i := 0; i < frames; i++ {
		if e.pos >= len(e.pcm) {
			e.finished = true
			return
		}
		y := float64(e.pcm[e.pos])
		base := i * channels
		for c := 0; c < channels; c++ {
			acc[base+c] += y
		}
		e.pos++
		if e.looping && e.pos >= e.loopEnd {
			e.pos = e.loopStart
		}
	}
}

// GC removes at most one finished, non-immortal entry, bounding
// per-period cleanup work to O(1) beyond the scan (spec.md section
// 4.5 step 1 / 4.6 "GC").
func (r *Registry) GC() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		finished := e.finished || (e.isFinished != nil && e.isFinished())
		if finished && !e.immortal {
			delete(r.entries, id)
			return
		}
	}
}

// Len reports the number of live entries (used by monitoring/tests).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
