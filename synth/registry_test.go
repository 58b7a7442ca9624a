package synth

import "testing"

func TestRegistryAddCustomRendersAndReportsFinished(t *testing.T) {
	r := NewRegistry()
	calls := 0
	finished := false
	id := r.AddCustom(func(acc []float64, frames, channels int) {
		calls++
		for i := range acc {
			acc[i] += 1
		}
	}, func() bool { return finished })

	acc := make([]float64, 4)
	r.Collect(acc, 2, 2)
	if calls != 1 {
		t.Fatalf("expected the custom collect callback to run once, got %d", calls)
	}
	for _, v := range acc {
		if v != 1 {
			t.Fatalf("expected the accumulator to receive the custom source's contribution, got %v", acc)
		}
	}

	finished = true
	r.Collect(acc, 2, 2)
	r.GC()
	if r.Len() != 0 {
		t.Fatalf("expected the finished custom entry (id %d) to be collected", id)
	}
}

func TestRegistryStaticBufferLoopsAndFinishes(t *testing.T) {
	r := NewRegistry()
	pcm := []int16{1, 2, 3, 4}
	id := r.AddStatic(pcm, 1, 3, true, false)

	acc := make([]float64, 8)
	r.Collect(acc, 8, 1)
	if r.Len() != 1 {
		t.Fatalf("looping static buffer should not finish from data exhaustion")
	}

	r.EndLoop(id)
	acc2 := make([]float64, 8)
	r.Collect(acc2, 8, 1)
	r.GC()
	if r.Len() != 0 {
		t.Fatalf("expected the static buffer to finish and be GC'd once looping ends and its tail plays out")
	}
}

func TestRegistryGCLeavesImmortalEntriesAlone(t *testing.T) {
	r := NewRegistry()
	r.AddStatic([]int16{1, 2}, 0, 2, false, true)
	acc := make([]float64, 8)
	r.Collect(acc, 8, 1)
	r.GC()
	if r.Len() != 1 {
		t.Fatalf("an immortal finished entry must survive GC")
	}
}

func TestRegistryGCRemovesAtMostOnePerCall(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		id := r.AddCustom(func(acc []float64, frames, channels int) {}, func() bool { return true })
		_ = id
	}
	r.GC()
	if r.Len() != 2 {
		t.Fatalf("expected GC to remove exactly one finished entry per call, got %d remaining", r.Len())
	}
}
