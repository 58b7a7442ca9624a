package audiosink

import "testing"

func TestMemorySinkAccumulatesPeriods(t *testing.T) {
	s := NewMemorySink()
	if err := s.Write([]byte{1, 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write([]byte{3, 4}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := s.Periods()
	if len(got) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(got))
	}
	flat := s.Flatten()
	want := []byte{1, 2, 3, 4}
	for i, b := range want {
		if flat[i] != b {
			t.Fatalf("Flatten()[%d] = %d, want %d", i, flat[i], b)
		}
	}
}

func TestMemorySinkWriteAfterCloseErrors(t *testing.T) {
	s := NewMemorySink()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Write([]byte{1}); err != ErrClosed {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}
