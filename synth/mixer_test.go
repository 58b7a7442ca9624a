package synth

import "testing"

func TestMixerRenderPeriodPacksSilenceWhenRegistryEmpty(t *testing.T) {
	audio := AudioConfig{SampleRate: 1000, Channels: 2, PeriodSize: 4}
	reg := NewRegistry()
	m := NewMixer(audio, EngineConfig{MasterVolume: 1}, reg)

	period := m.RenderPeriod()
	if len(period) != audio.PeriodSize*audio.Channels*2 {
		t.Fatalf("period length = %d, want %d", len(period), audio.PeriodSize*audio.Channels*2)
	}
	for _, b := range period {
		if b != 0 {
			t.Fatalf("expected silence from an empty registry, got non-zero byte")
		}
	}
}

func TestMixerRenderPeriodClampsOverflow(t *testing.T) {
	audio := AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 1}
	reg := NewRegistry()
	reg.AddCustom(func(acc []float64, frames, channels int) {
		acc[0] = 1e9
	}, func() bool { return false })
	m := NewMixer(audio, EngineConfig{MasterVolume: 1}, reg)

	period := m.RenderPeriod()
	got := int16(uint16(period[0]) | uint16(period[1])<<8)
	if got != 32767 {
		t.Fatalf("expected clamping to int16 max, got %d", got)
	}
}

func TestMixerRenderPeriodClampsNegativeOverflow(t *testing.T) {
	audio := AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 1}
	reg := NewRegistry()
	reg.AddCustom(func(acc []float64, frames, channels int) {
		acc[0] = -1e9
	}, func() bool { return false })
	m := NewMixer(audio, EngineConfig{MasterVolume: 1}, reg)

	period := m.RenderPeriod()
	got := int16(uint16(period[0]) | uint16(period[1])<<8)
	if got != -32767 {
		t.Fatalf("expected hard saturation at -(2^15-1) = -32767, got %d", got)
	}
}

func TestMixerMasterVolumeScalesOutput(t *testing.T) {
	audio := AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 1}
	reg := NewRegistry()
	reg.AddCustom(func(acc []float64, frames, channels int) {
		acc[0] = 10000
	}, func() bool { return false })
	m := NewMixer(audio, EngineConfig{MasterVolume: 0.5}, reg)

	period := m.RenderPeriod()
	got := int16(uint16(period[0]) | uint16(period[1])<<8)
	if got != 5000 {
		t.Fatalf("expected master volume to halve the sample, got %d", got)
	}
}

func TestPeriodQueuePushPopRoundTrips(t *testing.T) {
	q := NewPeriodQueue(2)
	q.Push([]byte{1, 2, 3})
	got, ok := q.Pop()
	if !ok || len(got) != 3 || got[0] != 1 {
		t.Fatalf("round trip failed: got=%v ok=%v", got, ok)
	}
}
