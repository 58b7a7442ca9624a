package sf2

import "testing"

func TestGeneratorMapAdditiveComposition(t *testing.T) {
	// Instrument zone sets G=5, preset zone adds G=3: effective is the
	// sum (spec.md section 8, "Generator composition" law).
	gens := Defaults()
	gens.AddShort(GenCoarseTune, 5)
	gens.AddShort(GenCoarseTune, 3)
	if got := gens.Short(GenCoarseTune, 0); got != 8 {
		t.Fatalf("coarseTune = %d, want 8", got)
	}
}

func TestGeneratorMapNonAdditiveReplaces(t *testing.T) {
	gens := GeneratorMap{}
	gens.AddShort(GenSampleID, 2)
	gens.AddShort(GenSampleID, 9)
	if got := gens.Short(GenSampleID, -1); got != 9 {
		t.Fatalf("sampleID = %d, want 9 (replace, not sum)", got)
	}
}

func TestGeneratorMapDefaultsFillOmitted(t *testing.T) {
	gens := Defaults()
	if got := gens.Short(GenInitialFilterFc, 0); got != 13500 {
		t.Fatalf("initialFilterFc default = %d, want 13500", got)
	}
	// Pan defaults to 0, so Defaults() omits it and Short falls back to
	// the caller's default.
	if got := gens.Short(GenPan, -999); got != -999 {
		t.Fatalf("unset generator should use caller default, got %d", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Lo: 60, Hi: 72}
	if !r.Contains(60) || !r.Contains(72) {
		t.Fatalf("boundary values should be contained")
	}
	if r.Contains(59) || r.Contains(73) {
		t.Fatalf("values outside [lo,hi] must not be contained")
	}
}

func TestGeneratorMapCloneIsIndependent(t *testing.T) {
	base := Defaults()
	clone := base.Clone()
	clone.AddShort(GenCoarseTune, 7)
	if _, ok := base[GenCoarseTune]; ok {
		t.Fatalf("mutating a clone must not affect the source map")
	}
}
