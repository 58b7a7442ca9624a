package sf2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// riffChunkBytes serializes a 4CC id + payload as an on-disk RIFF
// chunk, padding to an even length as the format requires.
func riffChunkBytes(id string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(id)
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(len(payload)))
	buf.Write(sz[:])
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func listChunk(form string, subchunks ...[]byte) []byte {
	var body bytes.Buffer
	body.WriteString(form)
	for _, c := range subchunks {
		body.Write(c)
	}
	return riffChunkBytes("LIST", body.Bytes())
}

func nameField(name string) []byte {
	b := make([]byte, 20)
	copy(b, name)
	return b
}

func u16(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func u32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

// buildMinimalSF2 constructs one preset -> one instrument -> one
// sample, with a single full-range zone at each level and a
// coarseTune generator split between preset and instrument zones to
// exercise the additive composition rule end to end.
func buildMinimalSF2(t *testing.T) []byte {
	t.Helper()

	// shdr: one real sample + EOS terminator.
	var shdr bytes.Buffer
	shdr.Write(nameField("TestSample"))
	shdr.Write(u32(0))  // start
	shdr.Write(u32(4))  // end (4 frames)
	shdr.Write(u32(1))  // loop start
	shdr.Write(u32(3))  // loop end
	shdr.Write(u32(44100))
	shdr.WriteByte(60) // original pitch
	shdr.WriteByte(0)  // pitch correction
	shdr.Write(u16(0)) // linked sample index (none)
	shdr.Write(u16(1)) // sample type: LinkMono
	shdr.Write(nameField("EOS"))
	shdr.Write(u32(0))
	shdr.Write(u32(0))
	shdr.Write(u32(0))
	shdr.Write(u32(0))
	shdr.Write(u32(0))
	shdr.WriteByte(0)
	shdr.WriteByte(0)
	shdr.Write(u16(0))
	shdr.Write(u16(0))

	// igen: instrument zone sets sampleID=0 and coarseTune=+2.
	var igen bytes.Buffer
	igen.Write(u16(uint16(GenCoarseTune)))
	igen.Write(u16(uint16(int16(2))))
	igen.Write(u16(uint16(GenSampleID)))
	igen.Write(u16(0))

	ibag := bytes.Buffer{}
	ibag.Write(u16(0)) // zone 0 gen start
	ibag.Write(u16(0)) // zone 0 mod start
	ibag.Write(u16(2)) // terminal: gen end
	ibag.Write(u16(0))

	var inst bytes.Buffer
	inst.Write(nameField("TestInst"))
	inst.Write(u16(0))
	inst.Write(nameField("EOI"))
	inst.Write(u16(1))

	// pgen: preset zone adds coarseTune=+3, references instrument 0.
	var pgen bytes.Buffer
	pgen.Write(u16(uint16(GenCoarseTune)))
	pgen.Write(u16(uint16(int16(3))))
	pgen.Write(u16(uint16(GenInstrument)))
	pgen.Write(u16(0))

	pbag := bytes.Buffer{}
	pbag.Write(u16(0))
	pbag.Write(u16(0))
	pbag.Write(u16(2))
	pbag.Write(u16(0))

	var phdr bytes.Buffer
	phdr.Write(nameField("TestPreset"))
	phdr.Write(u16(0)) // preset num
	phdr.Write(u16(1)) // bank
	phdr.Write(u16(0)) // bag ndx
	phdr.Write(u32(0))
	phdr.Write(u32(0))
	phdr.Write(u32(0))
	phdr.Write(nameField("EOP"))
	phdr.Write(u16(0))
	phdr.Write(u16(0))
	phdr.Write(u16(1))
	phdr.Write(u32(0))
	phdr.Write(u32(0))
	phdr.Write(u32(0))

	smpl := make([]byte, 8) // 4 frames * 2 bytes
	binary.LittleEndian.PutUint16(smpl[0:2], uint16(int16(100)))
	binary.LittleEndian.PutUint16(smpl[2:4], uint16(int16(200)))
	binary.LittleEndian.PutUint16(smpl[4:6], uint16(int16(300)))
	binary.LittleEndian.PutUint16(smpl[6:8], uint16(int16(400)))

	sdta := listChunk("sdta", riffChunkBytes("smpl", smpl))
	pdtaBody := bytes.Buffer{}
	pdtaBody.Write(riffChunkBytes("phdr", phdr.Bytes()))
	pdtaBody.Write(riffChunkBytes("pbag", pbag.Bytes()))
	pdtaBody.Write(riffChunkBytes("pmod", nil))
	pdtaBody.Write(riffChunkBytes("pgen", pgen.Bytes()))
	pdtaBody.Write(riffChunkBytes("inst", inst.Bytes()))
	pdtaBody.Write(riffChunkBytes("ibag", ibag.Bytes()))
	pdtaBody.Write(riffChunkBytes("imod", nil))
	pdtaBody.Write(riffChunkBytes("igen", igen.Bytes()))
	pdtaBody.Write(riffChunkBytes("shdr", shdr.Bytes()))
	pdta := listChunk("pdta", pdtaBody.Bytes())

	info := listChunk("INFO", riffChunkBytes("ifil", []byte{2, 0, 1, 0}))

	riffBody := bytes.Buffer{}
	riffBody.WriteString("sfbk")
	riffBody.Write(info)
	riffBody.Write(sdta)
	riffBody.Write(pdta)

	return riffChunkBytes("RIFF", riffBody.Bytes())
}

func TestParseSoundFontMinimal(t *testing.T) {
	sf, err := ParseSoundFont(buildMinimalSF2(t))
	if err != nil {
		t.Fatalf("ParseSoundFont: %v", err)
	}
	if len(sf.Presets) != 1 {
		t.Fatalf("presets = %d, want 1", len(sf.Presets))
	}
	if len(sf.Instruments) != 1 {
		t.Fatalf("instruments = %d, want 1", len(sf.Instruments))
	}
	if len(sf.Samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(sf.Samples))
	}

	preset := sf.Presets[0]
	if preset.Bank != 1 || preset.PresetNum != 0 {
		t.Fatalf("preset bank/num = %d/%d, want 1/0", preset.Bank, preset.PresetNum)
	}
	if len(preset.Zones) != 1 {
		t.Fatalf("preset zones = %d, want 1", len(preset.Zones))
	}
	if got := preset.Zones[0].Generators.Short(GenCoarseTune, 0); got != 3 {
		t.Fatalf("preset zone coarseTune = %d, want 3", got)
	}

	inst := sf.Instruments[0]
	if len(inst.Zones) != 1 {
		t.Fatalf("instrument zones = %d, want 1", len(inst.Zones))
	}
	if got := inst.Zones[0].Generators.Short(GenCoarseTune, 0); got != 2 {
		t.Fatalf("instrument zone coarseTune = %d, want 2", got)
	}

	s := sf.Samples[0]
	if s.SampleRate != 44100 || s.OriginalPitch != 60 {
		t.Fatalf("sample header decoded incorrectly: %+v", s)
	}
	if len(s.Data) != 4 || s.Data[0] != 100 || s.Data[3] != 400 {
		t.Fatalf("sample PCM decoded incorrectly: %v", s.Data)
	}
	if s.LoopStart != 1 || s.LoopEnd != 3 {
		t.Fatalf("sample loop points = [%d,%d), want [1,3)", s.LoopStart, s.LoopEnd)
	}
}

func TestParseSoundFontMalformedReturnsParseError(t *testing.T) {
	_, err := ParseSoundFont([]byte("not a soundfont"))
	if err == nil {
		t.Fatalf("expected a parse error for non-RIFF data")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
