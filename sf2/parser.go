package sf2

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
)

// rawGen and rawMod mirror the on-disk sfGenList/sfModList records
// (SF2 spec 7.4/7.5/7.9); they are decoded into Zone.Generators /
// Zone.Modulators once bag boundaries are resolved.
type rawGen struct {
	Oper   uint16
	Amount int16
}

type rawMod struct {
	SrcOper    uint16
	DestOper   uint16
	Amount     int16
	AmtSrcOper uint16
	TransOper  uint16
}

type rawBag struct {
	GenNdx uint16
	ModNdx uint16
}

type rawPresetHdr struct {
	Name   string
	Preset uint16
	Bank   uint16
	BagNdx uint16
}

type rawInstHdr struct {
	Name   string
	BagNdx uint16
}

type rawSampleHdr struct {
	Name               string
	Start, End         uint32
	LoopStart, LoopEnd uint32
	SampleRate         uint32
	OriginalPitch      uint8
	PitchCorrection    int8
	SampleLink         uint16
	SampleType         uint16
}

// LoadSoundFont reads and decodes an SF2 2.01 file at path. Parsing
// errors are wrapped in *ParseError and never mutate any previously
// loaded SoundFont (spec.md section 7: parse errors are fully
// recoverable and isolated per file).
func LoadSoundFont(path string) (*SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return ParseSoundFont(data)
}

// ParseSoundFont decodes an in-memory SF2 2.01 file.
func ParseSoundFont(data []byte) (*SoundFont, error) {
	r := bytes.NewReader(data)
	top, err := readRIFF(r)
	if err != nil {
		return nil, parseErrf("RIFF", "%v", err)
	}
	if len(top) != 1 || top[0].ID != "RIFF" {
		return nil, parseErrf("RIFF", "expected a single top-level RIFF chunk")
	}
	body := top[0].Data
	if len(body) < 4 || string(body[0:4]) != "sfbk" {
		return nil, parseErrf("RIFF", "not an sfbk SoundFont file")
	}

	lists, err := readRIFF(bytes.NewReader(body[4:]))
	if err != nil {
		return nil, parseErrf("RIFF", "%v", err)
	}

	var sdata, pdata []byte
	for _, c := range lists {
		if c.ID != "LIST" || len(c.Data) < 4 {
			continue
		}
		switch string(c.Data[0:4]) {
		case "sdta":
			sdata = c.Data[4:]
		case "pdta":
			pdata = c.Data[4:]
		}
	}
	if pdata == nil {
		return nil, parseErrf("pdta", "missing preset/instrument/sample directory")
	}

	pdtaChunks, err := readRIFF(bytes.NewReader(pdata))
	if err != nil {
		return nil, parseErrf("pdta", "%v", err)
	}
	chunkByID := make(map[string][]byte, len(pdtaChunks))
	for _, c := range pdtaChunks {
		chunkByID[c.ID] = c.Data
	}

	smplData, err := findSmpl(sdata)
	if err != nil {
		return nil, err
	}

	presetHdrs, err := parsePresetHeaders(chunkByID["phdr"])
	if err != nil {
		return nil, err
	}
	presetBags, err := parseBags(chunkByID["pbag"])
	if err != nil {
		return nil, err
	}
	presetGens, err := parseGens(chunkByID["pgen"])
	if err != nil {
		return nil, err
	}
	presetMods, err := parseMods(chunkByID["pmod"])
	if err != nil {
		return nil, err
	}
	instHdrs, err := parseInstHeaders(chunkByID["inst"])
	if err != nil {
		return nil, err
	}
	instBags, err := parseBags(chunkByID["ibag"])
	if err != nil {
		return nil, err
	}
	instGens, err := parseGens(chunkByID["igen"])
	if err != nil {
		return nil, err
	}
	instMods, err := parseMods(chunkByID["imod"])
	if err != nil {
		return nil, err
	}
	sampleHdrs, err := parseSampleHeaders(chunkByID["shdr"])
	if err != nil {
		return nil, err
	}

	instruments := buildInstruments(instHdrs, instBags, instGens, instMods)
	presets := buildPresets(presetHdrs, presetBags, presetGens, presetMods)
	samples := buildSamples(sampleHdrs, smplData)

	return &SoundFont{Presets: presets, Instruments: instruments, Samples: samples}, nil
}

func findSmpl(sdata []byte) ([]byte, error) {
	if sdata == nil {
		return nil, nil
	}
	chunks, err := readRIFF(bytes.NewReader(sdata))
	if err != nil {
		return nil, parseErrf("sdta", "%v", err)
	}
	for _, c := range chunks {
		if c.ID == "smpl" {
			return c.Data, nil
		}
	}
	return nil, nil
}

func cstr(b []byte) string {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		n = len(b)
	}
	return strings.TrimRight(string(b[:n]), " \x00")
}

func parsePresetHeaders(b []byte) ([]rawPresetHdr, error) {
	const recSize = 38
	if len(b)%recSize != 0 || len(b) == 0 {
		return nil, parseErrf("phdr", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawPresetHdr, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawPresetHdr{
			Name:   cstr(rec[0:20]),
			Preset: binary.LittleEndian.Uint16(rec[20:22]),
			Bank:   binary.LittleEndian.Uint16(rec[22:24]),
			BagNdx: binary.LittleEndian.Uint16(rec[24:26]),
		}
	}
	return out, nil
}

func parseInstHeaders(b []byte) ([]rawInstHdr, error) {
	const recSize = 22
	if len(b)%recSize != 0 || len(b) == 0 {
		return nil, parseErrf("inst", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawInstHdr, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawInstHdr{
			Name:   cstr(rec[0:20]),
			BagNdx: binary.LittleEndian.Uint16(rec[20:22]),
		}
	}
	return out, nil
}

func parseBags(b []byte) ([]rawBag, error) {
	const recSize = 4
	if len(b)%recSize != 0 || len(b) == 0 {
		return nil, parseErrf("bag", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawBag, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawBag{
			GenNdx: binary.LittleEndian.Uint16(rec[0:2]),
			ModNdx: binary.LittleEndian.Uint16(rec[2:4]),
		}
	}
	return out, nil
}

func parseGens(b []byte) ([]rawGen, error) {
	const recSize = 4
	if len(b)%recSize != 0 {
		return nil, parseErrf("gen", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawGen, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawGen{
			Oper:   binary.LittleEndian.Uint16(rec[0:2]),
			Amount: int16(binary.LittleEndian.Uint16(rec[2:4])),
		}
	}
	return out, nil
}

func parseMods(b []byte) ([]rawMod, error) {
	const recSize = 10
	if len(b)%recSize != 0 {
		return nil, parseErrf("mod", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawMod, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawMod{
			SrcOper:    binary.LittleEndian.Uint16(rec[0:2]),
			DestOper:   binary.LittleEndian.Uint16(rec[2:4]),
			Amount:     int16(binary.LittleEndian.Uint16(rec[4:6])),
			AmtSrcOper: binary.LittleEndian.Uint16(rec[6:8]),
			TransOper:  binary.LittleEndian.Uint16(rec[8:10]),
		}
	}
	return out, nil
}

func parseSampleHeaders(b []byte) ([]rawSampleHdr, error) {
	const recSize = 46
	if len(b)%recSize != 0 || len(b) == 0 {
		return nil, parseErrf("shdr", "invalid record size (%d bytes)", len(b))
	}
	n := len(b) / recSize
	out := make([]rawSampleHdr, n)
	for i := 0; i < n; i++ {
		rec := b[i*recSize : (i+1)*recSize]
		out[i] = rawSampleHdr{
			Name:            cstr(rec[0:20]),
			Start:           binary.LittleEndian.Uint32(rec[20:24]),
			End:             binary.LittleEndian.Uint32(rec[24:28]),
			LoopStart:       binary.LittleEndian.Uint32(rec[28:32]),
			LoopEnd:         binary.LittleEndian.Uint32(rec[32:36]),
			SampleRate:      binary.LittleEndian.Uint32(rec[36:40]),
			OriginalPitch:   rec[40],
			PitchCorrection: int8(rec[41]),
			SampleLink:      binary.LittleEndian.Uint16(rec[42:44]),
			SampleType:      binary.LittleEndian.Uint16(rec[44:46]),
		}
	}
	return out, nil
}

// decodeGenerator turns a raw (oper, amount) pair into a Generator/
// Amount, applying the ranges-vs-short split from SF2 spec 7.5 (only
// keyRange/velRange are byte-pair ranges; every other generator is a
// signed short).
func decodeGenerator(g rawGen) (Generator, Amount) {
	gen := Generator(g.Oper)
	if gen == GenKeyRange || gen == GenVelRange {
		lo := uint8(uint16(g.Amount) & 0xFF)
		hi := uint8(uint16(g.Amount) >> 8)
		return gen, Amount{Range: Range{Lo: lo, Hi: hi}}
	}
	return gen, Amount{Short: g.Amount}
}

// decodeSource unpacks a 16-bit modulator source operand (SF2 spec
// 8.2): bits 0-6 select the general controller, bit 7 distinguishes a
// MIDI CC index (unsupported — only the general controller palette
// from spec.md is modeled), bit 8 is direction, bit 9 is polarity,
// bits 10-15 select the curve type.
func decodeSource(v uint16) Source {
	return Source{
		Controller: Controller(v & 0x7F),
		Direction:  Direction((v >> 8) & 1),
		Polarity:   Polarity((v >> 9) & 1),
		Curve:      CurveType((v >> 10) & 0x3F),
	}
}

// zonesFromBags slices a preset's or instrument's generator/modulator
// lists at bag boundaries [lo, hi) and classifies each zone as global
// (no sampleID/instrument generator) or specific.
func zonesFromBags(bagLo, bagHi rawBag, gens []rawGen, mods []rawMod) Zone {
	z := Zone{Generators: GeneratorMap{}, InstrumentIndex: -1, SampleIndex: -1}
	for i := bagLo.GenNdx; i < bagHi.GenNdx && int(i) < len(gens); i++ {
		gen, amt := decodeGenerator(gens[i])
		z.Generators[gen] = amt
		switch gen {
		case GenInstrument:
			z.InstrumentIndex = int(amt.Short)
		case GenSampleID:
			z.SampleIndex = int(amt.Short)
		}
	}
	for i := bagLo.ModNdx; i < bagHi.ModNdx && int(i) < len(mods); i++ {
		m := mods[i]
		z.Modulators = append(z.Modulators, Modulator{
			Src:         decodeSource(m.SrcOper),
			AmountSrc:   decodeSource(m.AmtSrcOper),
			Destination: Generator(m.DestOper),
			Amount:      m.Amount,
			Transform:   Transform(m.TransOper),
		})
	}
	return z
}

func buildInstruments(hdrs []rawInstHdr, bags []rawBag, gens []rawGen, mods []rawMod) []Instrument {
	out := make([]Instrument, 0, len(hdrs))
	for i := 0; i < len(hdrs); i++ {
		// The final phdr/inst record is a terminal sentinel (SF2 spec
		// 7.2/7.6) marking the end of the preceding record's bag
		// range; it names no instrument of its own.
		if i == len(hdrs)-1 {
			break
		}
		inst := Instrument{Name: hdrs[i].Name}
		zones := splitZones(bags, hdrs[i].BagNdx, hdrs[i+1].BagNdx, gens, mods)
		for _, z := range zones {
			if z.IsGlobal() {
				zc := z
				inst.GlobalZone = &zc
			} else {
				inst.Zones = append(inst.Zones, z)
			}
		}
		out = append(out, inst)
	}
	return out
}

func buildPresets(hdrs []rawPresetHdr, bags []rawBag, gens []rawGen, mods []rawMod) []Preset {
	out := make([]Preset, 0, len(hdrs))
	for i := 0; i < len(hdrs); i++ {
		if i == len(hdrs)-1 {
			break
		}
		p := Preset{Name: hdrs[i].Name, Bank: int(hdrs[i].Bank), PresetNum: int(hdrs[i].Preset)}
		zones := splitZones(bags, hdrs[i].BagNdx, hdrs[i+1].BagNdx, gens, mods)
		for _, z := range zones {
			if z.IsGlobal() {
				zc := z
				p.GlobalZone = &zc
			} else {
				p.Zones = append(p.Zones, z)
			}
		}
		out = append(out, p)
	}
	return out
}

// splitZones produces one Zone per bag index in [bagLo, bagHi).
func splitZones(bags []rawBag, bagLo, bagHi uint16, gens []rawGen, mods []rawMod) []Zone {
	var zones []Zone
	for b := bagLo; b < bagHi; b++ {
		var lo, hi rawBag
		if int(b) < len(bags) {
			lo = bags[b]
		}
		if int(b+1) < len(bags) {
			hi = bags[b+1]
		} else if len(bags) > 0 {
			hi = bags[len(bags)-1]
		}
		zones = append(zones, zonesFromBags(lo, hi, gens, mods))
	}
	return zones
}

func buildSamples(hdrs []rawSampleHdr, smpl []byte) []Sample {
	out := make([]Sample, 0, len(hdrs))
	for _, h := range hdrs {
		if h.Name == "EOS" && h.Start == 0 && h.End == 0 {
			continue
		}
		var data []int16
		if smpl != nil && h.End >= h.Start {
			startByte := int(h.Start) * 2
			endByte := int(h.End) * 2
			if startByte >= 0 && endByte <= len(smpl) && endByte >= startByte {
				n := (endByte - startByte) / 2
				data = make([]int16, n)
				for i := 0; i < n; i++ {
					data[i] = int16(binary.LittleEndian.Uint16(smpl[startByte+i*2 : startByte+i*2+2]))
				}
			}
		}
		out = append(out, Sample{
			Name:            h.Name,
			Data:            data,
			SampleRate:      int(h.SampleRate),
			OriginalPitch:   h.OriginalPitch,
			PitchCorrection: h.PitchCorrection,
			LoopStart:       int(h.LoopStart) - int(h.Start),
			LoopEnd:         int(h.LoopEnd) - int(h.Start),
			// wSampleLink is the paired sample's index; sfSampleType
			// carries the link type.
			SampleLink:     SampleLink(h.SampleType),
			LinkedSampleID: int(h.SampleLink),
		})
	}
	return out
}
