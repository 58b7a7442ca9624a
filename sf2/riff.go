package sf2

import (
	"encoding/binary"
	"io"
)

// riffChunk is one decoded RIFF chunk: its four-character id and raw
// payload bytes. LIST chunks additionally expose a form type and are
// walked recursively by the caller.
type riffChunk struct {
	ID   string
	Data []byte
}

// readRIFF walks a flat sequence of RIFF chunks starting at the
// current read position of r, stopping at end-of-stream. It does not
// recurse into LIST chunks; callers that need LIST contents re-invoke
// readRIFF on chunk.Data[4:] after checking chunk.ID == "LIST".
func readRIFF(r io.Reader) ([]riffChunk, error) {
	var chunks []riffChunk
	hdr := make([]byte, 8)
	for {
		_, err := io.ReadFull(r, hdr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])
		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
		if size%2 == 1 {
			// RIFF chunks are word-aligned; skip the pad byte.
			if _, err := io.CopyN(io.Discard, r, 1); err != nil && err != io.EOF {
				return nil, err
			}
		}
		chunks = append(chunks, riffChunk{ID: id, Data: data})
	}
	return chunks, nil
}
