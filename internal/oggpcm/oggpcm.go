// Package oggpcm adapts github.com/jfreymuth/oggvorbis to the "byte buffer
// in, interleaved float frames out" contract that the HM sample store needs
// for embedded Ogg-Vorbis sample payloads (spec.md §1, §4.3). It is the only
// place in the repository that speaks Ogg-Vorbis; the core hm package never
// imports the decoder directly.
package oggpcm

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"
)

// Decode decodes an Ogg-Vorbis payload into exactly frameCount*channels
// interleaved float32 samples. It errors if the stream decodes to fewer
// frames than requested; a stream with more frames is truncated, matching
// the C reference decoder's stb_vorbis_get_samples_float_interleaved call,
// which also takes an exact sample budget.
func Decode(payload []byte, channels, frameCount int) ([]float32, error) {
	r, err := oggvorbis.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("oggpcm: open stream: %w", err)
	}

	want := frameCount * channels
	out := make([]float32, 0, want)
	buf := make([]float32, 4096)
	for len(out) < want {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			break
		}
	}

	if len(out) < want {
		return nil, fmt.Errorf("oggpcm: decoded %d samples, need %d", len(out), want)
	}
	return out[:want], nil
}
