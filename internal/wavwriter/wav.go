// Package wavwriter is a minimal streaming WAVE file writer adapted from
// the teacher's wav package, generalized to accept the normalized float32
// stereo frames Context.Render produces instead of pre-quantized int16
// samples. See http://soundfile.sapp.org/doc/WaveFormat/ for the format.
package wavwriter

import (
	"encoding/binary"
	"io"
)

const pcmFormat = 1

// Writer streams interleaved stereo float32 frames to a 16-bit PCM WAVE
// file. The header's size fields are patched in Finish once the total
// length is known, so WS must support seeking.
type Writer struct {
	WS io.WriteSeeker
}

type waveFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter writes the RIFF/WAVE/fmt header and the data chunk header with
// placeholder sizes, and returns a Writer ready for WriteFrames.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{WS: ws}

	if _, err := ws.Write([]byte("RIFF")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("fmt ")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(16)); err != nil {
		return nil, err
	}
	format := waveFormat{
		AudioFormat:   pcmFormat,
		Channels:      2,
		SampleRate:    uint32(sampleRate),
		BlockAlign:    2 * (16 / 8),
		BitsPerSample: 16,
	}
	format.ByteRate = format.SampleRate * uint32(format.BlockAlign)
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("data")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}

	return w, nil
}

// WriteFrames quantizes and writes len(left) == len(right) interleaved
// stereo frames, clipping each float32 sample to [-1, +1] before scaling
// to int16 — the same clip range Context.Mixdown already guarantees, kept
// here defensively since the writer has no other caller-enforced contract.
func (w *Writer) WriteFrames(left, right []float32) error {
	frame := make([]int16, 2)
	for i := range left {
		frame[0] = quantize(left[i])
		frame[1] = quantize(right[i])
		if err := binary.Write(w.WS, binary.LittleEndian, frame); err != nil {
			return err
		}
	}
	return nil
}

func quantize(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

// Finish patches the RIFF and data chunk sizes now that the total file
// length is known, and must be called exactly once after the last
// WriteFrames call.
func (w *Writer) Finish() (int64, error) {
	length, err := w.WS.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(length-8)); err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(length-44)); err != nil {
		return 0, err
	}

	return length, nil
}
