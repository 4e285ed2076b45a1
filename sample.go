package hm

import (
	"encoding/binary"
	"fmt"

	"github.com/RGDTAB/HackyModule/internal/oggpcm"
)

// Sample is one pitched-instrument recording, decoded and normalized at
// load time (spec.md §3, §4.3). All its fields are set once by the loader
// and never mutated during rendering, except envelopeTimer, which the
// voice engine advances on every read (spec.md §4.6, §9 "envelope timer
// ownership" — deliberately kept monophonic per sample, see DESIGN.md).
type Sample struct {
	InstrumentID int

	isOgg      bool
	Frames     []float32 // interleaved, Channels per frame
	FrameCount int
	SampleRate uint32
	Channels   int // 1 or 2

	Loop      bool
	LoopStart int

	Pan float32 // [-1, +1]

	RelativeNote  int
	KeyRangeStart int
	KeyRangeEnd   int

	EnvelopeEnabled bool
	Predelay        int // cumulative output-frame offsets from note-on
	Attack          int
	Hold            int
	Decay           int
	Sustain         float32 // [0, 1]
	Fadeout         int     // output frames

	envelopeTimer uint64
}

// decodeSample reads one sample record (§4.3) from the cursor and decodes
// its PCM/Ogg payload into normalized interleaved float frames. rate is the
// Context's output sample rate, used to convert the millisecond envelope
// fields into output-frame offsets.
func decodeSample(c *cursor, rate uint32, index int) (Sample, error) {
	var s Sample

	instrumentID, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.InstrumentID = int(instrumentID)

	oggFlag, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.isOgg = oggFlag != 0

	dataLength, err := c.readU32BE()
	if err != nil {
		return s, err
	}
	frameCount, err := c.readU32BE()
	if err != nil {
		return s, err
	}
	s.FrameCount = int(frameCount)

	sampleRate, err := c.readU32BE()
	if err != nil {
		return s, err
	}
	s.SampleRate = sampleRate

	sixteenBit, err := c.readByte()
	if err != nil {
		return s, err
	}
	channels, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.Channels = int(channels)

	loopFlag, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.Loop = loopFlag != 0

	loopStart, err := c.readU32BE()
	if err != nil {
		return s, err
	}
	s.LoopStart = int(loopStart)

	pan16, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	s.Pan = (float32(int32(pan16)-32767) / 32767.0)

	volume16, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	volume := float32(volume16) / 65535.0

	relativeNote, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.RelativeNote = int(relativeNote)

	keyStart, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.KeyRangeStart = int(keyStart)

	keyEnd, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.KeyRangeEnd = int(keyEnd)

	envelope, err := c.readByte()
	if err != nil {
		return s, err
	}
	s.EnvelopeEnabled = envelope != 0

	envMul := float64(rate) / 1000.0
	predelayMs, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	attackMs, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	holdMs, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	decayMs, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	sustain16, err := c.readU16BE()
	if err != nil {
		return s, err
	}
	fadeoutMs, err := c.readU16BE()
	if err != nil {
		return s, err
	}

	s.Predelay = int(float64(predelayMs) * envMul)
	s.Attack = s.Predelay + int(float64(attackMs)*envMul)
	s.Hold = s.Attack + int(float64(holdMs)*envMul)
	s.Decay = s.Hold + int(float64(decayMs)*envMul)
	s.Sustain = float32(sustain16) / 65535.0
	s.Fadeout = int(float64(fadeoutMs) * envMul)

	payload, err := c.readBytes(int(dataLength))
	if err != nil {
		return s, err
	}

	frames, err := decodePayload(payload, s.isOgg, sixteenBit != 0, s.Channels, s.FrameCount)
	if err != nil {
		return s, err
	}
	for i := range frames {
		frames[i] *= volume
	}
	s.Frames = frames

	if s.LoopStart >= s.FrameCount && s.FrameCount > 0 {
		return s, &InconsistentSampleError{SampleIndex: index, Reason: "loop_start >= frame_count"}
	}
	if !(s.Predelay <= s.Attack && s.Attack <= s.Hold && s.Hold <= s.Decay) {
		return s, &InconsistentSampleError{SampleIndex: index, Reason: "envelope boundaries not monotonic"}
	}

	return s, nil
}

// decodePayload turns a raw sample payload into normalized interleaved
// float32 frames, approximately in [-1, +1] (spec.md §4.3).
func decodePayload(payload []byte, isOgg, sixteenBit bool, channels, frameCount int) ([]float32, error) {
	want := frameCount * channels

	if isOgg {
		frames, err := oggpcm.Decode(payload, channels, frameCount)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOggDecodeFailed, err)
		}
		return frames, nil
	}

	frames := make([]float32, want)
	if sixteenBit {
		if len(payload) < want*2 {
			return nil, ErrTruncated
		}
		for i := 0; i < want; i++ {
			v := int16(binary.LittleEndian.Uint16(payload[i*2:]))
			frames[i] = float32(v) / 32767.0
		}
	} else {
		if len(payload) < want {
			return nil, ErrTruncated
		}
		for i := 0; i < want; i++ {
			frames[i] = (float32(payload[i]) - 128) / 128.0
		}
	}
	return frames, nil
}

// read fetches the frame at index n (both channels) and applies the
// sample's own pan law (spec.md §4.6 step 5) and envelope multiplier (step
// 6), advancing the shared envelope timer by one. It does not clip.
func (s *Sample) read(n int) (left, right float32) {
	if s.Channels == 2 {
		left = s.Frames[n*2]
		right = s.Frames[n*2+1]
	} else {
		left = s.Frames[n]
		right = left
	}

	left, right = panFrame(left, right, s.Pan)

	if s.EnvelopeEnabled {
		mult := s.envelopeMultiplier()
		left *= mult
		right *= mult
	}

	return left, right
}

// envelopeMultiplier computes the current envelope gain and advances the
// timer, following the cumulative boundary comparisons of spec.md §4.6
// step 6 and §9 (the attack divisor is the cumulative attack boundary, not
// the attack segment length).
func (s *Sample) envelopeMultiplier() float32 {
	t := s.envelopeTimer
	var mult float32

	switch {
	case t < uint64(s.Predelay):
		mult = 0
	case t < uint64(s.Attack):
		mult = float32(t) / float32(s.Attack)
	case t < uint64(s.Hold):
		mult = 1
	case t < uint64(s.Decay):
		mult = 1 - (float32(t)/float32(s.Decay))*(1-s.Sustain)
	default:
		mult = s.Sustain
	}

	s.envelopeTimer++
	return mult
}

// panFrame applies the asymmetric-linear pan law shared by sample pan and
// channel pan (spec.md §4.6 steps 5 and 7, §9 "pan attenuation"): negative
// pan attenuates the right channel, positive pan attenuates the left.
func panFrame(left, right, pan float32) (float32, float32) {
	if pan < 0 {
		right -= right * -pan
	} else if pan > 0 {
		left -= left * pan
	}
	return left, right
}

// clip constrains a sample to [-1, +1] (spec.md §4.6 step 10, §4.9).
func clip(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
