package hm

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Create when a module fails to load. The
// render path (Render/Mixdown) never returns an error; malformed pattern
// data or an unbound sample simply produces silence.
var (
	// ErrTruncated is returned when the cursor would read past the end of
	// the module buffer.
	ErrTruncated = errors.New("hm: truncated module")

	// ErrTooManyChannels is returned when the header declares more than
	// MaxChannels channels.
	ErrTooManyChannels = errors.New("hm: too many channels")

	// ErrInconsistentSample is the sentinel wrapped by InconsistentSampleError.
	// Use errors.Is(err, ErrInconsistentSample) to test for it without caring
	// which sample or invariant failed.
	ErrInconsistentSample = errors.New("hm: inconsistent sample")

	// ErrOggDecodeFailed is returned when a sample's embedded Ogg-Vorbis
	// payload fails to decode.
	ErrOggDecodeFailed = errors.New("hm: ogg decode failed")
)

// InconsistentSampleError reports which sample record failed a structural
// invariant (§3 of the spec: loop_start < frame_count, and the envelope
// boundaries predelay <= attack <= hold <= decay).
type InconsistentSampleError struct {
	SampleIndex int
	Reason      string
}

func (e *InconsistentSampleError) Error() string {
	return fmt.Sprintf("hm: sample %d: %s", e.SampleIndex, e.Reason)
}

func (e *InconsistentSampleError) Unwrap() error { return ErrInconsistentSample }
