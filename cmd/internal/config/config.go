// Package config wires cmd/hmplay's -reverb flag to a comb.Reverber,
// adapted from the teacher's cmd/internal/config package for HM's
// float32-native render path.
package config

import (
	"fmt"

	"github.com/RGDTAB/HackyModule/internal/comb"
)

// passThrough implements comb.Reverber with a bounded ring buffer and no
// signal processing, for -reverb=none.
type passThrough struct {
	audio             []float32
	bufSize           int
	readPos, writePos int
	n                 int
}

var _ comb.Reverber = &passThrough{}

func newPassThrough(bufferSize int) *passThrough {
	return &passThrough{audio: make([]float32, bufferSize), bufSize: bufferSize}
}

func (r *passThrough) InputSamples(in []float32) int {
	free := r.bufSize - r.n
	n := len(in)
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	if r.writePos+n >= r.bufSize {
		n1 := r.bufSize - r.writePos
		n2 := n - n1
		copy(r.audio[r.writePos:r.writePos+n1], in[:n1])
		copy(r.audio[:n2], in[n1:n1+n2])
		r.writePos = n2
	} else {
		copy(r.audio[r.writePos:r.writePos+n], in[:n])
		r.writePos += n
	}
	r.n += n
	return n
}

func (r *passThrough) GetAudio(out []float32) int {
	n := len(out)
	if n > r.n {
		n = r.n
	}
	if n == 0 {
		return 0
	}

	if r.readPos+n > r.bufSize {
		n1 := r.bufSize - r.readPos
		n2 := n - n1
		copy(out[:n1], r.audio[r.readPos:r.readPos+n1])
		copy(out[n1:n], r.audio[:n2])
		r.readPos = n2
	} else {
		copy(out[:n], r.audio[r.readPos:r.readPos+n])
		r.readPos += n
	}
	r.n -= n
	return n
}

// ReverbFromFlag builds a comb.Reverber for the -reverb flag's value.
func ReverbFromFlag(reverb string, sampleRate int) (comb.Reverber, error) {
	decay := float32(0.3)
	mix := float32(0.2)
	damping := float32(0.4)

	switch reverb {
	case "none", "":
		return newPassThrough(16 * 1024), nil
	case "light":
		decay, mix = 0.3, 0.15
	case "medium":
		decay, mix = 0.5, 0.35
	case "hall":
		decay, mix = 0.75, 0.55
	default:
		return nil, fmt.Errorf("unrecognized reverb setting %q", reverb)
	}

	return comb.NewStereoReverb(16*1024, decay, damping, mix, sampleRate), nil
}
