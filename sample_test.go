package hm

import (
	"errors"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

func baseMonoSample() sampleSpec {
	return sampleSpec{
		instrumentID: 1,
		channels:     1,
		pan:          0,
		volume:       1,
		keyStart:     0,
		keyEnd:       127,
		payload:      monoU8Payload(0, 64, 127, -128, -64),
		frames:       5,
	}
}

func decodeOneSample(t *testing.T, s sampleSpec) (Sample, error) {
	t.Helper()
	buf := buildSampleRecord(s)
	cur := newCursor(buf)
	return decodeSample(cur, 44100, 0)
}

func TestDecodeSample8BitNormalization(t *testing.T) {
	spec := clone.Clone(baseMonoSample())
	spec.payload = monoU8Payload(127, -128, 0)
	spec.frames = 3

	s, err := decodeOneSample(t, spec)
	if err != nil {
		t.Fatalf("decodeSample: %v", err)
	}
	if s.FrameCount != 3 || s.Channels != 1 {
		t.Fatalf("FrameCount/Channels = %d/%d, want 3/1", s.FrameCount, s.Channels)
	}

	want := []float32{127.0 / 128.0, -1.0, 0}
	for i, w := range want {
		if got := s.Frames[i]; got != w {
			t.Errorf("frame[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDecodeSamplePanAndVolumeFields(t *testing.T) {
	spec := clone.Clone(baseMonoSample())
	spec.pan = -1
	spec.volume = 0.5
	spec.payload = monoU8Payload(127)
	spec.frames = 1

	s, err := decodeOneSample(t, spec)
	if err != nil {
		t.Fatalf("decodeSample: %v", err)
	}
	if s.Pan > -0.99 {
		t.Errorf("Pan = %v, want ~-1", s.Pan)
	}
	// raw sample value 127/128 scaled by volume 0.5
	if got, want := s.Frames[0], float32(127.0/128.0)*0.5; abs32(got-want) > 1e-4 {
		t.Errorf("Frames[0] = %v, want ~%v", got, want)
	}
}

func TestDecodeSampleEnvelopeBoundariesCumulative(t *testing.T) {
	spec := clone.Clone(baseMonoSample())
	spec.envelope = true
	spec.predelayMs = 10
	spec.attackMs = 20
	spec.holdMs = 30
	spec.decayMs = 40
	spec.sustain = 0.25

	s, err := decodeOneSample(t, spec)
	if err != nil {
		t.Fatalf("decodeSample: %v", err)
	}

	rate := 44100.0
	wantPredelay := int(10 * rate / 1000)
	wantAttack := wantPredelay + int(20*rate/1000)
	wantHold := wantAttack + int(30*rate/1000)
	wantDecay := wantHold + int(40*rate/1000)

	if s.Predelay != wantPredelay || s.Attack != wantAttack || s.Hold != wantHold || s.Decay != wantDecay {
		t.Errorf("boundaries = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
			s.Predelay, s.Attack, s.Hold, s.Decay, wantPredelay, wantAttack, wantHold, wantDecay)
	}
}

func TestDecodeSampleLoopStartPastEndIsInconsistent(t *testing.T) {
	spec := clone.Clone(baseMonoSample())
	spec.loop = true
	spec.loopStart = 10 // frames is 5

	_, err := decodeOneSample(t, spec)
	var ise *InconsistentSampleError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want *InconsistentSampleError", err)
	}
	if !errors.Is(err, ErrInconsistentSample) {
		t.Errorf("errors.Is(err, ErrInconsistentSample) = false")
	}
	if ise.SampleIndex != 0 {
		t.Errorf("SampleIndex = %d, want 0", ise.SampleIndex)
	}
}

func TestDecodeSampleTruncatedPayload(t *testing.T) {
	spec := clone.Clone(baseMonoSample())
	spec.frames = 100 // declares far more frames than the payload actually holds

	_, err := decodeOneSample(t, spec)
	if err != ErrTruncated {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestDecodePayloadOggFailureWrapsSentinel(t *testing.T) {
	_, err := decodePayload([]byte("not an ogg stream"), true, false, 2, 10)
	if !errors.Is(err, ErrOggDecodeFailed) {
		t.Fatalf("err = %v, want wrapped ErrOggDecodeFailed", err)
	}
}

func TestSampleReadAppliesPanAndEnvelope(t *testing.T) {
	s := Sample{
		Channels:        1,
		Frames:          []float32{1, 1, 1},
		FrameCount:      3,
		Pan:             -1, // attenuates right fully
		EnvelopeEnabled: true,
		Predelay:        0,
		Attack:          0,
		Hold:            2,
		Decay:           2,
		Sustain:         0.5,
	}

	l, r := s.read(0)
	if l != 1 {
		t.Errorf("left = %v, want 1 (unattenuated)", l)
	}
	if r != 0 {
		t.Errorf("right = %v, want 0 (fully attenuated by pan=-1)", r)
	}

	// envelopeTimer advanced to 1 by the previous read, still inside [Hold)
	l2, _ := s.read(1)
	if l2 != 1 {
		t.Errorf("left at t=1 = %v, want 1 (still in hold plateau)", l2)
	}

	// t=2 is the Decay boundary itself, past the decay ramp, so mult = Sustain = 0.5
	l3, _ := s.read(2)
	if abs32(l3-0.5) > 1e-5 {
		t.Errorf("left at decay boundary = %v, want 0.5", l3)
	}
}

func TestPanFrameLaw(t *testing.T) {
	l, r := panFrame(1, 1, 0)
	if l != 1 || r != 1 {
		t.Errorf("pan=0: (%v,%v), want (1,1)", l, r)
	}

	l, r = panFrame(1, 1, 1)
	if l != 0 || r != 1 {
		t.Errorf("pan=1: (%v,%v), want (0,1)", l, r)
	}

	l, r = panFrame(1, 1, -1)
	if l != 1 || r != 0 {
		t.Errorf("pan=-1: (%v,%v), want (1,0)", l, r)
	}

	l, r = panFrame(1, 1, 0.5)
	if l != 0.5 || r != 1 {
		t.Errorf("pan=0.5: (%v,%v), want (0.5,1)", l, r)
	}
}

func TestClip(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{0.5, 0.5}, {1.5, 1}, {-1.5, -1}, {-0.2, -0.2},
	}
	for _, c := range cases {
		if got := clip(c.in); got != c.want {
			t.Errorf("clip(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
