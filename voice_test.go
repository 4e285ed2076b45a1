package hm

import "testing"

func fourFrameSample(loop bool, loopStart int) Sample {
	return Sample{
		Channels:   1,
		Frames:     []float32{0, 0.25, 0.5, 0.75},
		FrameCount: 4,
		Loop:       loop,
		LoopStart:  loopStart,
	}
}

func TestFetchPairNormalMidSample(t *testing.T) {
	s := fourFrameSample(false, 0)
	ch := &channel{sampleFrame: 0}
	l1, _, l2, _, ok := fetchPair(&s, ch)
	if !ok {
		t.Fatalf("ok = false for a mid-sample fetch")
	}
	if l1 != 0 || l2 != 0.25 {
		t.Errorf("(l1,l2) = (%v,%v), want (0, 0.25)", l1, l2)
	}
}

func TestFetchPairLastFrameNoLoopFadesToSilence(t *testing.T) {
	s := fourFrameSample(false, 0)
	ch := &channel{sampleFrame: 3} // last valid index
	l1, _, l2, _, ok := fetchPair(&s, ch)
	if !ok {
		t.Fatalf("ok = false at the last frame")
	}
	if l1 != 0.75 {
		t.Errorf("l1 = %v, want 0.75", l1)
	}
	if l2 != 0 {
		t.Errorf("l2 = %v, want 0 (no loop, interpolates toward silence)", l2)
	}
}

func TestFetchPairLastFrameWithLoopWrapsSecondSample(t *testing.T) {
	s := fourFrameSample(true, 1)
	ch := &channel{sampleFrame: 3}
	_, _, l2, _, ok := fetchPair(&s, ch)
	if !ok {
		t.Fatalf("ok = false at the last frame with loop enabled")
	}
	if l2 != 0.25 {
		t.Errorf("l2 = %v, want 0.25 (Frames[LoopStart])", l2)
	}
}

func TestFetchPairPastEndWithLoopWraps(t *testing.T) {
	s := fourFrameSample(true, 1)
	ch := &channel{sampleFrame: 4} // == FrameCount, past-end branch
	l1, _, _, _, ok := fetchPair(&s, ch)
	if !ok {
		t.Fatalf("ok = false past the end with loop enabled")
	}
	wantFrame := int64(1) // 4 % 4 + loopStart(1)
	if ch.sampleFrame != wantFrame {
		t.Errorf("sampleFrame after wrap = %d, want %d", ch.sampleFrame, wantFrame)
	}
	if l1 != 0.25 {
		t.Errorf("l1 = %v, want 0.25", l1)
	}
}

func TestFetchPairPastEndNoLoopDies(t *testing.T) {
	s := fourFrameSample(false, 0)
	ch := &channel{sampleFrame: 4}
	_, _, _, _, ok := fetchPair(&s, ch)
	if ok {
		t.Errorf("ok = true, want false (voice must die past the end of a non-looping sample)")
	}
}

func TestGenerateChannelSkippedWhenUnbound(t *testing.T) {
	ctx := &Context{Rate: 44100, samples: []Sample{fourFrameSample(false, 0)}}
	ch := &channel{sampleFrame: -1}
	var l, r float32
	ctx.generateChannel(ch, &l, &r)
	if l != 0 || r != 0 {
		t.Errorf("an unbound channel contributed (%v,%v), want silence", l, r)
	}
}

func TestGenerateChannelHeldDuringPredelay(t *testing.T) {
	ctx := &Context{Rate: 44100, samples: []Sample{fourFrameSample(false, 0)}}
	ch := &channel{sampleFrame: 0, predelay: 2, volume: 1, sampleIdx: 0}
	var l, r float32
	ctx.generateChannel(ch, &l, &r)
	if ch.predelay != 1 {
		t.Errorf("predelay = %d, want 1 (decremented by one frame)", ch.predelay)
	}
	if l != 0 || r != 0 {
		t.Errorf("channel produced output during its predelay window")
	}
}

func TestGenerateChannelKeyOffFadesToSilence(t *testing.T) {
	s := Sample{Channels: 1, Frames: []float32{1, 1, 1, 1}, FrameCount: 4, RelativeNote: 0}
	ctx := &Context{Rate: 44100, samples: []Sample{s}}
	ch := &channel{sampleFrame: 0, volume: 1, sampleIdx: 0, keyOff: true}
	c := ctx.samples[0]
	c.Fadeout = 1
	ctx.samples[0] = c

	var l1, r1 float32
	ctx.generateChannel(ch, &l1, &r1)
	if ch.fadeoutTimer != 1 {
		t.Fatalf("fadeoutTimer = %d, want 1", ch.fadeoutTimer)
	}

	var l2, r2 float32
	ctx.generateChannel(ch, &l2, &r2)
	if ch.sampleFrame != -1 {
		t.Errorf("sampleFrame = %d, want -1 (voice should die once fadeoutTimer exceeds Fadeout)", ch.sampleFrame)
	}
}
