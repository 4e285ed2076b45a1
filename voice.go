package hm

// frequencyMultiplier is the per-semitone ratio step used by the
// repeated-multiply pitch model, ~= 2^(1/12) - 1 (spec.md §6).
const frequencyMultiplier = 0.05946

// generateChannel produces one stereo sample for a channel and adds it into
// the mix accumulators (spec.md §4.6). It adds nothing when the channel has
// no bound voice (sampleFrame < 0) or is still in its predelay window.
func (c *Context) generateChannel(ch *channel, left, right *float32) {
	if ch.sampleFrame < 0 {
		return
	}
	if ch.predelay > 0 {
		ch.predelay--
		return
	}

	ch.updateRamps()
	ch.updateTrills()

	sample := &c.samples[ch.sampleIdx]

	// Step 3: pitch. Distance in semitones between the sample's natural
	// pitch and the note currently being played, including coarse detune
	// and the coarse trill.
	coarseTrill := int32(0)
	if ch.trills[0].enabled {
		coarseTrill = ch.trills[0].result
	}
	dist := sample.RelativeNote - (ch.baseNote + int(ch.coarseDetune) + int(coarseTrill))

	step := 1.0
	if dist < 0 {
		for i := 0; i > dist; i-- {
			step *= 1 + frequencyMultiplier
		}
	} else if dist > 0 {
		for i := 0; i < dist; i++ {
			step *= 1 - frequencyMultiplier
		}
	}

	fineTrill := int32(0)
	if ch.trills[1].enabled {
		fineTrill = ch.trills[1].result
	}
	step *= 1 + (float64(ch.fineDetune)+float64(fineTrill))*(frequencyMultiplier/100.0)
	step *= float64(sample.SampleRate) / float64(c.Rate)

	step += ch.fracPos
	whole := int64(step)
	frac := float32(step - float64(whole))
	ch.sampleFrame += whole
	ch.fracPos = step - float64(whole)

	// Step 4: fetch & interpolate (spec.md §4.8 edge cases).
	l1, r1, l2, r2, ok := fetchPair(sample, ch)
	if !ok {
		ch.sampleFrame = -1
		return
	}

	l := l1 + frac*(l2-l1)
	r := r1 + frac*(r2-r1)

	// Step 7: channel pan.
	l, r = panFrame(l, r, ch.pan)

	// Step 8: channel volume.
	l *= ch.volume
	r *= ch.volume

	// Step 9: key-off fadeout.
	if ch.keyOff {
		ch.fadeoutTimer++
		if ch.fadeoutTimer > sample.Fadeout {
			ch.sampleFrame = -1
		} else {
			w := float32(ch.fadeoutTimer) / float32(sample.Fadeout)
			l += w * (0 - l)
			r += w * (0 - r)
		}
	}

	// Step 10: clip and add into the mix.
	*left += clip(l)
	*right += clip(r)
}

// fetchPair reads the two frames needed for linear interpolation at the
// channel's current integer sample position, handling the loop/end-of-data
// edge cases of spec.md §4.8. ok is false when the voice has run off the
// end of a non-looping sample and must die.
func fetchPair(sample *Sample, ch *channel) (l1, r1, l2, r2 float32, ok bool) {
	n := ch.sampleFrame
	frameCount := int64(sample.FrameCount)

	switch {
	case n+1 < frameCount:
		l1, r1 = sample.read(int(n))
		l2, r2 = sample.read(int(n + 1))
	case n < frameCount:
		l1, r1 = sample.read(int(n))
		if sample.Loop {
			l2, r2 = sample.read(sample.LoopStart)
		}
	default: // n >= frameCount
		if !sample.Loop {
			return 0, 0, 0, 0, false
		}
		n = n%frameCount + int64(sample.LoopStart)
		ch.sampleFrame = n
		l1, r1 = sample.read(int(n))
		l2, r2 = sample.read(int(n + 1))
	}

	return l1, r1, l2, r2, true
}
