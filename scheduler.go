package hm

// loadTick advances the tick index, loops at module end, reads the new
// tick's cells and dispatches note/command data per channel, and resets
// samplesLeftInTick (spec.md §4.4). It is called from Mixdown whenever the
// current tick has run out of frames.
func (c *Context) loadTick() {
	c.tickPosition++
	if c.tickPosition >= int64(c.Length) {
		c.tickPosition = int64(c.LoopPosition)
		for i := range c.channels {
			for j := range c.channels[i].ramps {
				c.channels[i].ramps[j].enabled = false
			}
		}
	}

	base := 4 * int(c.NumChannels) * int(c.tickPosition)

	for i := 0; i < int(c.NumChannels); i++ {
		ch := &c.channels[i]
		cellOff := base + i*4

		noteByte := c.pattern[cellOff]
		instrumentByte := c.pattern[cellOff+1]
		commandByte := c.pattern[cellOff+2]
		paramByte := c.pattern[cellOff+3]

		if noteByte&0x80 != 0 {
			requested := int(noteByte & 0x7F)
			if requested != 0 {
				c.selectSample(ch, int(instrumentByte), requested-1)
				ch.resetForNoteOn(requested - 1)
			} else {
				ch.keyOff = true
			}
		}

		if commandByte != 0 {
			processCommand(ch, c.Rate, c.tickLength, commandByte, paramByte)

			// Only a predelay command's raw millisecond value is rescaled to
			// output frames; a predelay still counting down is left alone
			// when any other command fires.
			if commandByte&0xF == cmdPredelay {
				ch.predelay = int(float64(ch.predelay) * float64(c.Rate) / 1000.0)
			}
		}
	}

	c.samplesLeftInTick = c.tickLength
}

// selectSample performs the linear scan of spec.md §4.5: the first sample
// whose InstrumentID matches instrument and whose key range contains note
// is bound to the channel, and that sample's envelope timer is reset. If no
// sample matches, the channel's previously bound sample index is left
// unchanged (a deliberately preserved quirk, see DESIGN.md and spec.md §9).
func (c *Context) selectSample(ch *channel, instrument, note int) {
	for i := range c.samples {
		s := &c.samples[i]
		if s.InstrumentID == instrument && note >= s.KeyRangeStart && note <= s.KeyRangeEnd {
			ch.sampleIdx = i
			break
		}
	}

	if ch.sampleIdx >= 0 && ch.sampleIdx < len(c.samples) {
		c.samples[ch.sampleIdx].envelopeTimer = 0
	}
}
