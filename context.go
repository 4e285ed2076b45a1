// Package hm implements the playback/synthesis core of the HackyModule (HM)
// tracker engine: a binary module decoder, tick scheduler, per-channel
// voice engine, and stereo mixer that together turn a module binary into an
// interleaved float32 stereo stream at a caller-chosen output rate.
//
// The render path (Render, Mixdown) is single-threaded, allocation-free,
// and pull-model: the caller asks for N frames and gets them synchronously.
// A Context is not safe to share across goroutines, and in particular not
// safe to use from two renderers concurrently, because each Sample carries
// a shared envelope timer that playback mutates (see the Sample doc
// comment and spec.md §5, §9).
package hm

// Context is the playback state for one loaded module (spec.md §3
// "Context"). It exclusively owns its pattern byte buffer, its sample
// store, and its channel array.
type Context struct {
	Name         string
	Rate         uint32
	Length       uint16 // module length in ticks
	LoopPosition uint16 // loop-return tick
	NumChannels  uint8
	BPM          uint8
	Subdivision  uint8

	tickLength uint32 // output frames per tick

	tickPosition      int64
	samplesLeftInTick uint32

	pattern []byte
	samples []Sample
	channels []channel

	// Mute is a bitmask of muted channels (bit i mutes channel i), consulted
	// by Mixdown. It has no effect on loadTick's bookkeeping — a muted
	// channel's ramps, trills and envelope still advance silently, so
	// unmuting it mid-note resumes in the right playback state. This is a
	// player-facing control, not part of the module format.
	Mute uint32

	destroyed bool
}

// Create parses a module binary and returns a ready-to-render Context
// (spec.md §6). data is not retained; the pattern bytes and sample frames
// are copied/decoded into Context-owned storage.
func Create(data []byte, rate uint32) (*Context, error) {
	return load(data, rate)
}

// Destroy releases the Context's owned memory. It is safe to call exactly
// once; calling it again, or calling Render/Mixdown afterwards, is a no-op
// rather than a crash, because the render path never fails (spec.md §5,
// §7).
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.pattern = nil
	c.samples = nil
	c.channels = nil
}

// Mixdown produces a single stereo output frame (spec.md §4.9, §6). It
// loads a new tick whenever the current one has been exhausted, then sums
// every channel's contribution and clips to [-1, +1].
func (c *Context) Mixdown() (left, right float32) {
	if c.destroyed {
		return 0, 0
	}

	if c.samplesLeftInTick == 0 {
		c.loadTick()
	}
	c.samplesLeftInTick--

	for i := range c.channels {
		var cl, cr float32
		c.generateChannel(&c.channels[i], &cl, &cr)
		if c.Mute&(1<<uint(i)) == 0 {
			left += cl
			right += cr
		}
	}

	return clip(left), clip(right)
}

// ChannelActiveSample reports the sample index currently bound to channel i,
// or -1 if the channel has no active voice. It exists for frontends like
// cmd/hmplay that want to display per-channel transport state without
// reaching into unexported fields.
func (c *Context) ChannelActiveSample(i int) int {
	if c.channels[i].sampleFrame < 0 {
		return -1
	}
	return c.channels[i].sampleIdx
}

// TickPosition reports the tick index most recently loaded by Mixdown.
func (c *Context) TickPosition() int64 {
	return c.tickPosition
}

// Samples returns the module's decoded sample table, for inspection tools
// like cmd/hmdump. The returned slice aliases Context-owned storage and
// must not be mutated.
func (c *Context) Samples() []Sample {
	return c.samples
}

// CellAt returns the raw note/instrument/command/param bytes for one
// pattern cell, for inspection tools like cmd/hmdump.
func (c *Context) CellAt(tick, channel int) (note, instrument, command, param byte) {
	off := 4*int(c.NumChannels)*tick + 4*channel
	return c.pattern[off], c.pattern[off+1], c.pattern[off+2], c.pattern[off+3]
}

// Render writes len(out)/2 interleaved stereo frames into out and returns
// the number of frames written (spec.md §6). out's length should be even;
// a trailing odd sample, if any, is left untouched.
func (c *Context) Render(out []float32) int {
	frames := len(out) / 2
	for i := 0; i < frames; i++ {
		l, r := c.Mixdown()
		out[i*2] = l
		out[i*2+1] = r
	}
	return frames
}
