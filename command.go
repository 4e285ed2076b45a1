package hm

// Command IDs dispatched by the low nibble of a cell's command byte
// (spec.md §4.7). The high nibble, when nonzero, requests a ramp over
// (high_nibble+1) ticks instead of an immediate change.
const (
	cmdVolume       = 1
	cmdPan          = 2
	cmdCoarseDetune = 3
	cmdFineDetune   = 4
	cmdPredelay     = 5
	cmdTrillCoarse  = 6
	cmdTrillFine    = 7
)

// processCommand dispatches one command byte + parameter against a channel
// (spec.md §4.7). tickLength is the Context's current output-frames-per-tick
// value, used to size ramp durations; trill half-periods are derived from
// rate instead.
func processCommand(ch *channel, rate uint32, tickLength uint32, id, param byte) {
	hi := id >> 4
	lo := id & 0xF

	switch lo {
	case cmdVolume:
		if hi > 0 {
			initRamp(&ch.ramps[0], uint32(hi+1)*tickLength, int32(ch.volume*255.0), int32(param))
		} else {
			ch.volume = float32(param) / 255.0
			ch.ramps[0].enabled = false
		}

	case cmdPan:
		if hi > 0 {
			initRamp(&ch.ramps[1], uint32(hi+1)*tickLength, int32(ch.pan*127.0), int32(param)-127)
		} else {
			ch.pan = float32(int32(param)-127) / 127.0
			ch.ramps[1].enabled = false
		}

	case cmdCoarseDetune:
		if hi > 0 {
			initRamp(&ch.ramps[2], uint32(hi+1)*tickLength, ch.coarseDetune, int32(param)-127)
		} else {
			ch.coarseDetune = int32(param) - 127
			ch.ramps[2].enabled = false
		}

	case cmdFineDetune:
		if hi > 0 {
			initRamp(&ch.ramps[3], uint32(hi+1)*tickLength, ch.fineDetune, int32(param)-127)
		} else {
			ch.fineDetune = int32(param) - 127
			ch.ramps[3].enabled = false
		}

	case cmdPredelay:
		// The scheduler (§4.4 step 3) is responsible for converting this raw
		// millisecond value into output frames via rate/1000; it does so
		// immediately after dispatch, not here.
		ch.predelay = int(param)

	case cmdTrillCoarse:
		t := &ch.trills[0]
		t.enabled = hi&1 != 0
		t.depth = int32(param & 0xF)
		t.frameLen = (rate / 100) * uint32(param>>4)
		t.framePos = t.frameLen

	case cmdTrillFine:
		t := &ch.trills[1]
		t.enabled = hi != 0
		// Faithfully preserves the reference implementation's C operator
		// precedence bug: `param & 15 + 10` parses as `param & (15+10)`,
		// i.e. `param & 25`, not `(param & 15) + 10` (spec.md §4.7, §9).
		t.depth = int32(param & 25)
		t.frameLen = (rate / 100) * uint32(param>>4)
		t.framePos = t.frameLen
	}

	ch.commandID = id
	ch.commandParam = param
}

func initRamp(r *ramp, duration uint32, start, end int32) {
	r.enabled = true
	r.pos = 0
	r.duration = duration
	r.start = start
	r.end = end
}
