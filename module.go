package hm

// ModuleNameLength is the maximum size, including the NUL terminator, of a
// module's ASCII name field (spec.md §6).
const ModuleNameLength = 32

// load parses a module binary into a Context (spec.md §4.2, §6 "Module
// binary format"). The header is consumed field by field with cursor, the
// same shape as the teacher's readMODSampleInfo/NewMODSongFromBytes reading
// from a *bytes.Reader, except HM's cursor also drives the sample records'
// embedded variable-length payloads.
func load(data []byte, rate uint32) (*Context, error) {
	c := &Context{Rate: rate, tickPosition: -1}

	cur := newCursor(data)

	// 14-byte magic/prefix, ignored on read.
	if _, err := cur.readBytes(14); err != nil {
		return nil, err
	}

	name, err := readNulTerminatedName(cur)
	if err != nil {
		return nil, err
	}
	c.Name = name

	numChannels, err := cur.readByte()
	if err != nil {
		return nil, err
	}
	if int(numChannels) > MaxChannels {
		return nil, ErrTooManyChannels
	}
	c.NumChannels = numChannels

	numSamples, err := cur.readByte()
	if err != nil {
		return nil, err
	}

	bpm, err := cur.readByte()
	if err != nil {
		return nil, err
	}
	c.BPM = bpm

	subdivision, err := cur.readByte()
	if err != nil {
		return nil, err
	}
	c.Subdivision = subdivision

	length, err := cur.readU16BE()
	if err != nil {
		return nil, err
	}
	c.Length = length

	loopPosition, err := cur.readU16BE()
	if err != nil {
		return nil, err
	}
	c.LoopPosition = loopPosition

	c.samples = make([]Sample, numSamples)
	for i := 0; i < int(numSamples); i++ {
		s, err := decodeSample(cur, rate, i)
		if err != nil {
			return nil, err
		}
		c.samples[i] = s
	}

	// The remainder of the buffer is the flat pattern byte array, copied
	// verbatim (spec.md §4.2 step 6). The Context owns this copy
	// exclusively.
	rest, err := cur.readBytes(cur.remaining())
	if err != nil {
		return nil, err
	}
	c.pattern = append([]byte(nil), rest...)

	c.tickLength = uint32((uint64(rate) * 60 / uint64(bpm)) / uint64(subdivision))

	c.channels = make([]channel, numChannels)
	for i := range c.channels {
		c.channels[i] = newChannel()
	}

	return c, nil
}

// readNulTerminatedName reads bytes starting at the cursor's current
// position up to the first 0x00 byte, consuming the name plus the
// terminator — matching hm_create_context's `while (info[i]) {...}; i++`.
// It does not enforce ModuleNameLength: a longer name is read in full, and
// a missing terminator yields ErrTruncated.
func readNulTerminatedName(cur *cursor) (string, error) {
	start := cur.pos
	for {
		b, err := cur.readByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
	}
	raw := cur.data[start : cur.pos-1]
	return string(raw), nil
}
