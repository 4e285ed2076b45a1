// hmdump prints an HM module's header, sample table, and pattern grid to
// stdout for debugging malformed modules, grounded in the teacher's
// cmd/moddump.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/RGDTAB/HackyModule"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hmdump: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("missing module filename")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	ctx, err := hm.Create(data, 44100)
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Destroy()

	dumpHeader(ctx)
	dumpSamples(ctx)
	dumpPattern(ctx)
}

func dumpHeader(ctx *hm.Context) {
	fmt.Printf("name:         %q\n", ctx.Name)
	fmt.Printf("channels:     %d\n", ctx.NumChannels)
	fmt.Printf("bpm:          %d\n", ctx.BPM)
	fmt.Printf("subdivision:  %d\n", ctx.Subdivision)
	fmt.Printf("length:       %d ticks\n", ctx.Length)
	fmt.Printf("loop pos:     %d\n", ctx.LoopPosition)
	fmt.Println()
}

func dumpSamples(ctx *hm.Context) {
	fmt.Println("idx instrument keyrange loop       relnote envelope(pre/atk/hold/dec)")
	for i, s := range ctx.Samples() {
		loop := "no"
		if s.Loop {
			loop = fmt.Sprintf("@%d", s.LoopStart)
		}
		env := "off"
		if s.EnvelopeEnabled {
			env = fmt.Sprintf("%d/%d/%d/%d", s.Predelay, s.Attack, s.Hold, s.Decay)
		}
		fmt.Printf("%3d %10d [%3d,%3d] %-10s %7d %s\n",
			i, s.InstrumentID, s.KeyRangeStart, s.KeyRangeEnd, loop, s.RelativeNote, env)
	}
	fmt.Println()
}

func dumpPattern(ctx *hm.Context) {
	fmt.Printf("pattern: %d ticks x %d channels\n", ctx.Length, ctx.NumChannels)
	for tick := 0; tick < int(ctx.Length); tick++ {
		fmt.Printf("%4d: ", tick)
		for ch := 0; ch < int(ctx.NumChannels); ch++ {
			note, instrument, command, param := ctx.CellAt(tick, ch)
			fmt.Printf("%02X %02X %02X%02X | ", note, instrument, command, param)
		}
		fmt.Println()
	}
}
