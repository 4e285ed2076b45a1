// hmwav renders an HM module to a 16-bit stereo PCM WAV file, grounded in
// the teacher's cmd/modwav.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RGDTAB/HackyModule"
	"github.com/RGDTAB/HackyModule/internal/wavwriter"
)

const renderChunkFrames = 2048

var (
	flagHz    = flag.Int("hz", 44100, "output sample rate in Hz")
	flagOut   = flag.String("wav", "", "output WAV file (required)")
	flagLoops = flag.Int("loops", 1, "number of times to render the module's full tick length; 0 renders until interrupted")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hmwav: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("missing module filename")
	}
	if *flagOut == "" {
		log.Fatal("missing -wav output filename")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	ctx, err := hm.Create(data, uint32(*flagHz))
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Destroy()

	wavF, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(err)
	}
	defer wavF.Close()

	w, err := wavwriter.NewWriter(wavF, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	interrupted := false
	go func() {
		<-sigch
		interrupted = true
	}()

	out := make([]float32, renderChunkFrames*2)
	left := make([]float32, renderChunkFrames)
	right := make([]float32, renderChunkFrames)

	totalTicks := int64(0)
	targetTicks := int64(*flagLoops) * int64(ctx.Length)

	for !interrupted {
		if *flagLoops > 0 && totalTicks >= targetTicks {
			break
		}

		startTick := ctx.TickPosition()
		n := ctx.Render(out)
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			left[i] = out[i*2]
			right[i] = out[i*2+1]
		}
		if err := w.WriteFrames(left[:n], right[:n]); err != nil {
			log.Fatal(err)
		}

		if ctx.TickPosition() != startTick {
			totalTicks += ctx.TickPosition() - startTick
			if ctx.TickPosition() < startTick { // looped back to loopPosition
				totalTicks += int64(ctx.Length) - int64(ctx.LoopPosition)
			}
		}
	}

	if _, err := w.Finish(); err != nil {
		log.Fatal(err)
	}
}
