// hmplay is a realtime HM module player. It opens a portaudio output
// stream, renders the module through hm.Context.Render, and draws a live,
// colorized transport readout refreshed in place with ANSI cursor
// movement — grounded in the teacher's cmd/modplay.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gordonklaus/portaudio"

	"github.com/RGDTAB/HackyModule"
	"github.com/RGDTAB/HackyModule/cmd/internal/config"
)

var (
	flagHz     = flag.Int("hz", 44100, "output sample rate in Hz")
	flagReverb = flag.String("reverb", "none", "output reverb send: none, light, medium, hall")
	flagNoUI   = flag.Bool("no-ui", false, "disable the live transport display")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hmplay: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("missing module filename")
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

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer portaudio.Terminate()

	player := newPlayer(ctx, reverb, *flagNoUI)
	if err := player.Run(); err != nil {
		log.Fatal(err)
	}
}
