package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	"github.com/RGDTAB/HackyModule"
	"github.com/RGDTAB/HackyModule/internal/comb"
)

var (
	white  = color.New(color.FgWhite).SprintfFunc()
	cyan   = color.New(color.FgCyan).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
	blue   = color.New(color.FgHiBlue).SprintFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

const (
	scratchFrames = 2048
	uiLineCount   = 2
)

// player drives realtime playback of an hm.Context through portaudio and
// renders a live transport readout, grounded in the teacher's AudioPlayer.
type player struct {
	ctx    *hm.Context
	reverb comb.Reverber
	stream *portaudio.Stream

	scratch []float32 // render scratch, interleaved stereo

	uiWriter        *os.File
	selectedChannel int
	soloChannel     int
	paused          bool
	lastTick        int64

	lifecycle context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once
	keyboardDone chan struct{}
}

func newPlayer(ctx *hm.Context, reverb comb.Reverber, noUI bool) *player {
	var w *os.File
	if !noUI {
		w = os.Stdout
	}

	lifecycle, cancel := context.WithCancel(context.Background())
	return &player{
		ctx:          ctx,
		reverb:       reverb,
		scratch:      make([]float32, scratchFrames*2),
		uiWriter:     w,
		soloChannel:  -1,
		lifecycle:    lifecycle,
		cancel:       cancel,
		keyboardDone: make(chan struct{}),
	}
}

func (p *player) Run() error {
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(p.ctx.Rate), scratchFrames, p.streamCallback)
	if err != nil {
		return err
	}
	p.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	p.setupSignalHandler()
	p.setupKeyboard()

	if p.uiWriter != nil {
		fmt.Fprint(p.uiWriter, hideCursor)
		fmt.Fprintln(p.uiWriter, p.ctx.Name)
	}

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-p.lifecycle.Done():
			break loop
		case <-ticker.C:
			p.renderUI()
		}
	}

	if p.uiWriter != nil {
		fmt.Fprint(p.uiWriter, showCursor)
	}

	select {
	case <-p.keyboardDone:
	case <-time.After(500 * time.Millisecond):
	}
	p.wg.Wait()

	return nil
}

// streamCallback is portaudio's real-time callback: it renders directly
// from hm.Context (allocation-free per spec.md §4.9) and routes the result
// through the optional reverb send before handing it to the device.
func (p *player) streamCallback(out []float32) {
	if p.paused {
		clear(out)
		return
	}

	n := p.ctx.Render(p.scratch[:len(out)])
	p.reverb.InputSamples(p.scratch[:n*2])
	got := p.reverb.GetAudio(out)
	if got < len(out) {
		clear(out[got:])
	}
}

func (p *player) setupSignalHandler() {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case <-p.lifecycle.Done():
		case <-sigch:
			p.Stop()
		}
	}()
}

func (p *player) setupKeyboard() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				p.Stop()
				return true, nil
			}
			p.handleKey(key)
			return false, nil
		})
		close(p.keyboardDone)
	}()
}

func (p *player) handleKey(key keys.Key) {
	n := int(p.ctx.NumChannels)
	switch key.Code {
	case keys.Left:
		if p.selectedChannel > 0 {
			p.selectedChannel--
		}
	case keys.Right:
		if p.selectedChannel < n-1 {
			p.selectedChannel++
		}
	case keys.Space:
		p.paused = !p.paused
	case keys.RuneKey:
		if len(key.Runes) == 0 {
			break
		}
		switch key.Runes[0] {
		case 'q':
			p.Stop()
		case 'm':
			p.ctx.Mute ^= 1 << uint(p.selectedChannel)
		case 's':
			if p.soloChannel == p.selectedChannel {
				p.soloChannel = -1
				p.ctx.Mute = 0
			} else {
				p.soloChannel = p.selectedChannel
				p.ctx.Mute = ^uint32(0) &^ (1 << uint(p.selectedChannel))
			}
		}
	}
}

func (p *player) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		if p.stream != nil {
			p.stream.Stop()
			p.stream.Close()
		}
	})
}

func (p *player) renderUI() {
	if p.uiWriter == nil {
		return
	}

	tick := p.ctx.TickPosition()
	if tick == p.lastTick {
		return
	}
	p.lastTick = tick

	status := "playing"
	if p.paused {
		status = "paused"
	}
	fmt.Fprintf(p.uiWriter, "%s %s  %s %05d/%05d  %s %3d\n",
		blue("tick"), cyan("%s", status), blue("pos"), tick, p.ctx.Length, blue("bpm"), p.ctx.BPM)

	for i := 0; i < int(p.ctx.NumChannels); i++ {
		marker := " "
		if i == p.selectedChannel {
			marker = green(">")
		}
		muted := p.ctx.Mute&(1<<uint(i)) != 0
		state := "--"
		if si := p.ctx.ChannelActiveSample(i); si >= 0 {
			state = fmt.Sprintf("%02d", si)
		}
		mutedStr := " "
		if muted {
			mutedStr = yellow("M")
		}
		fmt.Fprintf(p.uiWriter, "%s%2d:%s%s ", marker, i+1, state, mutedStr)
	}
	fmt.Fprintln(p.uiWriter)

	fmt.Fprintf(p.uiWriter, escape+"%dF", uiLineCount)
}
