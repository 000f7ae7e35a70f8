package ui

import (
	"fmt"
	"strings"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner is a lightweight stdout spinner for plain (non-TUI) commands that
// wait on the network: ABI fetches, calls, transaction confirmation.
type Spinner struct {
	msg  string
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(msg string) *Spinner {
	return &Spinner{
		msg:  msg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	frame := 0
	render := func() {
		fmt.Printf("\r%s  %s", StyleChain.Render(spinnerFrames[frame%len(spinnerFrames)]), s.msg)
		frame++
	}
	render()
	for {
		select {
		case <-s.stop:
			// Overwrite the spinner line before handing stdout back.
			fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.msg)+4))
			return
		case <-tick.C:
			render()
		}
	}
}

// Stop halts the spinner and waits for the line to be cleared.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}

// StopWithMsg halts the spinner and prints a final message in its place.
func (s *Spinner) StopWithMsg(msg string) {
	s.Stop()
	fmt.Println(msg)
}
