package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const defaultSpinnerInterval = 120 * time.Millisecond

type startupStage int

const (
	stageLoading startupStage = iota
	stageBuilding
	stageReady
)

var stageMessages = map[startupStage]string{
	stageLoading:  "Reading sources...",
	stageBuilding: "Flattening the tree...",
	stageReady:    "Ready",
}

// startupReporter receives progress while sources load.
type startupReporter interface {
	Stage(stage startupStage, detail string)
	Stop()
}

type noopReporter struct{}

func (noopReporter) Stage(startupStage, string) {}
func (noopReporter) Stop()                      {}

type spinnerEvent struct {
	stage  startupStage
	detail string
}

// startupSpinner draws a one-line spinner on w. Nothing is drawn until delay
// has passed, so fast loads never flash.
type startupSpinner struct {
	writer        io.Writer
	delay         time.Duration
	frameInterval time.Duration
	frames        []rune

	events chan spinnerEvent
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	mu       sync.Mutex
	frameIdx int
}

func newStartupSpinner(w io.Writer, delay time.Duration) *startupSpinner {
	return newCustomStartupSpinner(w, delay, defaultSpinnerInterval)
}

func newCustomStartupSpinner(w io.Writer, delay, frameInterval time.Duration) *startupSpinner {
	if w == nil {
		w = io.Discard
	}
	sp := &startupSpinner{
		writer:        w,
		delay:         delay,
		frameInterval: frameInterval,
		frames:        []rune{'|', '/', '-', '\\'},
		events:        make(chan spinnerEvent, 8),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go sp.loop()
	return sp
}

func (s *startupSpinner) Stage(stage startupStage, detail string) {
	if s == nil {
		return
	}
	select {
	case <-s.stopCh:
		return
	default:
	}
	select {
	case s.events <- spinnerEvent{stage: stage, detail: detail}:
	default:
	}
}

// Stop clears the line and waits for the drawing goroutine. Safe to call
// more than once.
func (s *startupSpinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *startupSpinner) loop() {
	defer close(s.doneCh)

	var delayCh <-chan time.Time
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		delayCh = timer.C
	}

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	var current spinnerEvent
	hasStage := false
	visible := s.delay == 0

	for {
		select {
		case <-s.stopCh:
			if visible {
				s.clearLine()
			}
			return
		case ev := <-s.events:
			current = ev
			hasStage = true
			if visible {
				s.render(current)
			}
		case <-ticker.C:
			if visible && hasStage {
				s.render(current)
			}
		case <-delayCh:
			delayCh = nil
			visible = true
			if hasStage {
				s.render(current)
			}
		}
	}
}

func (s *startupSpinner) render(ev spinnerEvent) {
	_, _ = fmt.Fprintf(s.writer, "\r\033[2K%c %s", s.nextFrame(), formatStageMessage(ev.stage, ev.detail))
}

func (s *startupSpinner) clearLine() {
	_, _ = fmt.Fprint(s.writer, "\r\033[2K")
}

func (s *startupSpinner) nextFrame() rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := s.frames[s.frameIdx%len(s.frames)]
	s.frameIdx++
	return frame
}

func formatStageMessage(stage startupStage, detail string) string {
	msg, ok := stageMessages[stage]
	if !ok {
		msg = "Working..."
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s - %s", msg, detail)
}
