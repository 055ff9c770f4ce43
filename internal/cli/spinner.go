package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aeonclok/keycapgen/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows how many variants of a run have been processed.
//
// It implements [observability.Hooks]: every copy event, created or skipped,
// advances the counter. Events from other stages only touch the current
// variant label.
type Spinner struct {
	w      io.Writer
	total  int
	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopped  chan struct{}

	mu      sync.Mutex
	done    int
	current string
	width   int // widest line written, for clearing
}

// newSpinner creates a spinner on w for a run of total variants. It stops
// drawing when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, total int) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		total:   total,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// OnEvent advances the spinner from a generation event.
func (s *Spinner) OnEvent(_ context.Context, e observability.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = e.Descriptor.String()
	if e.Stage == observability.StageCopy &&
		(e.Outcome == observability.OutcomeOK || e.Outcome == observability.OutcomeSkipped) {
		s.done++
	}
}

// Processed returns how many variants have produced a copy or been skipped.
func (s *Spinner) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// message renders the current status line. Callers hold s.mu.
func (s *Spinner) message() string {
	msg := fmt.Sprintf("Generating %d/%d variants...", s.done, s.total)
	if s.current != "" && s.done < s.total {
		msg += " " + s.current
	}
	return msg
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message())
	s.width = max(s.width, len(s.message())+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop stops the spinner and clears the line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

// StopWithError stops the spinner and shows an error message naming how far
// the run got.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError(s.w, "%s after %d of %d variants", message, s.Processed(), s.total)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
