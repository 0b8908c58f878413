package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

const maxLineSize = 64 * 1024

type inputLine struct {
	Gamepad *domain.GamepadState `json:"gamepad"`
	Mouse   *domain.MouseState   `json:"mouse"`
}

// Sampler implements ports.Sampler over a stream of JSON lines.
//
// Lines are consumed in the background as they arrive. Each Sample returns
// the latest gamepad snapshot and the mouse displacement accumulated since
// the previous Sample, saturating at the int8 range. Once the stream ends
// and everything read has been sampled, Sample returns an error wrapping
// io.EOF.
type Sampler struct {
	r      io.Reader
	logger ports.Logger
	start  sync.Once

	mu      sync.Mutex
	gamepad domain.GamepadState
	mouse   domain.MouseState
	pending bool
	err     error
}

var _ ports.Sampler = (*Sampler)(nil)

// NewSampler creates a sampler reading from r. Reading starts on the first
// Sample call.
func NewSampler(r io.Reader, logger ports.Logger) *Sampler {
	return &Sampler{r: r, logger: logger}
}

// Sample returns the current state and resets the accumulated deltas.
func (s *Sampler) Sample(ctx context.Context) (domain.GamepadState, domain.MouseState, error) {
	s.start.Do(func() { go s.read() })

	if err := ctx.Err(); err != nil {
		return domain.GamepadState{}, domain.MouseState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil && !s.pending {
		return domain.GamepadState{}, domain.MouseState{}, s.err
	}

	gp, m := s.gamepad, s.mouse
	s.mouse = domain.MouseState{Buttons: m.Buttons}
	s.pending = false
	return gp, m, nil
}

func (s *Sampler) read() {
	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}

		var in inputLine
		if err := json.Unmarshal(b, &in); err != nil {
			s.logger.Warn("skipping malformed input line", ports.Int("line", line), ports.Err(err))
			continue
		}
		s.apply(in)
	}

	err := io.EOF
	if scanErr := sc.Err(); scanErr != nil {
		s.logger.Error("input stream failed", ports.Err(scanErr))
		err = fmt.Errorf("%w: %w", io.EOF, scanErr)
	}

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Sampler) apply(in inputLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Gamepad != nil {
		s.gamepad = *in.Gamepad
	}
	if in.Mouse != nil {
		s.mouse.X = domain.SaturatingAdd(s.mouse.X, in.Mouse.X)
		s.mouse.Y = domain.SaturatingAdd(s.mouse.Y, in.Mouse.Y)
		s.mouse.Scroll = domain.SaturatingAdd(s.mouse.Scroll, in.Mouse.Scroll)
		s.mouse.Buttons = in.Mouse.Buttons
	}
	s.pending = true
}
