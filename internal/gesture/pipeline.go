package gesture

import (
	"sync"
	"time"

	"github.com/ayusman/bubbletype/internal/detector"
)

// ResetReason says why the session lost stroke continuity.
type ResetReason string

// Reset reasons reported in Output and to the reset hook.
const (
	ResetNone         ResetReason = ""
	ResetTrackingLost ResetReason = "tracking_lost"
	ResetTargetSwitch ResetReason = "target_switch"
	ResetRedraw       ResetReason = "redraw"
	ResetClear        ResetReason = "clear"
)

// Input is everything one Advance call needs besides the session.
type Input struct {
	Hands     []detector.HandLandmarks
	Now       time.Time
	Style     Style
	Mode      Mode
	StrokeLen int
	// Phase generates dot animation phases. Nil uses a uniform random phase.
	Phase func() float64
}

// Output is the result of one Advance call.
type Output struct {
	// Dots to append to the current stroke, in order.
	Dots []Dot
	// Clear asks the target to drop its current stroke.
	Clear bool
	// Reset is set when the session lost continuity this frame.
	Reset ResetReason
	// Drawing is the draw intent after this frame.
	Drawing bool
	// Started and Stopped mark intent transitions within this frame.
	Started bool
	Stopped bool
	// Hand is the chosen hand index, or -1.
	Hand int
	// AppearRestart asks the target to restart its appear animation.
	AppearRestart bool
}

// Advance runs one frame of hand landmarks through the pipeline. It never
// fails: every degraded input resolves to "not drawing".
func Advance(cfg Config, s *Session, m Mapper, in Input) Output {
	out := Output{Hand: noHand}

	if len(in.Hands) == 0 {
		if s.active {
			out.Reset = ResetTrackingLost
		}
		s.Reset()
		return out
	}
	s.active = true

	s.decayAnchor()
	idx := s.pickHand(cfg, in.Hands)
	s.trackPick(cfg, idx, in.Hands)
	out.Hand = idx

	if idx == noHand {
		out.Stopped = s.stop(cfg)
	} else {
		out.Started, out.Stopped, out.Dots = s.drawStep(cfg, m, &in, idx)
		s.settleLock(idx)
	}

	if out.Stopped && in.Mode == ModeAppear {
		out.AppearRestart = true
	}

	if s.checkClear(cfg, in.Hands, idx) {
		out.Stopped = out.Stopped || s.drawing
		s.ResetForTarget(cfg)
		out.Dots = nil
		out.Clear = true
		out.Reset = ResetClear
		out.AppearRestart = true
	}

	out.Drawing = s.drawing
	return out
}

// drawStep runs pinch, motion and rasterization for the chosen hand.
func (s *Session) drawStep(cfg Config, m Mapper, in *Input, idx int) (started, stopped bool, dots []Dot) {
	h := &in.Hands[idx]

	it := s.updatePinch(cfg, h)
	if !it.proceed {
		return false, it.stopped, nil
	}

	pos, r := s.updateBrush(cfg, m, h)

	if in.Style.Invisible() {
		s.drawing = it.want
		return it.started, it.stopped, nil
	}

	if it.want {
		phase := in.Phase
		if phase == nil {
			phase = randomPhase
		}
		dots = s.rasterize(cfg, brush{
			pos:   pos,
			r:     r,
			now:   in.Now,
			style: in.Style,
			order: in.StrokeLen,
			phase: phase,
		})
	} else {
		s.hasLastDot = false
		s.pendingSeed = false
	}

	s.drawing = it.want
	return it.started, it.stopped, dots
}

// Target is the drawing target the pipeline feeds: one letter's stroke plus
// its style and animation mode.
type Target interface {
	Style() Style
	Mode() Mode
	Len() int
	Append(dots ...Dot)
	Clear()
	RestartAppear()
}

// Pipeline binds a Session to a Mapper and a Target. Advance and Reset may be
// called from different goroutines.
type Pipeline struct {
	mu      sync.Mutex
	cfg     Config
	session *Session
	mapper  Mapper
	target  Target
	onReset func(ResetReason)
	phase   func() float64
}

// NewPipeline creates a pipeline with a fresh session.
func NewPipeline(cfg Config, mapper Mapper, target Target) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		session: NewSession(),
		mapper:  mapper,
		target:  target,
	}
}

// OnReset registers a hook called whenever the session loses continuity.
func (p *Pipeline) OnReset(fn func(ResetReason)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onReset = fn
}

// SetPhaseSource replaces the random phase generator.
func (p *Pipeline) SetPhaseSource(fn func() float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = fn
}

// Advance feeds one frame through the session and applies the output to the
// target.
func (p *Pipeline) Advance(f detector.Frame, now time.Time) Output {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := Advance(p.cfg, p.session, p.mapper, Input{
		Hands:     f.Hands,
		Now:       now,
		Style:     p.target.Style(),
		Mode:      p.target.Mode(),
		StrokeLen: p.target.Len(),
		Phase:     p.phase,
	})

	if out.Clear {
		p.target.Clear()
	}
	if len(out.Dots) > 0 {
		p.target.Append(out.Dots...)
	}
	if out.AppearRestart {
		p.target.RestartAppear()
	}
	if out.Reset != ResetNone && p.onReset != nil {
		p.onReset(out.Reset)
	}
	return out
}

// Reset drops stroke continuity after the target changed underneath the
// session, such as a letter switch or a redraw.
func (p *Pipeline) Reset(reason ResetReason) {
	_ = p.Retarget(reason, nil)
}

// Retarget runs change against the target and resets the session in one
// step, so no Advance sees the new target with the old stroke geometry.
// When change fails the session is left as it was.
func (p *Pipeline) Retarget(reason ResetReason, change func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if change != nil {
		if err := change(); err != nil {
			return err
		}
	}
	p.session.ResetForTarget(p.cfg)
	if p.onReset != nil {
		p.onReset(reason)
	}
	return nil
}

// Drawing reports the current draw intent.
func (p *Pipeline) Drawing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Drawing()
}
