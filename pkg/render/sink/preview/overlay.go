package preview

import (
	"fmt"
	"sync"

	"github.com/matzehuels/vitae/pkg/resume"
)

// Tone is the color family of a badge or chip.
type Tone string

// Tones.
const (
	ToneEmerald Tone = "emerald"
	ToneAmber   Tone = "amber"
	ToneRed     Tone = "red"
)

// Score thresholds for the badge tone.
const (
	strongMatch = 80
	fairMatch   = 60
)

// ScoreTone maps a match score to its badge tone.
func ScoreTone(score int) Tone {
	switch {
	case score >= strongMatch:
		return ToneEmerald
	case score >= fairMatch:
		return ToneAmber
	default:
		return ToneRed
	}
}

// Badge is the match-score pill.
type Badge struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
	Tone  Tone   `json:"tone"`
}

// Chip is one keyword marker.
type Chip struct {
	Text  string `json:"text"`
	Found bool   `json:"found"`
	Tone  Tone   `json:"tone"`
}

// Overlay is the drawable form of a tailoring result.
type Overlay struct {
	Badge Badge  `json:"badge"`
	Chips []Chip `json:"chips,omitempty"`
}

// NewOverlay converts a tailoring result. It returns nil for nil input.
// Found keywords come first, then missing ones, each in original order.
func NewOverlay(t *resume.Tailoring) *Overlay {
	if t == nil {
		return nil
	}
	o := &Overlay{Badge: Badge{
		Score: t.MatchScore,
		Text:  fmt.Sprintf("Match %d%%", t.MatchScore),
		Tone:  ScoreTone(t.MatchScore),
	}}
	if k := t.Keywords; k != nil {
		for _, w := range k.Found {
			o.Chips = append(o.Chips, Chip{Text: w, Found: true, Tone: ToneEmerald})
		}
		for _, w := range k.Missing {
			o.Chips = append(o.Chips, Chip{Text: w, Tone: ToneRed})
		}
	}
	return o
}

// ====================================================================
// Session state
// ====================================================================

// State is the live preview state for one session: the latest resume
// snapshot and an optional tailoring overlay. It is safe for concurrent use.
type State struct {
	mu             sync.RWMutex
	resume         *resume.Resume
	tailoring      *resume.Tailoring
	clearOnMessage bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithClearOnMessage makes a non-tailoring message drop the overlay.
// It is off by default, so an overlay stays until cleared explicitly.
func WithClearOnMessage(on bool) StateOption {
	return func(s *State) { s.clearOnMessage = on }
}

// NewState returns an empty state.
func NewState(opts ...StateOption) *State {
	s := &State{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateResume replaces the resume snapshot. The overlay is kept.
func (s *State) UpdateResume(r *resume.Resume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = r
}

// UpdateTailoring replaces the overlay with a copy of t.
func (s *State) UpdateTailoring(t *resume.Tailoring) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.tailoring = nil
		return
	}
	cp := *t
	if t.Keywords != nil {
		kw := resume.Keywords{
			Found:   append([]string(nil), t.Keywords.Found...),
			Missing: append([]string(nil), t.Keywords.Missing...),
		}
		cp.Keywords = &kw
	}
	s.tailoring = &cp
}

// ClearTailoring removes the overlay.
func (s *State) ClearTailoring() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tailoring = nil
}

// OnMessage records a new conversational turn. A turn that is not itself
// a tailoring pass clears the overlay only when WithClearOnMessage is set.
func (s *State) OnMessage(tailoring bool) {
	if tailoring {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearOnMessage {
		s.tailoring = nil
	}
}

// Snapshot returns the current resume and tailoring.
func (s *State) Snapshot() (*resume.Resume, *resume.Tailoring) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resume, s.tailoring
}

// Overlay returns the drawable overlay, or nil when there is none.
func (s *State) Overlay() *Overlay {
	_, t := s.Snapshot()
	return NewOverlay(t)
}
