package game

import (
	"time"

	"lingoplay/internal/models"
)

// View is a point-in-time copy of a session for rendering
type View struct {
	Phase    Phase
	Mode     models.GameType
	LessonID string
	GameID   string
	Index    int
	Total    int
	Score    int

	// Question is nil while loading and when the list is empty or the index
	// falls outside it
	Question    *models.Question
	Selected    string
	Arrangement Arrangement
	Feedback    *Feedback
	Summary     *Summary

	InFlight  bool
	AdvanceIn time.Duration

	// Err is the error of the last failed call, if any
	Err error
}

// Number is the 1-based position of the current question
func (v View) Number() int {
	return v.Index + 1
}

// Placeholder reports whether the loading view should render
func (v View) Placeholder() bool {
	return v.Phase == PhaseLoading || (v.Question == nil && v.Phase != PhaseCompleted)
}

// Snapshot returns a consistent copy of the session state
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Phase:    s.phase,
		Mode:     s.mode,
		LessonID: s.lessonID,
		GameID:   s.gameID,
		Index:    s.index,
		Total:    len(s.questions),
		Score:    s.score,
		Selected: s.selected,
		InFlight: s.pending != nil,
		Err:      s.lastErr,
	}
	if s.phase != PhaseLoading && s.phase != PhaseCompleted {
		if q, ok := s.currentLocked(); ok {
			v.Question = &q
		}
	}
	if s.mode == models.GameArrange {
		v.Arrangement = s.arrangement.clone()
	}
	if s.feedback != nil {
		fb := *s.feedback
		v.Feedback = &fb
		if s.mode == models.GameArrange {
			v.AdvanceIn = s.opts.AdvanceDelay - s.opts.Now().Sub(s.feedbackAt)
			if v.AdvanceIn < 0 {
				v.AdvanceIn = 0
			}
		}
	}
	if s.phase == PhaseCompleted {
		sum := newSummary(s.score, s.totalScore, s.bonus, s.correct, len(s.questions))
		v.Summary = &sum
	}
	return v
}
