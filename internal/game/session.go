// Package game runs quiz sessions: one learner working through the ordered
// questions of one game mode for one lesson.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"lingoplay/internal/metrics"
	"lingoplay/internal/models"
)

var (
	ErrSubmitInFlight = errors.New("an answer is already being submitted")
	ErrWrongPhase     = errors.New("action not allowed right now")
	ErrEmptyAnswer    = errors.New("arrange at least one word")
	ErrUnknownOption  = errors.New("unknown option")
	ErrStaleRun       = errors.New("game was restarted")
)

// Phase is the state of a session
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAnswering
	PhaseSubmitting
	PhaseFeedback
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseFeedback:
		return "feedback"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Backend is the remote side of a game
type Backend interface {
	StartGame(ctx context.Context, gameType models.GameType, lessonID string) (*models.GameStart, error)
	SubmitAnswer(ctx context.Context, submission models.AnswerSubmission) (*models.AnswerResult, error)
}

// Feedback is what the learner sees after an answer
type Feedback struct {
	Correct         bool
	Selected        string
	CorrectOption   models.Option
	CorrectSentence string
	Explanation     string
	Bonus           int
}

// Options configure a session
type Options struct {
	Locale       string
	AdvanceDelay time.Duration
	Shuffle      Shuffler
	Now          func() time.Time
}

// Session is one run of a game. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	backend  Backend
	mode     models.GameType
	lessonID string
	opts     Options

	generation uint64
	phase      Phase
	gameID     string
	playerID   string
	questions  []models.Question
	index      int

	score      int
	totalScore int
	bonus      int
	correct    int
	completed  bool

	selected    string
	arrangement Arrangement
	lastAnswer  *models.AnswerSubmission
	feedback    *Feedback
	feedbackAt  time.Time
	pending     *models.AnswerSubmission // single in-flight slot
	lastErr     error
}

// NewSession creates a session in the Loading phase. Call Start to fetch questions.
func NewSession(backend Backend, mode models.GameType, lessonID string, opts Options) *Session {
	if opts.Shuffle == nil {
		opts.Shuffle = shuffleTokens
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{backend: backend, mode: mode, lessonID: lessonID, opts: opts}
}

// ResumeIndex is the question after the last answered one, or 0 when there
// is none or it would fall outside the list
func ResumeIndex(lastAnswered *int, count int) int {
	if lastAnswered == nil {
		return 0
	}
	next := *lastAnswered + 1
	if next < 0 || next >= count {
		return 0
	}
	return next
}

// Start loads the questions and positions the session at the resume index.
// Calling it again restarts the game; results of the old run are dropped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.resetLocked()
	s.mu.Unlock()

	start, err := s.backend.StartGame(ctx, s.mode, s.lessonID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleRun
	}
	if err != nil {
		s.lastErr = err
		return fmt.Errorf("failed to start game: %w", err)
	}

	s.gameID = start.GameID
	s.playerID = start.PlayerID
	s.questions = start.Questions
	s.score = start.Score
	if len(s.questions) == 0 {
		log.Printf("Game %s/%s has no questions", s.mode, s.lessonID)
		return nil
	}
	s.index = ResumeIndex(start.LastAnsweredIndex, len(s.questions))
	s.enterQuestionLocked()
	return nil
}

// Restart runs Loading again from scratch
func (s *Session) Restart(ctx context.Context) error {
	return s.Start(ctx)
}

func (s *Session) resetLocked() {
	s.phase = PhaseLoading
	s.gameID, s.playerID = "", ""
	s.questions = nil
	s.index = 0
	s.score, s.totalScore, s.bonus, s.correct = 0, 0, 0, 0
	s.completed = false
	s.selected = ""
	s.arrangement = Arrangement{}
	s.lastAnswer = nil
	s.feedback = nil
	s.pending = nil
	s.lastErr = nil
}

func (s *Session) enterQuestionLocked() {
	s.phase = PhaseAnswering
	s.selected = ""
	s.feedback = nil
	s.lastAnswer = nil
	s.lastErr = nil
	if s.mode == models.GameArrange {
		s.arrangement = newArrangement(s.questions[s.index].Words, s.opts.Shuffle)
	}
}

func (s *Session) currentLocked() (models.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return models.Question{}, false
	}
	return s.questions[s.index], true
}

// Choose selects an option and submits it. Choice modes only.
func (s *Session) Choose(ctx context.Context, optionID string) error {
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !s.mode.IsChoice() || s.phase != PhaseAnswering {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	q, _ := s.currentLocked()
	if !hasOption(q, optionID) {
		s.mu.Unlock()
		return ErrUnknownOption
	}
	s.selected = optionID
	sub := s.submissionLocked(q)
	sub.OptionID = optionID
	gen := s.beginLocked(sub)
	s.mu.Unlock()

	return s.send(ctx, gen, sub)
}

// Pick moves an available token into the answer. Arrange mode only.
func (s *Session) Pick(pos int) error {
	return s.arrange(func(a *Arrangement) bool { return a.Pick(pos) })
}

// Unpick moves an answer token back to the available pool. Arrange mode only.
func (s *Session) Unpick(pos int) error {
	return s.arrange(func(a *Arrangement) bool { return a.Unpick(pos) })
}

// Reshuffle resets both pools of the current question
func (s *Session) Reshuffle() error {
	return s.arrange(func(a *Arrangement) bool {
		*a = newArrangement(s.questions[s.index].Words, s.opts.Shuffle)
		return true
	})
}

func (s *Session) arrange(move func(*Arrangement) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != models.GameArrange || s.phase != PhaseAnswering || s.pending != nil {
		return ErrWrongPhase
	}
	if !move(&s.arrangement) {
		return fmt.Errorf("no token at that position")
	}
	return nil
}

// SubmitArrangement sends the current answer order. Arrange mode only.
func (s *Session) SubmitArrangement(ctx context.Context) error {
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.mode != models.GameArrange || s.phase != PhaseAnswering {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if len(s.arrangement.Answer) == 0 {
		s.mu.Unlock()
		return ErrEmptyAnswer
	}
	q, _ := s.currentLocked()
	sub := s.submissionLocked(q)
	sub.WordArray = s.arrangement.Words()
	gen := s.beginLocked(sub)
	s.mu.Unlock()

	return s.send(ctx, gen, sub)
}

// Retry resends the answer whose submission failed
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.phase != PhaseSubmitting || s.lastAnswer == nil {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	sub := *s.lastAnswer
	gen := s.beginLocked(sub)
	s.mu.Unlock()

	return s.send(ctx, gen, sub)
}

func (s *Session) submissionLocked(q models.Question) models.AnswerSubmission {
	return models.AnswerSubmission{
		GameID:     s.gameID,
		QuestionID: q.ID,
		PlayerID:   s.playerID,
		LessonID:   s.lessonID,
		WordArray:  []string{},
	}
}

// beginLocked claims the pending slot. Callers must have checked it is free.
func (s *Session) beginLocked(sub models.AnswerSubmission) uint64 {
	s.pending = &sub
	s.phase = PhaseSubmitting
	s.lastAnswer = &sub
	s.lastErr = nil
	return s.generation
}

// send performs the network call of a claimed submission and releases the slot
func (s *Session) send(ctx context.Context, gen uint64, sub models.AnswerSubmission) error {
	result, err := s.backend.SubmitAnswer(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleRun
	}
	s.pending = nil
	if err != nil {
		metrics.AnswerSubmissions.WithLabelValues(s.mode.Slug(), "error").Inc()
		log.Printf("Error submitting answer for question %s: %v", sub.QuestionID, err)
		s.lastErr = err
		return fmt.Errorf("failed to submit answer: %w", err)
	}

	outcome := "incorrect"
	if result.IsCorrect {
		outcome = "correct"
		s.correct++
	}
	metrics.AnswerSubmissions.WithLabelValues(s.mode.Slug(), outcome).Inc()

	s.score = result.Score
	if result.IsCompleted {
		s.completed = true
		s.totalScore = result.TotalScore
		s.bonus = result.Bonus
	}

	q, _ := s.currentLocked()
	fb := &Feedback{
		Correct:     result.IsCorrect,
		Selected:    sub.OptionID,
		Explanation: q.Explanation.In(s.opts.Locale),
		Bonus:       result.Bonus,
	}
	if opt, ok := q.CorrectOption(); ok {
		fb.CorrectOption = opt
	}
	if s.mode == models.GameArrange {
		fb.CorrectSentence = Sentence(q.Words)
	}
	s.feedback = fb
	s.feedbackAt = s.opts.Now()
	s.phase = PhaseFeedback
	return nil
}

// Next leaves Feedback: it advances by exactly one question, or completes
// the game when the last question was answered or the server said so.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

func (s *Session) nextLocked() error {
	if s.phase != PhaseFeedback {
		return ErrWrongPhase
	}
	if s.completed || s.index >= len(s.questions)-1 {
		s.phase = PhaseCompleted
		s.feedback = nil
		return nil
	}
	s.index++
	s.enterQuestionLocked()
	return nil
}

// Tick advances an arrange session whose feedback has been shown for the
// configured delay. It reports whether the session moved.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != models.GameArrange || s.phase != PhaseFeedback {
		return false
	}
	if now.Sub(s.feedbackAt) < s.opts.AdvanceDelay {
		return false
	}
	return s.nextLocked() == nil
}

// SetLocale changes the language of explanations
func (s *Session) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Locale = locale
}

func hasOption(q models.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
