package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/models"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
	"github.com/haise314/exam-management-system/pkg/ticker"
)

// SessionState is the lifecycle phase of an exam attempt.
type SessionState string

const (
	SessionNotStarted SessionState = "NotStarted"
	SessionActive     SessionState = "Active"
	SessionSubmitted  SessionState = "Submitted"
	SessionTimedOut   SessionState = "TimedOut"
	SessionAborted    SessionState = "Aborted"
)

type sessionEligibility interface {
	CanTake(ctx context.Context, traineeID, examID string) (*Eligibility, error)
}

type sessionScorer interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.ExamScore, error)
}

type sessionQuestionReader interface {
	ListEncodedByExam(ctx context.Context, examID string) ([]models.ExamQuestion, error)
}

type sessionExamReader interface {
	FindActive(ctx context.Context, id string) (*models.Exam, error)
}

// SessionResult is reported whenever a session ends on a path the
// caller did not drive synchronously (the timeout force-submit).
type SessionResult struct {
	State SessionState
	Score *models.ExamScore
	Err   error
}

// ExamSession runs a single timed attempt for one trainee/exam pair.
//
// The countdown is a cooperative single-goroutine tick loop: one tick
// per interval, each running to completion before the next is armed,
// stopped as soon as the session leaves Active. Every exit path from
// Active consumes the attempt: user submit, timeout and abort all
// force a graded submission. There is deliberately no way to discard
// an attempt without a grade.
type ExamSession struct {
	eligibility sessionEligibility
	scorer      sessionScorer
	exams       sessionExamReader
	questions   sessionQuestionReader
	logger      *zap.Logger

	tickInterval time.Duration
	now          func() time.Time
	onFinished   func(SessionResult)

	mu        sync.Mutex
	state     SessionState
	exam      *models.Exam
	loaded    []models.ExamQuestion
	answers   map[string]string
	traineeID string
	retake    bool
	startedAt time.Time
	remaining int
	countdown *ticker.Countdown
}

// SessionConfig carries the optional knobs of an exam session.
type SessionConfig struct {
	// TickInterval defaults to one second.
	TickInterval time.Duration
	// OnFinished is invoked when the session ends without a caller
	// waiting on the result, i.e. the timeout path. May be nil.
	OnFinished func(SessionResult)
	Logger     *zap.Logger
}

// NewExamSession constructs a session in the NotStarted state.
func NewExamSession(eligibility sessionEligibility, exams sessionExamReader, questions sessionQuestionReader, scorer sessionScorer, cfg SessionConfig) *ExamSession {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &ExamSession{
		eligibility:  eligibility,
		scorer:       scorer,
		exams:        exams,
		questions:    questions,
		logger:       cfg.Logger,
		tickInterval: cfg.TickInterval,
		now:          time.Now,
		onFinished:   cfg.OnFinished,
		state:        SessionNotStarted,
	}
}

// Start gates on eligibility, loads the exam and its questions, and
// begins the countdown. A session that is already Active rejects the
// call.
func (s *ExamSession) Start(ctx context.Context, examID, traineeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionActive {
		return appErrors.Clone(appErrors.ErrSessionActive, "")
	}

	verdict, err := s.eligibility.CanTake(ctx, traineeID, examID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "eligibility check failed")
	}
	if !verdict.Allowed {
		return appErrors.Clone(appErrors.ErrEligibilityDenied, verdict.Reason)
	}

	exam, err := s.exams.FindActive(ctx, examID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load exam")
	}
	if exam == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "exam not found or inactive")
	}

	questions, err := s.questions.ListEncodedByExam(ctx, examID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load questions")
	}
	if len(questions) == 0 {
		return appErrors.Clone(appErrors.ErrNoQuestions, "")
	}

	s.exam = exam
	s.loaded = questions
	s.answers = make(map[string]string, len(questions))
	s.traineeID = traineeID
	s.retake = verdict.Previous != nil && verdict.Previous.Status == models.ResultStatusFailed
	s.startedAt = s.now()
	s.remaining = exam.TimeLimitMinutes * 60
	s.state = SessionActive
	s.startCountdownLocked(s.remaining)

	s.logger.Info("exam session started",
		zap.String("exam_id", examID),
		zap.String("trainee_id", traineeID),
		zap.Int("questions", len(questions)),
		zap.Int("time_limit_seconds", s.remaining),
	)
	return nil
}

func (s *ExamSession) startCountdownLocked(seconds int) {
	s.countdown = ticker.New("exam-session", seconds,
		s.onTick,
		s.onExpire,
		ticker.Config{Interval: s.tickInterval, Logger: s.logger},
	)
	s.countdown.Start()
}

func (s *ExamSession) onTick(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionActive {
		s.remaining = remaining
	}
}

// onExpire runs on the countdown goroutine when time reaches zero. The
// transition to TimedOut happens exactly once and sticks regardless of
// the force-submit outcome.
func (s *ExamSession) onExpire() {
	s.mu.Lock()
	if s.state != SessionActive {
		s.mu.Unlock()
		return
	}
	s.state = SessionTimedOut
	s.remaining = 0
	req := s.submitRequestLocked(s.exam.TimeLimitMinutes * 60)
	s.mu.Unlock()

	score, err := s.scorer.Submit(context.Background(), req)
	if err != nil {
		s.logger.Error("timed-out submission failed",
			zap.String("exam_id", req.ExamID),
			zap.String("trainee_id", req.TraineeID),
			zap.Error(err),
		)
	} else {
		s.logger.Info("exam timed out and auto-submitted",
			zap.String("exam_id", req.ExamID),
			zap.Float64("percentage", score.Percentage),
		)
	}

	if s.onFinished != nil {
		s.onFinished(SessionResult{State: SessionTimedOut, Score: score, Err: err})
	}
}

// RecordAnswer stores the chosen letter for a question, overwriting any
// prior choice. The letter is not checked against the question's own
// options; the caller owns that.
func (s *ExamSession) RecordAnswer(questionID, letter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return appErrors.Clone(appErrors.ErrSessionNotActive, "")
	}
	s.answers[questionID] = letter
	return nil
}

// Submit grades the attempt on the user's initiative. On a scoring
// failure the session returns to Active with the countdown resumed, so
// the caller can retry or abandon.
func (s *ExamSession) Submit(ctx context.Context) (*models.ExamScore, error) {
	s.mu.Lock()
	if s.state != SessionActive {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrSessionNotActive, "")
	}
	s.countdown.Stop()
	s.state = SessionSubmitted
	resume := s.remaining
	req := s.submitRequestLocked(s.clampedTimeSpentLocked())
	s.mu.Unlock()

	score, err := s.scorer.Submit(ctx, req)
	if err != nil {
		s.mu.Lock()
		// Only resume if the timeout did not win the race meanwhile.
		if s.state == SessionSubmitted && resume > 0 {
			s.state = SessionActive
			s.startCountdownLocked(resume)
		}
		s.mu.Unlock()
		return nil, err
	}
	return score, nil
}

// Abort ends the session on the user's cancel. The attempt is still
// consumed: whatever answers were recorded are force-submitted, and
// Aborted is terminal regardless of the submission outcome.
func (s *ExamSession) Abort(ctx context.Context) (*models.ExamScore, error) {
	s.mu.Lock()
	if s.state != SessionActive {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrSessionNotActive, "")
	}
	s.countdown.Stop()
	s.state = SessionAborted
	req := s.submitRequestLocked(s.clampedTimeSpentLocked())
	s.mu.Unlock()

	score, err := s.scorer.Submit(ctx, req)
	if err != nil {
		s.logger.Error("aborted submission failed",
			zap.String("exam_id", req.ExamID),
			zap.Error(err),
		)
		return nil, err
	}
	return score, nil
}

func (s *ExamSession) submitRequestLocked(timeSpent int) SubmitRequest {
	answers := make(map[string]string, len(s.answers))
	for id, letter := range s.answers {
		if letter != "" {
			answers[id] = letter
		}
	}
	return SubmitRequest{
		TraineeID:        s.traineeID,
		ExamID:           s.exam.ID,
		Answers:          answers,
		TimeSpentSeconds: timeSpent,
		Retake:           s.retake,
	}
}

func (s *ExamSession) clampedTimeSpentLocked() int {
	limit := s.exam.TimeLimitMinutes * 60
	spent := int(s.now().Sub(s.startedAt).Seconds())
	if spent < 0 {
		return 0
	}
	if spent > limit {
		return limit
	}
	return spent
}

// State returns the current lifecycle phase.
func (s *ExamSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the seconds left on the countdown.
func (s *ExamSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Questions returns the loaded question set for rendering.
func (s *ExamSession) Questions() []models.ExamQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Exam returns the exam under way, nil before the first Start.
func (s *ExamSession) Exam() *models.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exam
}
