package service

import (
	"context"
	"fmt"
	"math"
	"sat_practice_backend/internal/grading"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/util"
	"sat_practice_backend/pkg/logger"
	"sat_practice_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	DefaultAttemptLimit    = 100
	DefaultAttemptPageSize = 20
	MaxAttemptPageSize     = 100
	statsBatchSize         = 500
)

// QuestionLookup resolves a questionId to its question, or nil.
type QuestionLookup interface {
	GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error)
}

type AttemptService struct {
	Questions QuestionLookup
	Attempts  *repository.AttemptRepository
}

func NewAttemptService(questions QuestionLookup, attempts *repository.AttemptRepository) *AttemptService {
	return &AttemptService{Questions: questions, Attempts: attempts}
}

type AttemptPage struct {
	Page           []model.AttemptSummary `json:"page"`
	IsDone         bool                   `json:"isDone"`
	ContinueCursor string                 `json:"continueCursor"`
}

type StatLine struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Accuracy  int `json:"accuracy"`
}

type AttemptStats struct {
	Totals    StatLine            `json:"totals"`
	BySubject map[string]StatLine `json:"bySubject"`
	ByDomain  map[string]StatLine `json:"byDomain"`
	BySkill   map[string]StatLine `json:"bySkill"`
}

func (s *AttemptService) question(ctx context.Context, questionID string) (*model.Question, error) {
	q, err := s.Questions.GetByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, questionID)
	}
	return q, nil
}

// RecordAttempt stores a result graded by the client. The result type must
// match the question's kind.
func (s *AttemptService) RecordAttempt(ctx context.Context, userID, questionID string, result model.SubmissionResult) (*model.Attempt, error) {
	if userID == "" {
		return nil, util.ErrNotAuthenticated
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	q, err := s.question(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if kind := q.QuestionData.Data().Kind; result.Type() != kind {
		return nil, fmt.Errorf("%w: got %s, question is %s", util.ErrResultTypeMismatch, result.Type(), kind)
	}
	return s.store(ctx, userID, q, result)
}

// SubmitAnswer grades the submission against the stored question and records
// the attempt.
func (s *AttemptService) SubmitAnswer(ctx context.Context, userID, questionID string, sub grading.Submission) (model.SubmissionResult, error) {
	if userID == "" {
		return model.SubmissionResult{}, util.ErrNotAuthenticated
	}
	q, err := s.question(ctx, questionID)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	result, err := grading.Grade(q.QuestionData.Data(), sub)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	if _, err := s.store(ctx, userID, q, result); err != nil {
		return model.SubmissionResult{}, err
	}
	return result, nil
}

func (s *AttemptService) store(ctx context.Context, userID string, q *model.Question, result model.SubmissionResult) (*model.Attempt, error) {
	now := model.NowMillis()
	a := &model.Attempt{
		UserID:      userID,
		QuestionRef: q.ID,
		QuestionID:  q.QuestionID,
		Subject:     q.Subject,
		Domain:      q.Domain,
		Difficulty:  q.Difficulty,
		Skill:       q.Skill,
		Result:      datatypes.NewJSONType(result),
		ResultType:  result.Type(),
		IsCorrect:   result.IsCorrect(),
		CreateDate:  now,
		UpdateDate:  now,
	}
	if err := s.Attempts.Create(ctx, a); err != nil {
		logger.Log.Error("Failed to record attempt",
			zap.String("userId", userID),
			zap.String("questionId", q.QuestionID),
			zap.Error(err))
		return nil, err
	}
	monitoring.GradingVerdicts.WithLabelValues(string(a.ResultType), monitoring.Verdict(a.IsCorrect)).Inc()
	return a, nil
}

// ListMyAttempts returns the newest attempts first. Anonymous callers get an
// empty list.
func (s *AttemptService) ListMyAttempts(ctx context.Context, userID string, limit int) ([]model.AttemptSummary, error) {
	out := []model.AttemptSummary{}
	if userID == "" {
		return out, nil
	}
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}
	attempts, err := s.Attempts.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		out = append(out, attempts[i].Summary())
	}
	return out, nil
}

// ListMyAttemptsPaginated walks the caller's attempts, optionally narrowed to
// one skill or domain.
func (s *AttemptService) ListMyAttemptsPaginated(ctx context.Context, userID string, filter repository.AttemptFilter, numItems int, cursor string) (AttemptPage, error) {
	out := AttemptPage{Page: []model.AttemptSummary{}, IsDone: true}
	if userID == "" {
		return out, nil
	}
	if filter.Skill != "" && !model.SAT.IsSkill(filter.Skill) {
		return out, fmt.Errorf("%w: %q", util.ErrUnknownSkill, filter.Skill)
	}
	if filter.Domain != "" && !model.SAT.IsDomain(filter.Domain) {
		return out, fmt.Errorf("%w: %q", util.ErrUnknownDomain, filter.Domain)
	}
	if numItems <= 0 {
		numItems = DefaultAttemptPageSize
	}
	if numItems > MaxAttemptPageSize {
		numItems = MaxAttemptPageSize
	}

	page, err := s.Attempts.Paginate(ctx, userID, filter, numItems, cursor)
	if err != nil {
		return out, err
	}
	out.IsDone = page.IsDone
	out.ContinueCursor = page.ContinueCursor
	for i := range page.Page {
		out.Page = append(out.Page, page.Page[i].Summary())
	}
	return out, nil
}

// Stats folds every attempt of the caller. Anonymous callers get zero stats.
func (s *AttemptService) Stats(ctx context.Context, userID string) (AttemptStats, error) {
	acc := newStatsAccumulator()
	if userID == "" {
		return acc.result(), nil
	}
	err := s.Attempts.ForEachBatch(ctx, userID, statsBatchSize, func(batch []model.Attempt) error {
		for i := range batch {
			acc.add(&batch[i])
		}
		return nil
	})
	if err != nil {
		return AttemptStats{}, err
	}
	return acc.result(), nil
}

type tally struct {
	total, correct, incorrect int
}

func (t *tally) add(isCorrect *bool) {
	t.total++
	if isCorrect == nil {
		return
	}
	if *isCorrect {
		t.correct++
	} else {
		t.incorrect++
	}
}

func (t tally) line() StatLine {
	l := StatLine{Total: t.total, Correct: t.correct, Incorrect: t.incorrect}
	if t.total > 0 {
		l.Accuracy = int(math.Round(float64(t.correct) / float64(t.total) * 100))
	}
	return l
}

type statsAccumulator struct {
	totals                       tally
	bySubject, byDomain, bySkill map[string]*tally
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{
		bySubject: map[string]*tally{},
		byDomain:  map[string]*tally{},
		bySkill:   map[string]*tally{},
	}
}

func bump(m map[string]*tally, key string, isCorrect *bool) {
	t, ok := m[key]
	if !ok {
		t = &tally{}
		m[key] = t
	}
	t.add(isCorrect)
}

func (a *statsAccumulator) add(at *model.Attempt) {
	a.totals.add(at.IsCorrect)
	bump(a.bySubject, string(at.Subject), at.IsCorrect)
	bump(a.byDomain, string(at.Domain), at.IsCorrect)
	bump(a.bySkill, string(at.Skill), at.IsCorrect)
}

func lines(m map[string]*tally) map[string]StatLine {
	out := make(map[string]StatLine, len(m))
	for k, t := range m {
		out[k] = t.line()
	}
	return out
}

func (a *statsAccumulator) result() AttemptStats {
	return AttemptStats{
		Totals:    a.totals.line(),
		BySubject: lines(a.bySubject),
		ByDomain:  lines(a.byDomain),
		BySkill:   lines(a.bySkill),
	}
}
