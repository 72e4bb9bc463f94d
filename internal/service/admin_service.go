package service

import (
	"context"
	"fmt"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/pkg/logger"

	"go.uber.org/zap"
)

const deactivateBatchSize = 100

type ActivationResult struct {
	Updated  int `json:"updated"`
	NotFound int `json:"notFound"`
}

type BulkDeactivateResult struct {
	TotalUpdated int    `json:"totalUpdated"`
	Message      string `json:"message"`
}

type NeedingUpdate struct {
	NeedsUpdate int64 `json:"needsUpdate"`
	Total       int64 `json:"total"`
}

// AdminService holds catalog maintenance operations. Every change is
// announced through the catalog service.
type AdminService struct {
	Questions *repository.QuestionRepository
	Catalog   *CatalogService
}

func NewAdminService(questions *repository.QuestionRepository, catalogSvc *CatalogService) *AdminService {
	return &AdminService{Questions: questions, Catalog: catalogSvc}
}

func (s *AdminService) changed(ctx context.Context) {
	if s.Catalog != nil {
		s.Catalog.NotifyChanged(ctx)
	}
}

func (s *AdminService) setActive(ctx context.Context, questionIDs []string, active bool) (ActivationResult, error) {
	updated, notFound, err := s.Questions.SetActive(ctx, questionIDs, active)
	if updated > 0 {
		s.changed(ctx)
	}
	return ActivationResult{Updated: updated, NotFound: notFound}, err
}

func (s *AdminService) SetQuestionsActive(ctx context.Context, questionIDs []string) (ActivationResult, error) {
	return s.setActive(ctx, questionIDs, true)
}

func (s *AdminService) SetQuestionsInactive(ctx context.Context, questionIDs []string) (ActivationResult, error) {
	return s.setActive(ctx, questionIDs, false)
}

// SetAllQuestionsInactive deactivates every active question in fixed-size
// batches.
func (s *AdminService) SetAllQuestionsInactive(ctx context.Context) (BulkDeactivateResult, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return BulkDeactivateResult{TotalUpdated: total}, err
		}
		n, err := s.Questions.DeactivateBatch(ctx, deactivateBatchSize)
		if err != nil {
			if total > 0 {
				s.changed(ctx)
			}
			return BulkDeactivateResult{TotalUpdated: total}, err
		}
		total += n
		if n < deactivateBatchSize {
			break
		}
	}
	if total > 0 {
		s.changed(ctx)
	}
	logger.Log.Info("Deactivated all questions", zap.Int("count", total))
	return BulkDeactivateResult{
		TotalUpdated: total,
		Message:      fmt.Sprintf("Successfully updated %d questions to inactive status", total),
	}, nil
}

func (s *AdminService) CountQuestionsNeedingUpdate(ctx context.Context) (NeedingUpdate, error) {
	needs, total, err := s.Questions.CountNeedingUpdate(ctx)
	return NeedingUpdate{NeedsUpdate: needs, Total: total}, err
}

// ResetQuestions hard-deletes the whole catalog. Attempts are kept.
func (s *AdminService) ResetQuestions(ctx context.Context) (int64, error) {
	n, err := s.Questions.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.changed(ctx)
	logger.Log.Warn("Question catalog reset", zap.Int64("deleted", n))
	return n, nil
}
