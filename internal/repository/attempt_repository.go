package repository

import (
	"context"
	"sat_practice_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// AttemptFilter narrows a user's attempts to one skill or one domain.
type AttemptFilter struct {
	Skill  model.Skill
	Domain model.Domain
}

type AttemptPage struct {
	Page           []model.Attempt
	IsDone         bool
	ContinueCursor string
}

type attemptCursor struct {
	Create int64  `json:"c"`
	ID     string `json:"i"`
}

func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AttemptRepository) userQuery(ctx context.Context, userID string, f AttemptFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.Attempt{}).Where("user_id = ?", userID)
	if f.Skill != "" {
		q = q.Where("skill = ?", f.Skill)
	}
	if f.Domain != "" {
		q = q.Where("domain = ?", f.Domain)
	}
	return q
}

// ListRecent returns the user's newest attempts first.
func (r *AttemptRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.userQuery(ctx, userID, AttemptFilter{}).
		Order("create_date DESC, id DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// Paginate walks the user's attempts newest first.
func (r *AttemptRepository) Paginate(ctx context.Context, userID string, f AttemptFilter, numItems int, cursor string) (AttemptPage, error) {
	q := r.userQuery(ctx, userID, f)
	if cursor != "" {
		c, err := decodeCursor[attemptCursor](cursor)
		if err != nil {
			return AttemptPage{}, err
		}
		q = q.Where("((create_date < ?) OR (create_date = ? AND id < ?))", c.Create, c.Create, c.ID)
	}

	var rows []model.Attempt
	if err := q.Order("create_date DESC, id DESC").Limit(numItems + 1).Find(&rows).Error; err != nil {
		return AttemptPage{}, err
	}
	page := AttemptPage{IsDone: len(rows) <= numItems}
	if !page.IsDone {
		rows = rows[:numItems]
	}
	page.Page = rows
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		page.ContinueCursor = encodeCursor(attemptCursor{Create: last.CreateDate, ID: last.ID})
	}
	return page, nil
}

// ForEachBatch streams every attempt of the user to fn in batches.
func (r *AttemptRepository) ForEachBatch(ctx context.Context, userID string, batchSize int, fn func([]model.Attempt) error) error {
	var batch []model.Attempt
	res := r.userQuery(ctx, userID, AttemptFilter{}).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return res.Error
}
