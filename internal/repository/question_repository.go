package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

var _ catalog.Store = (*QuestionRepository)(nil)

var sortColumns = map[catalog.SortKey]string{
	catalog.SortCreateDate: "create_date",
	catalog.SortUpdateDate: "update_date",
}

// keyCursor is the opaque continuation of a Paginate scan: the sort value and
// id of the last row returned.
type keyCursor struct {
	Sort int64 `json:"s"`
	ID   uint  `json:"i"`
}

func encodeCursor[C any](c C) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor[C any](s string) (C, error) {
	var c C
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("%w: %v", util.ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: %v", util.ErrInvalidCursor, err)
	}
	return c, nil
}

// GetByQuestionID returns nil, nil when no question has the id. Duplicate
// questionIds resolve to the oldest row.
func (r *QuestionRepository) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("question_id = ?", questionID).Order("id ASC").First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// scanQuery applies the driving index condition and every predicate, then the
// scan order with id as tiebreaker.
func (r *QuestionRepository) scanQuery(ctx context.Context, scan catalog.Scan) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.Question{})
	if !scan.Index.IsFullScan() {
		q = q.Where(clause.Eq{Column: clause.Column{Name: string(scan.Index.Field)}, Value: scan.Index.Value})
	}
	for _, p := range scan.Predicates {
		col := clause.Column{Name: string(p.Field)}
		switch p.Op {
		case catalog.OpEq:
			q = q.Where(clause.Eq{Column: col, Value: p.Value})
		case catalog.OpNotNull:
			q = q.Where(clause.Neq{Column: col, Value: nil})
		case catalog.OpIsFalse:
			q = q.Where(clause.Eq{Column: col, Value: false})
		}
	}
	desc := scan.Order.OrDefault() == catalog.OrderDesc
	return q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: sortColumns[scan.Sort.OrDefault()]}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}})
}

func (r *QuestionRepository) Take(ctx context.Context, scan catalog.Scan, n int) ([]model.Question, error) {
	var rows []model.Question
	err := r.scanQuery(ctx, scan).Limit(n).Find(&rows).Error
	return rows, err
}

// Paginate returns up to numItems rows after cursor. It reads one extra row
// to decide IsDone.
func (r *QuestionRepository) Paginate(ctx context.Context, scan catalog.Scan, numItems int, cursor string) (catalog.ScanPage, error) {
	q := r.scanQuery(ctx, scan)
	col := sortColumns[scan.Sort.OrDefault()]
	if cursor != "" {
		c, err := decodeCursor[keyCursor](cursor)
		if err != nil {
			return catalog.ScanPage{}, err
		}
		cmp := "<"
		if scan.Order.OrDefault() == catalog.OrderAsc {
			cmp = ">"
		}
		q = q.Where(fmt.Sprintf("((%s %s ?) OR (%s = ? AND id %s ?))", col, cmp, col, cmp), c.Sort, c.Sort, c.ID)
	}

	var rows []model.Question
	if err := q.Limit(numItems + 1).Find(&rows).Error; err != nil {
		return catalog.ScanPage{}, err
	}
	page := catalog.ScanPage{IsDone: len(rows) <= numItems}
	if !page.IsDone {
		rows = rows[:numItems]
	}
	page.Rows = rows
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		sortVal := last.CreateDate
		if col == "update_date" {
			sortVal = last.UpdateDate
		}
		page.ContinueCursor = encodeCursor(keyCursor{Sort: sortVal, ID: last.ID})
	}
	return page, nil
}

// InsertIfAbsent creates q unless a question with the same questionId exists.
func (r *QuestionRepository) InsertIfAbsent(ctx context.Context, q *model.Question) (bool, error) {
	inserted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Question{}).Where("question_id = ?", q.QuestionID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if q.CreateDate == 0 {
			q.CreateDate = model.NowMillis()
		}
		q.Touch()
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// SetActive sets isActive on every question whose questionId is listed and
// reports how many ids matched nothing.
func (r *QuestionRepository) SetActive(ctx context.Context, questionIDs []string, active bool) (updated, notFound int, err error) {
	now := model.NowMillis()
	for _, id := range questionIDs {
		res := r.DB.WithContext(ctx).Model(&model.Question{}).
			Where("question_id = ?", id).
			Updates(map[string]interface{}{"is_active": active, "update_date": now})
		if res.Error != nil {
			return updated, notFound, res.Error
		}
		if res.RowsAffected == 0 {
			notFound++
		} else {
			updated++
		}
	}
	return updated, notFound, nil
}

// activeCondition matches rows whose flag is absent or true.
const activeCondition = "(is_active IS NULL OR is_active = ?)"

// DeactivateBatch marks up to batchSize active questions inactive and returns
// how many were changed.
func (r *QuestionRepository) DeactivateBatch(ctx context.Context, batchSize int) (int, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where(activeCondition, true).
		Order("id ASC").
		Limit(batchSize).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	res := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_active": false, "update_date": model.NowMillis()})
	return int(res.RowsAffected), res.Error
}

// CountNeedingUpdate returns the number of active questions and the total.
func (r *QuestionRepository) CountNeedingUpdate(ctx context.Context) (needsUpdate, total int64, err error) {
	db := r.DB.WithContext(ctx).Model(&model.Question{})
	if err = db.Count(&total).Error; err != nil {
		return
	}
	err = r.DB.WithContext(ctx).Model(&model.Question{}).Where(activeCondition, true).Count(&needsUpdate).Error
	return
}

// DeleteAll hard-deletes every question.
func (r *QuestionRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Question{})
	return res.RowsAffected, res.Error
}
