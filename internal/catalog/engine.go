package catalog

import (
	"context"
	"sat_practice_backend/internal/model"
)

const DefaultCountCap = 100

// ScanPage is one page of a cursor-paginated scan.
type ScanPage struct {
	Rows           []model.Question
	IsDone         bool
	ContinueCursor string
}

// Store is the question document store. Implementations apply the driving
// index and every predicate of a Scan and return rows in scan order.
type Store interface {
	// GetByQuestionID returns nil, nil when no question has the id.
	GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error)
	Take(ctx context.Context, scan Scan, n int) ([]model.Question, error)
	Paginate(ctx context.Context, scan Scan, numItems int, cursor string) (ScanPage, error)
}

type ListResult struct {
	Rows    []model.QuestionSummary `json:"rows"`
	HasMore bool                    `json:"hasMore"`
}

type Engine struct {
	store    Store
	countCap int
}

func NewEngine(store Store, countCap int) *Engine {
	if countCap <= 0 {
		countCap = DefaultCountCap
	}
	return &Engine{store: store, countCap: countCap}
}

func (e *Engine) CountCap() int {
	return e.countCap
}

// List returns one page of questions. An empty page is a valid result.
func (e *Engine) List(ctx context.Context, req QueryRequest) (ListResult, error) {
	page, size := req.Page, req.PageSize
	if page < 1 || size < 1 {
		page, size = NormalizePagination(float64(page), float64(size))
	}

	var fetched []model.Question
	if req.Filters.QuestionID != "" {
		q, err := e.lookup(ctx, req.Filters)
		if err != nil {
			return ListResult{}, err
		}
		if q != nil {
			fetched = []model.Question{*q}
		}
	} else {
		rows, err := e.store.Take(ctx, req.Scan(), FetchCount(page, size))
		if err != nil {
			return ListResult{}, err
		}
		fetched = rows
	}

	window, hasMore := Window(fetched, page, size)
	out := ListResult{Rows: make([]model.QuestionSummary, 0, len(window)), HasMore: hasMore}
	for i := range window {
		out.Rows = append(out.Rows, window[i].Summary())
	}
	return out, nil
}

// Count returns the number of matching questions capped at CountCap()+1,
// where CountCap()+1 means "more than CountCap()". It issues at most one
// paginated store request.
func (e *Engine) Count(ctx context.Context, f Filters) (int, error) {
	if f.QuestionID != "" {
		q, err := e.lookup(ctx, f)
		if err != nil || q == nil {
			return 0, err
		}
		return 1, nil
	}

	res, err := e.store.Paginate(ctx, PlanScan(f, "", ""), e.countCap+1, "")
	if err != nil {
		return 0, err
	}
	if !res.IsDone || len(res.Rows) > e.countCap {
		return e.countCap + 1, nil
	}
	return len(res.Rows), nil
}

// GetByQuestionID returns nil when the question does not exist.
func (e *Engine) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	if questionID == "" {
		return nil, nil
	}
	return e.store.GetByQuestionID(ctx, questionID)
}

// lookup fetches by questionId and checks the remaining filters against the
// single document.
func (e *Engine) lookup(ctx context.Context, f Filters) (*model.Question, error) {
	q, err := e.store.GetByQuestionID(ctx, f.QuestionID)
	if err != nil || q == nil {
		return nil, err
	}
	if !f.Matches(q) {
		return nil, nil
	}
	return q, nil
}
