package catalog

import (
	"context"
	"errors"
	"fmt"
	"sat_practice_backend/internal/model"
	"sort"
	"strconv"
	"testing"
)

type memStore struct {
	questions     []model.Question
	takeCalls     int
	paginateCalls int
	err           error
}

func (m *memStore) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.questions {
		if m.questions[i].QuestionID == questionID {
			q := m.questions[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (m *memStore) scan(scan Scan) []model.Question {
	var out []model.Question
	for _, q := range m.questions {
		if !scan.Index.IsFullScan() && fieldValue(&q, scan.Index.Field) != scan.Index.Value {
			continue
		}
		ok := true
		for _, p := range scan.Predicates {
			switch p.Op {
			case OpEq:
				ok = ok && fieldValue(&q, p.Field) == p.Value
			case OpNotNull:
				ok = ok && fieldValue(&q, p.Field) != ""
			case OpIsFalse:
				ok = ok && !q.Active()
			}
		}
		if ok {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreateDate, out[j].CreateDate
		if scan.Sort == SortUpdateDate {
			a, b = out[i].UpdateDate, out[j].UpdateDate
		}
		if a == b {
			a, b = int64(out[i].ID), int64(out[j].ID)
		}
		if scan.Order == OrderAsc {
			return a < b
		}
		return a > b
	})
	return out
}

func (m *memStore) Take(ctx context.Context, scan Scan, n int) ([]model.Question, error) {
	m.takeCalls++
	if m.err != nil {
		return nil, m.err
	}
	rows := m.scan(scan)
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func (m *memStore) Paginate(ctx context.Context, scan Scan, numItems int, cursor string) (ScanPage, error) {
	m.paginateCalls++
	if m.err != nil {
		return ScanPage{}, m.err
	}
	rows := m.scan(scan)
	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	end := start + numItems
	if end >= len(rows) {
		return ScanPage{Rows: rows[start:], IsDone: true}, nil
	}
	return ScanPage{Rows: rows[start:end], ContinueCursor: strconv.Itoa(end)}, nil
}

func fieldValue(q *model.Question, f Field) string {
	switch f {
	case FieldQuestionID:
		return q.QuestionID
	case FieldSkill:
		return string(q.Skill)
	case FieldDomain:
		return string(q.Domain)
	case FieldDifficulty:
		return string(q.Difficulty)
	case FieldProgram:
		return string(q.Program)
	case FieldSubject:
		return string(q.Subject)
	case FieldIBN:
		if q.IBN != nil {
			return *q.IBN
		}
	case FieldExternalID:
		if q.ExternalID != nil {
			return *q.ExternalID
		}
	}
	return ""
}

// seed builds n questions cycling through the taxonomy's skills and the three
// difficulties. Every third question is IBN-sourced and every fifth inactive.
func seed(n int) *memStore {
	skills := model.SAT.Skills
	diffs := model.SAT.Difficulties
	m := &memStore{}
	for i := 0; i < n; i++ {
		skill := skills[i%len(skills)]
		domain, _ := model.SAT.DomainOf(skill)
		subject, _ := model.SAT.SubjectOf(domain)
		q := model.Question{
			ID:         uint(i + 1),
			QuestionID: fmt.Sprintf("q%04d", i),
			Program:    "SAT",
			Subject:    subject,
			Domain:     domain,
			Skill:      skill,
			Difficulty: diffs[i%len(diffs)],
		}
		q.CreateDate = int64(1000 + i)
		q.UpdateDate = int64(5000 - i)
		if i%3 == 0 {
			ibn := fmt.Sprintf("ibn-%d", i)
			q.IBN = &ibn
		} else {
			ext := fmt.Sprintf("ext-%d", i)
			q.ExternalID = &ext
		}
		if i%5 == 0 {
			inactive := false
			q.IsActive = &inactive
		}
		m.questions = append(m.questions, q)
	}
	return m
}

func TestSelectIndexPriority(t *testing.T) {
	cases := []struct {
		f    Filters
		want string
	}{
		{Filters{}, FullScan},
		{Filters{Subject: "Math"}, "by_subject"},
		{Filters{Subject: "Math", Program: "SAT"}, "by_program"},
		{Filters{Program: "SAT", Difficulty: "Hard"}, "by_difficulty"},
		{Filters{Difficulty: "Hard", Domain: "Algebra"}, "by_domain"},
		{Filters{Domain: "Algebra", Skill: "Linear functions"}, "by_skill"},
		{Filters{Skill: "Linear functions", QuestionID: "q1"}, "by_question_id"},
		{Filters{IBNOnly: true, OnlyInactive: true}, FullScan},
	}
	for _, tc := range cases {
		if got := SelectIndex(tc.f).Index; got != tc.want {
			t.Errorf("SelectIndex(%+v) = %s, want %s", tc.f, got, tc.want)
		}
	}
}

func TestPredicatesExcludeDrivingIndex(t *testing.T) {
	f := Filters{Subject: "Math", Domain: "Algebra", Difficulty: "Easy", IBNOnly: true, HasExternalID: true, OnlyInactive: true}
	scan := PlanScan(f, "", "")
	if scan.Index.Field != FieldDomain {
		t.Fatalf("driving = %+v", scan.Index)
	}
	want := []Predicate{
		{Field: FieldDifficulty, Op: OpEq, Value: "Easy"},
		{Field: FieldSubject, Op: OpEq, Value: "Math"},
		{Field: FieldIBN, Op: OpNotNull},
		{Field: FieldExternalID, Op: OpNotNull},
		{Field: FieldIsActive, Op: OpIsFalse},
	}
	if len(scan.Predicates) != len(want) {
		t.Fatalf("predicates = %+v", scan.Predicates)
	}
	for i := range want {
		if scan.Predicates[i] != want[i] {
			t.Errorf("predicate %d = %+v, want %+v", i, scan.Predicates[i], want[i])
		}
	}
	if scan.Sort != SortCreateDate || scan.Order != OrderDesc {
		t.Fatalf("defaults not applied: %+v", scan)
	}
}

func TestListQuestionIDFastPath(t *testing.T) {
	m := seed(30)
	e := NewEngine(m, 0)
	ctx := context.Background()
	target := m.questions[7]

	res, err := e.List(ctx, QueryRequest{Filters: Filters{QuestionID: target.QuestionID}, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].QuestionID != target.QuestionID || res.HasMore {
		t.Fatalf("rows = %+v", res)
	}

	mismatches := []Filters{
		{QuestionID: target.QuestionID, Skill: "Circles"},
		{QuestionID: target.QuestionID, OnlyInactive: true},
		{QuestionID: target.QuestionID, IBNOnly: true},
		{QuestionID: "missing"},
	}
	for _, f := range mismatches {
		res, err := e.List(ctx, QueryRequest{Filters: f, Page: 1, PageSize: 20})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Rows) != 0 || res.HasMore {
			t.Errorf("filters %+v returned %+v", f, res)
		}
		n, err := e.Count(ctx, f)
		if err != nil || n != 0 {
			t.Errorf("count(%+v) = %d, %v", f, n, err)
		}
	}
	if m.takeCalls != 0 || m.paginateCalls != 0 {
		t.Fatalf("fast path scanned the store: take=%d paginate=%d", m.takeCalls, m.paginateCalls)
	}
}

func TestListPagesFollowHasMore(t *testing.T) {
	m := seed(95)
	e := NewEngine(m, 0)
	ctx := context.Background()
	f := Filters{Subject: "Math"}

	seen := map[string]bool{}
	for page := 1; ; page++ {
		res, err := e.List(ctx, QueryRequest{Filters: f, Page: page, PageSize: 7})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Rows) == 0 {
			t.Fatalf("page %d empty after hasMore", page)
		}
		for _, r := range res.Rows {
			if r.Subject != "Math" {
				t.Fatalf("row %s has subject %s", r.QuestionID, r.Subject)
			}
			if seen[r.QuestionID] {
				t.Fatalf("row %s repeated", r.QuestionID)
			}
			seen[r.QuestionID] = true
		}
		if !res.HasMore {
			break
		}
	}
	want, _ := e.Count(ctx, f)
	if len(seen) != want {
		t.Fatalf("paged %d rows, count %d", len(seen), want)
	}
	if m.takeCalls == 0 {
		t.Fatalf("expected store scans")
	}
}

func TestListOrdering(t *testing.T) {
	e := NewEngine(seed(10), 0)
	ctx := context.Background()

	desc, _ := e.List(ctx, QueryRequest{Page: 1, PageSize: 3})
	if desc.Rows[0].QuestionID != "q0009" {
		t.Fatalf("desc createDate first = %s", desc.Rows[0].QuestionID)
	}
	asc, _ := e.List(ctx, QueryRequest{Page: 1, PageSize: 3, Order: OrderAsc})
	if asc.Rows[0].QuestionID != "q0000" {
		t.Fatalf("asc createDate first = %s", asc.Rows[0].QuestionID)
	}
	byUpdate, _ := e.List(ctx, QueryRequest{Page: 1, PageSize: 3, Sort: SortUpdateDate})
	if byUpdate.Rows[0].QuestionID != "q0000" {
		t.Fatalf("desc updateDate first = %s", byUpdate.Rows[0].QuestionID)
	}
}

func TestListBeyondLastPageIsEmpty(t *testing.T) {
	e := NewEngine(seed(5), 0)
	res, err := e.List(context.Background(), QueryRequest{Page: 4, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Rows) != 0 || res.HasMore {
		t.Fatalf("res = %+v", res)
	}
	if res.Rows == nil {
		t.Fatalf("rows must encode as an empty array")
	}
}

func TestListInvalidPaginationUsesDefaults(t *testing.T) {
	e := NewEngine(seed(45), 0)
	res, err := e.List(context.Background(), QueryRequest{Page: -3, PageSize: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Rows) != DefaultPageSize || !res.HasMore {
		t.Fatalf("rows = %d hasMore = %v", len(res.Rows), res.HasMore)
	}
}

func TestCountCap(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{99, 99},
		{100, 100},
		{101, 101},
		{250, 101},
	}
	for _, tc := range cases {
		m := seed(tc.n)
		got, err := NewEngine(m, 0).Count(ctx, Filters{})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if got != tc.want {
			t.Errorf("count over %d rows = %d, want %d", tc.n, got, tc.want)
		}
		if m.paginateCalls != 1 || m.takeCalls != 0 {
			t.Errorf("count issued take=%d paginate=%d", m.takeCalls, m.paginateCalls)
		}
	}
}

func TestCountMonotonicUnderRelaxation(t *testing.T) {
	e := NewEngine(seed(400), 0)
	ctx := context.Background()
	chain := []Filters{
		{Subject: "Math", Domain: "Algebra", Skill: "Linear functions", Difficulty: "Easy", IBNOnly: true, OnlyInactive: true},
		{Subject: "Math", Domain: "Algebra", Skill: "Linear functions", Difficulty: "Easy", IBNOnly: true},
		{Subject: "Math", Domain: "Algebra", Skill: "Linear functions", Difficulty: "Easy"},
		{Subject: "Math", Domain: "Algebra", Skill: "Linear functions"},
		{Subject: "Math", Domain: "Algebra"},
		{Subject: "Math"},
		{},
	}
	prev := -1
	for _, f := range chain {
		n, err := e.Count(ctx, f)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n < prev {
			t.Fatalf("count decreased from %d to %d when relaxing to %+v", prev, n, f)
		}
		prev = n
	}
}

func TestCountAppliesSecondaryPredicates(t *testing.T) {
	m := seed(60)
	e := NewEngine(m, 0)
	ctx := context.Background()
	want := 0
	for i := range m.questions {
		if !m.questions[i].Active() {
			want++
		}
	}
	got, err := e.Count(ctx, Filters{OnlyInactive: true})
	if err != nil || got != want {
		t.Fatalf("count = %d, %v; want %d", got, err, want)
	}
}

func TestEngineStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("store down")
	e := NewEngine(&memStore{err: boom}, 0)
	ctx := context.Background()
	if _, err := e.List(ctx, QueryRequest{Page: 1, PageSize: 5}); !errors.Is(err, boom) {
		t.Fatalf("list err = %v", err)
	}
	if _, err := e.Count(ctx, Filters{QuestionID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("count err = %v", err)
	}
}

func TestGetByQuestionID(t *testing.T) {
	e := NewEngine(seed(3), 0)
	q, err := e.GetByQuestionID(context.Background(), "q0002")
	if err != nil || q == nil || q.ID != 3 {
		t.Fatalf("got %+v, %v", q, err)
	}
	q, err = e.GetByQuestionID(context.Background(), "nope")
	if err != nil || q != nil {
		t.Fatalf("missing id: %+v, %v", q, err)
	}
}
