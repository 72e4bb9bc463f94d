package repository

import (
	"context"
	"errors"
	"fmt"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/util"
	"sat_practice_backend/pkg/database"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}, true)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func newQuestion(i int, skill model.Skill) *model.Question {
	domain, _ := model.SAT.DomainOf(skill)
	subject, _ := model.SAT.SubjectOf(domain)
	q := &model.Question{
		QuestionID: fmt.Sprintf("q%03d", i),
		Program:    "SAT",
		Subject:    subject,
		Domain:     domain,
		Skill:      skill,
		Difficulty: "Medium",
		QuestionData: datatypes.NewJSONType(model.QuestionData{
			Kind: model.KindIDSpr,
			ID:   &model.IDQuestion{Stem: "s", CorrectAnswer: []string{"1"}},
		}),
	}
	q.CreateDate = int64(1000 + i)
	q.UpdateDate = int64(1000 + i)
	return q
}

func seedQuestions(t *testing.T, r *QuestionRepository, n int) {
	t.Helper()
	skills := []model.Skill{"Circles", "Linear functions"}
	for i := 0; i < n; i++ {
		q := newQuestion(i, skills[i%2])
		if i%3 == 0 {
			q.IBN = strPtr(fmt.Sprintf("ibn-%d", i))
		}
		if i%5 == 0 {
			q.IsActive = boolPtr(false)
		}
		if ok, err := r.InsertIfAbsent(context.Background(), q); err != nil || !ok {
			t.Fatalf("InsertIfAbsent(%d) = %v, %v", i, ok, err)
		}
		// InsertIfAbsent refreshes updateDate; pin it for ordering tests
		r.DB.Model(q).Update("update_date", int64(5000-i))
	}
}

func TestGetByQuestionID(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, r, 3)
	ctx := context.Background()

	q, err := r.GetByQuestionID(ctx, "q001")
	if err != nil || q == nil || q.Skill != "Linear functions" {
		t.Fatalf("GetByQuestionID = %+v, %v", q, err)
	}
	if q.QuestionData.Data().Kind != model.KindIDSpr {
		t.Fatalf("question_data not round-tripped: %+v", q.QuestionData.Data())
	}
	if q, err := r.GetByQuestionID(ctx, "missing"); q != nil || err != nil {
		t.Fatalf("missing question = %+v, %v", q, err)
	}
}

func TestInsertIfAbsentSkipsDuplicates(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	ctx := context.Background()
	if ok, err := r.InsertIfAbsent(ctx, newQuestion(1, "Circles")); !ok || err != nil {
		t.Fatalf("first insert = %v, %v", ok, err)
	}
	if ok, err := r.InsertIfAbsent(ctx, newQuestion(1, "Circles")); ok || err != nil {
		t.Fatalf("duplicate insert = %v, %v", ok, err)
	}
	var n int64
	r.DB.Model(&model.Question{}).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d", n)
	}
}

func TestTakeAppliesIndexAndPredicates(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, r, 30)
	ctx := context.Background()

	scan := catalog.PlanScan(catalog.Filters{Skill: "Circles", IBNOnly: true}, "", "")
	rows, err := r.Take(ctx, scan, 100)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	// even indexes divisible by 3: 0, 6, 12, 18, 24
	if len(rows) != 5 {
		t.Fatalf("rows = %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].CreateDate < rows[i].CreateDate {
			t.Fatalf("rows not in createDate desc order")
		}
	}

	scan = catalog.PlanScan(catalog.Filters{OnlyInactive: true}, catalog.SortCreateDate, catalog.OrderAsc)
	rows, _ = r.Take(ctx, scan, 100)
	if len(rows) != 6 || rows[0].QuestionID != "q000" || rows[5].QuestionID != "q025" {
		t.Fatalf("inactive rows = %d", len(rows))
	}

	scan = catalog.PlanScan(catalog.Filters{}, catalog.SortUpdateDate, catalog.OrderDesc)
	rows, _ = r.Take(ctx, scan, 2)
	if len(rows) != 2 || rows[0].QuestionID != "q000" {
		t.Fatalf("updateDate desc head = %v", rows)
	}

	scan = catalog.PlanScan(catalog.Filters{HasExternalID: true}, "", "")
	if rows, _ = r.Take(ctx, scan, 100); len(rows) != 0 {
		t.Fatalf("no question has an external id, got %d", len(rows))
	}
}

func TestPaginateWalksWholeScan(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, r, 23)
	ctx := context.Background()
	scan := catalog.PlanScan(catalog.Filters{Subject: "Math"}, "", "")

	seen := map[string]bool{}
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > 10 {
			t.Fatalf("pagination did not terminate")
		}
		page, err := r.Paginate(ctx, scan, 5, cursor)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		for _, q := range page.Rows {
			if seen[q.QuestionID] {
				t.Fatalf("row %s returned twice", q.QuestionID)
			}
			seen[q.QuestionID] = true
		}
		if page.IsDone {
			break
		}
		cursor = page.ContinueCursor
	}
	if len(seen) != 23 {
		t.Fatalf("saw %d rows", len(seen))
	}

	if _, err := r.Paginate(ctx, scan, 5, "!!not-a-cursor"); !errors.Is(err, util.ErrInvalidCursor) {
		t.Fatalf("bad cursor err = %v", err)
	}
}

func TestEngineOverRepository(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, r, 40)
	e := catalog.NewEngine(r, 10)
	ctx := context.Background()

	n, err := e.Count(ctx, catalog.Filters{Skill: "Circles"})
	if err != nil || n != 11 {
		t.Fatalf("capped count = %d, %v", n, err)
	}
	n, _ = e.Count(ctx, catalog.Filters{Skill: "Circles", OnlyInactive: true})
	if n != 4 {
		t.Fatalf("exact count = %d", n)
	}

	res, err := e.List(ctx, catalog.QueryRequest{Filters: catalog.Filters{Skill: "Circles"}, Page: 2, PageSize: 8})
	if err != nil || len(res.Rows) != 8 || !res.HasMore {
		t.Fatalf("page 2 = %d rows, hasMore %v, %v", len(res.Rows), res.HasMore, err)
	}
	res, _ = e.List(ctx, catalog.QueryRequest{Filters: catalog.Filters{Skill: "Circles"}, Page: 3, PageSize: 8})
	if len(res.Rows) != 4 || res.HasMore {
		t.Fatalf("page 3 = %d rows, hasMore %v", len(res.Rows), res.HasMore)
	}
}

func TestSetActiveAndDeactivateBatches(t *testing.T) {
	r := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, r, 12)
	ctx := context.Background()

	updated, notFound, err := r.SetActive(ctx, []string{"q000", "q005", "nope"}, true)
	if err != nil || updated != 2 || notFound != 1 {
		t.Fatalf("SetActive = %d, %d, %v", updated, notFound, err)
	}
	q, _ := r.GetByQuestionID(ctx, "q000")
	if !q.Active() || q.UpdateDate < 1e12 {
		t.Fatalf("q000 not activated with a fresh updateDate: %+v", q)
	}

	needs, total, err := r.CountNeedingUpdate(ctx)
	if err != nil || needs != 11 || total != 12 {
		t.Fatalf("CountNeedingUpdate = %d, %d, %v", needs, total, err)
	}

	sum := 0
	for {
		n, err := r.DeactivateBatch(ctx, 5)
		if err != nil {
			t.Fatalf("DeactivateBatch: %v", err)
		}
		if n == 0 {
			break
		}
		sum += n
	}
	if sum != 11 {
		t.Fatalf("deactivated %d", sum)
	}
	if needs, _, _ := r.CountNeedingUpdate(ctx); needs != 0 {
		t.Fatalf("still active: %d", needs)
	}

	deleted, err := r.DeleteAll(ctx)
	if err != nil || deleted != 12 {
		t.Fatalf("DeleteAll = %d, %v", deleted, err)
	}
}

func newAttempt(user string, i int, skill model.Skill, correct *bool) *model.Attempt {
	domain, _ := model.SAT.DomainOf(skill)
	subject, _ := model.SAT.SubjectOf(domain)
	return &model.Attempt{
		UserID:      user,
		QuestionRef: uint(i + 1),
		QuestionID:  fmt.Sprintf("q%03d", i),
		Subject:     subject,
		Domain:      domain,
		Skill:       skill,
		Difficulty:  "Easy",
		ResultType:  model.KindIDSpr,
		IsCorrect:   correct,
		CreateDate:  int64(1000 + i/2), // pairs share a timestamp
		UpdateDate:  int64(1000 + i/2),
	}
}

func TestAttemptRepository(t *testing.T) {
	r := NewAttemptRepository(newTestDB(t))
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		skill := model.Skill("Circles")
		if i%3 == 0 {
			skill = "Transitions"
		}
		if err := r.Create(ctx, newAttempt("u1", i, skill, boolPtr(i%2 == 0))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	r.Create(ctx, newAttempt("u2", 99, "Circles", nil))

	recent, err := r.ListRecent(ctx, "u1", 4)
	if err != nil || len(recent) != 4 || recent[0].CreateDate != 1007 {
		t.Fatalf("ListRecent = %v, %v", recent, err)
	}

	seen := map[string]bool{}
	cursor := ""
	for {
		page, err := r.Paginate(ctx, "u1", AttemptFilter{Skill: "Circles"}, 3, cursor)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		for _, a := range page.Page {
			if a.Skill != "Circles" || a.UserID != "u1" || seen[a.ID] {
				t.Fatalf("unexpected attempt %+v", a)
			}
			seen[a.ID] = true
		}
		if page.IsDone {
			break
		}
		cursor = page.ContinueCursor
	}
	if len(seen) != 10 {
		t.Fatalf("saw %d Circles attempts", len(seen))
	}

	page, _ := r.Paginate(ctx, "u1", AttemptFilter{Domain: "Expression of Ideas"}, 50, "")
	if len(page.Page) != 5 || !page.IsDone {
		t.Fatalf("domain page = %d", len(page.Page))
	}

	total := 0
	err = r.ForEachBatch(ctx, "u1", 4, func(batch []model.Attempt) error {
		total += len(batch)
		return nil
	})
	if err != nil || total != 15 {
		t.Fatalf("ForEachBatch total = %d, %v", total, err)
	}
}
