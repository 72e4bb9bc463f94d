package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/pkg/database"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
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

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

const mcqData = `{"type":"mcq","stem":"Pick one","keys":["A","B"],"rationale":"B is right","externalid":"ext","correct_answer":["B"],"answerOptions":[{"id":"o1","content":"1"},{"id":"o2","content":"2"}]}`

const ibnSprData = `{"item_id":"i9","section":"Math","prompt":"Solve","answer":{"style":"SPR","rationale":"x = 4"}}`

func rawRecord(id, difficulty, domain, skill, data string) RawQuestion {
	return RawQuestion{
		QuestionID:         id,
		Program:            "SAT",
		SkillDesc:          skill,
		PrimaryClassCdDesc: domain,
		Difficulty:         difficulty,
		ExternalID:         "ext-" + id,
		QuestionData:       json.RawMessage(data),
		CreateDate:         1700000000000,
		UpdateDate:         1700000000000,
	}
}

// seedCatalog inserts n Circles questions, the even ones inactive.
func seedCatalog(t *testing.T, repo *repository.QuestionRepository, n int) {
	t.Helper()
	imp := NewImportService(repo, nil, nil, config.ImportConfig{BatchSize: 10})
	raws := make([]RawQuestion, 0, n)
	for i := 0; i < n; i++ {
		raws = append(raws, rawRecord(fmt.Sprintf("c%03d", i), "M", "Geometry and Trigonometry", "Circles ", mcqData))
	}
	res, err := imp.ImportBatch(context.Background(), raws)
	if err != nil || res.SuccessfullyImported != n {
		t.Fatalf("seed import = %+v, %v", res, err)
	}
	var ids []string
	for i := 0; i < n; i += 2 {
		ids = append(ids, fmt.Sprintf("c%03d", i))
	}
	if _, _, err := repo.SetActive(context.Background(), ids, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
}

func boolPtr(b bool) *bool { return &b }

func mustQuestion(t *testing.T, repo *repository.QuestionRepository, id string) *model.Question {
	t.Helper()
	q, err := repo.GetByQuestionID(context.Background(), id)
	if err != nil || q == nil {
		t.Fatalf("GetByQuestionID(%s) = %v, %v", id, q, err)
	}
	return q
}
