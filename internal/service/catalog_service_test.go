package service

import (
	"context"
	"errors"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/util"
	"testing"
	"time"
)

func TestCatalogServiceListAndCount(t *testing.T) {
	repo := repository.NewQuestionRepository(newTestDB(t))
	seedCatalog(t, repo, 12)
	svc := NewCatalogService(repo, nil, config.CatalogConfig{CountCap: 5})
	ctx := context.Background()

	res, err := svc.List(ctx, catalog.DeriveQuery(catalog.ViewState{
		Filters:  catalog.Filters{Skill: "Circles", OnlyInactive: true},
		PageSize: 4,
	}))
	if err != nil || len(res.Rows) != 4 || !res.HasMore {
		t.Fatalf("List = %+v, %v", res, err)
	}
	for _, row := range res.Rows {
		if row.IsActive == nil || *row.IsActive || row.Kind != "id_mcq" {
			t.Fatalf("unexpected row %+v", row)
		}
	}

	count, err := svc.Count(ctx, catalog.Filters{Domain: "Geometry and Trigonometry"})
	if err != nil || count.Count != 6 || !count.Capped || count.Cap != 5 {
		t.Fatalf("capped Count = %+v, %v", count, err)
	}
	count, _ = svc.Count(ctx, catalog.Filters{OnlyInactive: true, Subject: "Math"})
	if count.Count != 6 || !count.Capped {
		t.Fatalf("Count = %+v", count)
	}
	count, _ = svc.Count(ctx, catalog.Filters{QuestionID: "c003", Skill: "Circles"})
	if count.Count != 1 || count.Capped {
		t.Fatalf("questionId count = %+v", count)
	}
	count, _ = svc.Count(ctx, catalog.Filters{QuestionID: "c003", OnlyInactive: true})
	if count.Count != 0 {
		t.Fatalf("questionId with mismatching filter = %+v", count)
	}

	if _, err := svc.List(ctx, catalog.QueryRequest{Filters: catalog.Filters{Skill: "Juggling"}}); !errors.Is(err, util.ErrInvalidFilter) {
		t.Fatalf("unknown skill err = %v", err)
	}
	if _, err := svc.Count(ctx, catalog.Filters{Difficulty: "Impossible"}); !errors.Is(err, util.ErrInvalidFilter) {
		t.Fatalf("unknown difficulty err = %v", err)
	}
}

func TestCatalogServiceCacheInvalidation(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := repository.NewQuestionRepository(newTestDB(t))
	seedCatalog(t, repo, 3)
	svc := NewCatalogService(repo, rdb, config.CatalogConfig{CountCap: 100, CacheTTLSeconds: 60})
	ctx := context.Background()
	f := catalog.Filters{Skill: "Circles"}

	first, err := svc.Count(ctx, f)
	if err != nil || first.Count != 3 {
		t.Fatalf("Count = %+v, %v", first, err)
	}
	if keys := mr.Keys(); len(keys) != 1 {
		t.Fatalf("cache keys after first read = %v", keys)
	}

	// a write without notification is not visible through the cache
	seedMore := NewImportService(repo, nil, nil, config.ImportConfig{BatchSize: 10})
	seedMore.ImportBatch(ctx, []RawQuestion{rawRecord("x1", "E", "Geometry and Trigonometry", "Circles", mcqData)})
	if got, _ := svc.Count(ctx, f); got.Count != 3 {
		t.Fatalf("expected cached count 3, got %+v", got)
	}

	svc.NotifyChanged(ctx)
	if v, _ := mr.Get(catalogVersionKey); v != "1" {
		t.Fatalf("catalog version = %q", v)
	}
	if got, _ := svc.Count(ctx, f); got.Count != 4 {
		t.Fatalf("count after invalidation = %+v", got)
	}

	svc.SetCacheTTL(0)
	seedMore.ImportBatch(ctx, []RawQuestion{rawRecord("x2", "E", "Geometry and Trigonometry", "Circles", mcqData)})
	if got, _ := svc.Count(ctx, f); got.Count != 5 {
		t.Fatalf("uncached count = %+v", got)
	}
}

func TestCatalogServiceRelaysChangesFromRedis(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := repository.NewQuestionRepository(newTestDB(t))
	svc := NewCatalogService(repo, rdb, config.CatalogConfig{CountCap: 100})

	fired := make(chan struct{}, 4)
	svc.OnChange(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	deadline := time.After(3 * time.Second)
	for {
		// the subscription is asynchronous; publish until it is live
		svc.NotifyChanged(context.Background())
		select {
		case <-fired:
			return
		case <-deadline:
			t.Fatalf("change was not relayed")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestCatalogServiceWithoutRedisFiresLocally(t *testing.T) {
	repo := repository.NewQuestionRepository(newTestDB(t))
	svc := NewCatalogService(repo, nil, config.CatalogConfig{CountCap: 100, CacheTTLSeconds: 30})
	n := 0
	svc.OnChange(func() { n++ })
	svc.NotifyChanged(context.Background())
	if n != 1 {
		t.Fatalf("listeners fired %d times", n)
	}
}
