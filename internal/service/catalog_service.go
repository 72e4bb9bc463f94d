package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/pkg/logger"
	"sat_practice_backend/pkg/monitoring"
	"sat_practice_backend/pkg/tracing"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	catalogVersionKey     = "catalog:version"
	catalogChangedChannel = "catalog:changed"
)

// CountResult is a bounded count. Capped means "more than Cap".
type CountResult struct {
	Count  int  `json:"count"`
	Cap    int  `json:"cap"`
	Capped bool `json:"capped"`
}

// CatalogService serves catalog reads through a versioned redis cache. Every
// catalog mutation bumps the version, so stale entries are never read and
// simply expire.
type CatalogService struct {
	engine   *catalog.Engine
	redis    *redis.Client
	ttl      atomic.Int64
	mu       sync.RWMutex
	onChange []func()
}

func NewCatalogService(repo *repository.QuestionRepository, rdb *redis.Client, cfg config.CatalogConfig) *CatalogService {
	s := &CatalogService{
		engine: catalog.NewEngine(repo, cfg.CountCap),
		redis:  rdb,
	}
	s.SetCacheTTL(cfg.CacheTTL())
	return s
}

// SetCacheTTL changes the TTL of new cache entries. Zero disables caching.
func (s *CatalogService) SetCacheTTL(d time.Duration) {
	s.ttl.Store(int64(d))
}

func (s *CatalogService) cacheTTL() time.Duration {
	if s.redis == nil {
		return 0
	}
	return time.Duration(s.ttl.Load())
}

func (s *CatalogService) CountCap() int {
	return s.engine.CountCap()
}

func (s *CatalogService) List(ctx context.Context, req catalog.QueryRequest) (catalog.ListResult, error) {
	if err := req.Filters.Validate(model.SAT); err != nil {
		return catalog.ListResult{}, err
	}
	scan := req.Scan()
	ctx, span := tracing.StartSpan(ctx, "catalog.list", "index", scan.Index.Index)
	defer span.End()

	var out catalog.ListResult
	key := s.cacheKey(ctx, "list", req)
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	monitoring.CatalogScans.WithLabelValues("list", scan.Index.Index).Inc()
	out, err := s.engine.List(ctx, req)
	if err != nil {
		span.RecordError(err)
		return out, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *CatalogService) Count(ctx context.Context, f catalog.Filters) (CountResult, error) {
	if err := f.Validate(model.SAT); err != nil {
		return CountResult{}, err
	}
	idx := catalog.SelectIndex(f)
	ctx, span := tracing.StartSpan(ctx, "catalog.count", "index", idx.Index)
	defer span.End()

	capN := s.engine.CountCap()
	var n int
	key := s.cacheKey(ctx, "count", f)
	if !s.cacheGet(ctx, key, &n) {
		monitoring.CatalogScans.WithLabelValues("count", idx.Index).Inc()
		var err error
		n, err = s.engine.Count(ctx, f)
		if err != nil {
			span.RecordError(err)
			return CountResult{}, err
		}
		s.cacheSet(ctx, key, n)
	}
	res := CountResult{Count: n, Cap: capN, Capped: n > capN}
	if res.Capped {
		monitoring.CatalogCountCapped.Inc()
	}
	return res, nil
}

// GetByQuestionID returns nil when the question does not exist.
func (s *CatalogService) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	return s.engine.GetByQuestionID(ctx, questionID)
}

// OnChange registers fn to run after every catalog change, including changes
// made by other instances when redis is enabled.
func (s *CatalogService) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *CatalogService) fireChange() {
	s.mu.RLock()
	fns := append([]func(){}, s.onChange...)
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// NotifyChanged invalidates cached reads and tells subscribers to re-run
// their queries.
func (s *CatalogService) NotifyChanged(ctx context.Context) {
	if s.redis == nil {
		s.fireChange()
		return
	}
	version, err := s.redis.Incr(ctx, catalogVersionKey).Result()
	if err != nil {
		logger.Log.Error("Failed to bump catalog version", zap.Error(err))
	}
	if err := s.redis.Publish(ctx, catalogChangedChannel, strconv.FormatInt(version, 10)).Err(); err != nil {
		logger.Log.Error("Failed to publish catalog change", zap.Error(err))
		s.fireChange()
	}
}

// Run relays catalog change events from redis to local listeners until ctx is
// done. Without redis it only waits.
func (s *CatalogService) Run(ctx context.Context) {
	if s.redis == nil {
		<-ctx.Done()
		return
	}
	pubsub := s.redis.Subscribe(ctx, catalogChangedChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			logger.Log.Debug("Catalog changed", zap.String("version", msg.Payload))
			s.fireChange()
		}
	}
}

func (s *CatalogService) version(ctx context.Context) (int64, error) {
	v, err := s.redis.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// cacheKey returns "" when caching is off or the version is unreadable.
func (s *CatalogService) cacheKey(ctx context.Context, op string, params interface{}) string {
	if s.cacheTTL() <= 0 {
		return ""
	}
	v, err := s.version(ctx)
	if err != nil {
		logger.Log.Warn("Catalog cache version unavailable", zap.Error(err))
		return ""
	}
	b, _ := json.Marshal(params)
	sum := sha1.Sum(b)
	return fmt.Sprintf("catalog:v%d:%s:%s", v, op, hex.EncodeToString(sum[:]))
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if key == "" {
		return false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Catalog cache read failed", zap.Error(err))
		}
		monitoring.CatalogCacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		monitoring.CatalogCacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	monitoring.CatalogCacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v interface{}) {
	if key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL()).Err(); err != nil {
		logger.Log.Warn("Catalog cache write failed", zap.Error(err))
	}
}
