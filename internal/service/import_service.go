package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/util"
	"sat_practice_backend/pkg/logger"
	"sat_practice_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RawQuestion is one record of the upstream question bank export.
type RawQuestion struct {
	QuestionID         string          `json:"questionId" validate:"required"`
	UID                string          `json:"uId"`
	Program            string          `json:"program" validate:"required"`
	SkillCd            string          `json:"skill_cd"`
	SkillDesc          string          `json:"skill_desc" validate:"required"`
	PrimaryClassCd     string          `json:"primary_class_cd"`
	PrimaryClassCdDesc string          `json:"primary_class_cd_desc" validate:"required"`
	Difficulty         string          `json:"difficulty" validate:"required"`
	ScoreBandRangeCd   *int            `json:"score_band_range_cd"`
	IBN                string          `json:"ibn"`
	ExternalID         string          `json:"external_id"`
	QuestionData       json.RawMessage `json:"question_data" validate:"required"`
	CreateDate         int64           `json:"createDate" validate:"gte=0"`
	UpdateDate         int64           `json:"updateDate" validate:"gte=0"`
}

var difficultyCodes = map[string]model.Difficulty{
	"H": "Hard",
	"M": "Medium",
	"E": "Easy",
}

// ImportResult reports one import run. Duplicates are skipped, not failed.
type ImportResult struct {
	TotalProcessed       int      `json:"totalProcessed"`
	SuccessfullyImported int      `json:"successfullyImported"`
	Skipped              int      `json:"skipped"`
	Errors               []string `json:"errors"`
	ReportURL            string   `json:"reportUrl,omitempty"`
}

type ImportService struct {
	Questions *repository.QuestionRepository
	Catalog   *CatalogService
	Storage   *StorageService
	cfg       config.ImportConfig
	validate  *validator.Validate
}

func NewImportService(questions *repository.QuestionRepository, catalogSvc *CatalogService, storage *StorageService, cfg config.ImportConfig) *ImportService {
	return &ImportService{
		Questions: questions,
		Catalog:   catalogSvc,
		Storage:   storage,
		cfg:       cfg,
		validate:  validator.New(),
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MapRecord converts a raw record into a question. Subject is derived from
// the domain.
func (s *ImportService) MapRecord(raw RawQuestion) (*model.Question, error) {
	if err := s.validate.Struct(raw); err != nil {
		return nil, err
	}
	program := model.Program(raw.Program)
	if !model.SAT.IsProgram(program) {
		return nil, fmt.Errorf("unknown program: %s", raw.Program)
	}
	difficulty, ok := difficultyCodes[raw.Difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownDifficulty, raw.Difficulty)
	}
	domain := model.Domain(raw.PrimaryClassCdDesc)
	subject, ok := model.SAT.SubjectOf(domain)
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownDomain, raw.PrimaryClassCdDesc)
	}
	skill := model.Skill(strings.TrimSpace(raw.SkillDesc))
	if !model.SAT.DomainHasSkill(domain, skill) {
		return nil, fmt.Errorf("%w: %q in %s", util.ErrUnknownSkill, skill, domain)
	}
	data, err := model.ParseQuestionData(raw.QuestionData)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		QuestionID:     raw.QuestionID,
		ScoreBandRange: raw.ScoreBandRangeCd,
		Program:        program,
		Subject:        subject,
		Domain:         domain,
		Skill:          skill,
		Difficulty:     difficulty,
		IBN:            emptyToNil(raw.IBN),
		ExternalID:     emptyToNil(raw.ExternalID),
		QuestionData:   datatypes.NewJSONType(data),
	}
	q.CreateDate = raw.CreateDate
	q.UpdateDate = raw.UpdateDate
	return q, nil
}

// ImportBatch maps and inserts records in chunks of import.batch_size. A
// failing record is reported and skipped; the run continues.
func (s *ImportService) ImportBatch(ctx context.Context, raws []RawQuestion) (ImportResult, error) {
	res := ImportResult{TotalProcessed: len(raws), Errors: []string{}}
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(raws); start += batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		end := start + batchSize
		if end > len(raws) {
			end = len(raws)
		}
		for _, raw := range raws[start:end] {
			s.importOne(ctx, raw, &res)
		}
		logger.Log.Info("Import batch done",
			zap.Int("batch", start/batchSize+1),
			zap.Int("imported", res.SuccessfullyImported),
			zap.Int("skipped", res.Skipped),
			zap.Int("errors", len(res.Errors)))
	}

	if res.SuccessfullyImported > 0 && s.Catalog != nil {
		s.Catalog.NotifyChanged(ctx)
	}
	if len(res.Errors) > 0 && s.Storage != nil {
		url, err := s.writeReport(ctx, res.Errors)
		if err != nil {
			logger.Log.Error("Failed to store import report", zap.Error(err))
		} else {
			res.ReportURL = url
		}
	}
	return res, nil
}

func (s *ImportService) importOne(ctx context.Context, raw RawQuestion, res *ImportResult) {
	q, err := s.MapRecord(raw)
	if err == nil {
		var inserted bool
		inserted, err = s.Questions.InsertIfAbsent(ctx, q)
		if err == nil {
			if inserted {
				res.SuccessfullyImported++
				monitoring.ImportRecords.WithLabelValues("imported").Inc()
			} else {
				res.Skipped++
				monitoring.ImportRecords.WithLabelValues("skipped").Inc()
			}
			return
		}
	}
	res.Errors = append(res.Errors, fmt.Sprintf("Failed to import question %s: %v", raw.QuestionID, err))
	monitoring.ImportRecords.WithLabelValues("failed").Inc()
}

// ImportJSON decodes a JSON array of raw records and imports it.
func (s *ImportService) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var raws []RawQuestion
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", util.ErrMalformedImport, err)
	}
	return s.ImportBatch(ctx, raws)
}

func (s *ImportService) writeReport(ctx context.Context, errs []string) (string, error) {
	body := []byte(strings.Join(errs, "\n") + "\n")
	key := fmt.Sprintf("%s/import-%s.txt", s.cfg.ReportPrefix, time.Now().UTC().Format("20060102T150405.000"))
	return s.Storage.Put(ctx, key, bytes.NewReader(body), int64(len(body)), util.MimeTextPlain)
}
