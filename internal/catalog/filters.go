// Package catalog is the question catalog query engine: driving-index
// selection, over-fetch pagination, bounded counting and the pure derivation
// of a query from client view state.
package catalog

import (
	"errors"
	"fmt"
	"sat_practice_backend/internal/model"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Field names a filterable question attribute. Values match the stored column
// names so a Store can translate predicates without a lookup table per call.
type Field string

const (
	FieldQuestionID Field = "question_id"
	FieldSkill      Field = "skill"
	FieldDomain     Field = "domain"
	FieldDifficulty Field = "difficulty"
	FieldProgram    Field = "program"
	FieldSubject    Field = "subject"
	FieldIBN        Field = "ibn"
	FieldExternalID Field = "external_id"
	FieldIsActive   Field = "is_active"
)

// Filters is the optional filter set of list and count. Zero values mean
// "not filtered".
type Filters struct {
	Program       model.Program    `json:"program,omitempty" form:"program"`
	Subject       model.Subject    `json:"subject,omitempty" form:"subject"`
	Domain        model.Domain     `json:"domain,omitempty" form:"domain"`
	Difficulty    model.Difficulty `json:"difficulty,omitempty" form:"difficulty"`
	Skill         model.Skill      `json:"skill,omitempty" form:"skill"`
	IBNOnly       bool             `json:"ibnOnly,omitempty" form:"ibnOnly"`
	HasExternalID bool             `json:"hasExternalId,omitempty" form:"hasExternalId"`
	OnlyInactive  bool             `json:"onlyInactive,omitempty" form:"onlyInactive"`
	QuestionID    string           `json:"questionId,omitempty" form:"questionId"`
}

// Validate checks every enum filter against the taxonomy vocabularies. It does
// not check subject/domain/skill compatibility: an incompatible pair is a
// valid query that matches nothing.
func (f Filters) Validate(t *model.Taxonomy) error {
	switch {
	case f.Program != "" && !t.IsProgram(f.Program):
		return fmt.Errorf("%w: unknown program %q", ErrInvalidFilter, f.Program)
	case f.Subject != "" && !t.IsSubject(f.Subject):
		return fmt.Errorf("%w: unknown subject %q", ErrInvalidFilter, f.Subject)
	case f.Domain != "" && !t.IsDomain(f.Domain):
		return fmt.Errorf("%w: unknown domain %q", ErrInvalidFilter, f.Domain)
	case f.Difficulty != "" && !t.IsDifficulty(f.Difficulty):
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidFilter, f.Difficulty)
	case f.Skill != "" && !t.IsSkill(f.Skill):
		return fmt.Errorf("%w: unknown skill %q", ErrInvalidFilter, f.Skill)
	}
	return nil
}

// Matches reports whether q satisfies every filter in f.
func (f Filters) Matches(q *model.Question) bool {
	switch {
	case f.QuestionID != "" && q.QuestionID != f.QuestionID:
		return false
	case f.Program != "" && q.Program != f.Program:
		return false
	case f.Subject != "" && q.Subject != f.Subject:
		return false
	case f.Domain != "" && q.Domain != f.Domain:
		return false
	case f.Difficulty != "" && q.Difficulty != f.Difficulty:
		return false
	case f.Skill != "" && q.Skill != f.Skill:
		return false
	case f.IBNOnly && q.IBN == nil:
		return false
	case f.HasExternalID && q.ExternalID == nil:
		return false
	case f.OnlyInactive && q.Active():
		return false
	}
	return true
}
