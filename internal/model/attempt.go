package model

import (
	"gorm.io/datatypes"
)

// Attempt is one graded submission. Rows are append-only; the classification
// fields are copied from the question when the attempt is recorded.
type Attempt struct {
	UUIDBase
	UserID      string                               `gorm:"column:user_id;size:128;not null;index:idx_attempt_user_created,priority:1" json:"userId"`
	QuestionRef uint                                 `gorm:"column:question_ref;not null;index" json:"questionRef"`
	QuestionID  string                               `gorm:"column:question_id;size:64;not null" json:"questionId"`
	Subject     Subject                              `gorm:"size:64;index" json:"subject"`
	Domain      Domain                               `gorm:"size:64;index" json:"domain"`
	Difficulty  Difficulty                           `gorm:"size:16" json:"difficulty"`
	Skill       Skill                                `gorm:"size:128;index" json:"skill"`
	Result      datatypes.JSONType[SubmissionResult] `gorm:"column:result" json:"result"`
	ResultType  QuestionKind                         `gorm:"column:result_type;size:16" json:"resultType"`
	IsCorrect   *bool                                `gorm:"column:is_correct" json:"isCorrect"`
	CreateDate  int64                                `gorm:"column:create_date;not null;index:idx_attempt_user_created,priority:2" json:"createDate"`
	UpdateDate  int64                                `gorm:"column:update_date" json:"updateDate"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AttemptSummary is the list projection of an Attempt. It omits the result.
type AttemptSummary struct {
	ID         string       `json:"_id"`
	QuestionID string       `json:"questionId"`
	Subject    Subject      `json:"subject"`
	Domain     Domain       `json:"domain"`
	Difficulty Difficulty   `json:"difficulty"`
	Skill      Skill        `json:"skill"`
	ResultType QuestionKind `json:"resultType"`
	IsCorrect  *bool        `json:"isCorrect"`
	CreateDate int64        `json:"createDate"`
	UpdateDate int64        `json:"updateDate"`
}

func (a *Attempt) Summary() AttemptSummary {
	return AttemptSummary{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Subject:    a.Subject,
		Domain:     a.Domain,
		Difficulty: a.Difficulty,
		Skill:      a.Skill,
		ResultType: a.ResultType,
		IsCorrect:  a.IsCorrect,
		CreateDate: a.CreateDate,
		UpdateDate: a.UpdateDate,
	}
}
