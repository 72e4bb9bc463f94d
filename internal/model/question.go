package model

import (
	"gorm.io/datatypes"
)

// Question is a catalog entry. QuestionID is unique by import policy only; the
// column carries a plain index.
type Question struct {
	ID             uint                             `gorm:"primaryKey" json:"_id"`
	QuestionID     string                           `gorm:"column:question_id;size:64;index;not null" json:"questionId"`
	ScoreBandRange *int                             `gorm:"column:score_band_range" json:"scoreBandRange,omitempty"`
	Program        Program                          `gorm:"size:16;index" json:"program"`
	Subject        Subject                          `gorm:"size:64;index" json:"subject"`
	Domain         Domain                           `gorm:"size:64;index" json:"domain"`
	Skill          Skill                            `gorm:"size:128;index" json:"skill"`
	Difficulty     Difficulty                       `gorm:"size:16;index" json:"difficulty"`
	IBN            *string                          `gorm:"column:ibn;size:64;index" json:"ibn"`
	ExternalID     *string                          `gorm:"column:external_id;size:64;index" json:"external_id"`
	IsActive       *bool                            `gorm:"column:is_active" json:"isActive,omitempty"`
	QuestionData   datatypes.JSONType[QuestionData] `gorm:"column:question_data" json:"question_data"`
	EpochTimestamps
}

func (Question) TableName() string {
	return "questions"
}

// Active treats an absent flag as active.
func (q *Question) Active() bool {
	return q.IsActive == nil || *q.IsActive
}

// QuestionSummary is the list projection of a Question. It omits question_data.
type QuestionSummary struct {
	ID             uint       `json:"_id"`
	QuestionID     string     `json:"questionId"`
	ScoreBandRange *int       `json:"scoreBandRange,omitempty"`
	Program        Program    `json:"program"`
	Subject        Subject    `json:"subject"`
	Domain         Domain     `json:"domain"`
	Skill          Skill      `json:"skill"`
	Difficulty     Difficulty `json:"difficulty"`
	IBN            *string    `json:"ibn"`
	ExternalID     *string    `json:"external_id"`
	IsActive       *bool      `json:"isActive,omitempty"`
	Kind           string     `json:"kind"`
	CreateDate     int64      `json:"createDate"`
	UpdateDate     int64      `json:"updateDate"`
}

func (q *Question) Summary() QuestionSummary {
	return QuestionSummary{
		ID:             q.ID,
		QuestionID:     q.QuestionID,
		ScoreBandRange: q.ScoreBandRange,
		Program:        q.Program,
		Subject:        q.Subject,
		Domain:         q.Domain,
		Skill:          q.Skill,
		Difficulty:     q.Difficulty,
		IBN:            q.IBN,
		ExternalID:     q.ExternalID,
		IsActive:       q.IsActive,
		Kind:           string(q.QuestionData.Data().Kind),
		CreateDate:     q.CreateDate,
		UpdateDate:     q.UpdateDate,
	}
}
