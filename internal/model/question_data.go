package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedQuestionData = errors.New("unsupported question_data shape")
	ErrMultiItemQuestionData   = errors.New("question_data holds more than one item")
)

// QuestionKind is the explicit discriminant of QuestionData. Its values double as
// the SubmissionResult type tags.
type QuestionKind string

const (
	KindIDMcq  QuestionKind = "id_mcq"
	KindIDSpr  QuestionKind = "id_spr"
	KindIbnMcq QuestionKind = "ibn_mcq"
	KindIbnSpr QuestionKind = "ibn_spr"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case KindIDMcq, KindIDSpr, KindIbnMcq, KindIbnSpr:
		return true
	}
	return false
}

const (
	idTypeMCQ = "mcq"
	idTypeSPR = "spr"

	IbnStyleMultipleChoice = "Multiple Choice"
	IbnStyleSPR            = "SPR"
)

// IDOption is one answer option of an ID-style multiple-choice question.
type IDOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// IDQuestion is the body of a question from the primary item bank.
type IDQuestion struct {
	Stem          string     `json:"stem"`
	Keys          []string   `json:"keys,omitempty"`
	Rationale     string     `json:"rationale"`
	ExternalID    string     `json:"externalid"`
	CorrectAnswer []string   `json:"correct_answer"`
	Origin        string     `json:"origin,omitempty"`
	TemplateID    string     `json:"templateid,omitempty"`
	VaultID       string     `json:"vaultid,omitempty"`
	Stimulus      string     `json:"stimulus,omitempty"`
	AnswerOptions []IDOption `json:"answerOptions,omitempty"`
}

type IbnChoice struct {
	Body string `json:"body"`
}

// IbnAnswer is either a multiple-choice answer (Choices and CorrectChoice set) or
// an SPR answer carrying only a rationale.
type IbnAnswer struct {
	Style         string               `json:"style"`
	Choices       map[string]IbnChoice `json:"choices,omitempty"`
	CorrectChoice string               `json:"correct_choice,omitempty"`
	Rationale     string               `json:"rationale"`
}

// IbnItem is the body of a question from the secondary reference bank.
type IbnItem struct {
	ItemID    string    `json:"item_id"`
	Section   string    `json:"section"`
	Body      string    `json:"body,omitempty"`
	Prompt    string    `json:"prompt"`
	Answer    IbnAnswer `json:"answer"`
	Objective string    `json:"objective,omitempty"`
}

// QuestionData is the stored question body. Kind decides which of ID and Ibn is
// populated: ID for id_mcq and id_spr, Ibn for ibn_mcq and ibn_spr.
type QuestionData struct {
	Kind QuestionKind `json:"kind"`
	ID   *IDQuestion  `json:"id,omitempty"`
	Ibn  *IbnItem     `json:"ibn,omitempty"`
}

func (d QuestionData) Rationale() string {
	switch {
	case d.ID != nil:
		return d.ID.Rationale
	case d.Ibn != nil:
		return d.Ibn.Answer.Rationale
	}
	return ""
}

type questionDataProbe struct {
	Type   *string `json:"type"`
	Answer *struct {
		Style string `json:"style"`
	} `json:"answer"`
}

// ParseQuestionData reads a question_data value in the dataset's native form and
// tags it with its kind. A single-element array is unwrapped; longer arrays are
// rejected with ErrMultiItemQuestionData.
func ParseQuestionData(raw json.RawMessage) (QuestionData, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return QuestionData{}, fmt.Errorf("%w: %v", ErrUnsupportedQuestionData, err)
		}
		switch len(items) {
		case 0:
			return QuestionData{}, fmt.Errorf("%w: empty array", ErrUnsupportedQuestionData)
		case 1:
			raw = items[0]
		default:
			return QuestionData{}, fmt.Errorf("%w (%d items)", ErrMultiItemQuestionData, len(items))
		}
	}

	var probe questionDataProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return QuestionData{}, fmt.Errorf("%w: %v", ErrUnsupportedQuestionData, err)
	}

	switch {
	case probe.Type != nil:
		return parseIDQuestion(raw, *probe.Type)
	case probe.Answer != nil:
		return parseIbnItem(raw, probe.Answer.Style)
	}
	return QuestionData{}, fmt.Errorf("%w: neither type nor answer present", ErrUnsupportedQuestionData)
}

func parseIDQuestion(raw json.RawMessage, typ string) (QuestionData, error) {
	switch typ {
	case idTypeMCQ:
		var q IDQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			return QuestionData{}, fmt.Errorf("%w: %v", ErrUnsupportedQuestionData, err)
		}
		return QuestionData{Kind: KindIDMcq, ID: &q}, nil
	case idTypeSPR:
		// SPR items may carry arbitrary answerOptions; they are not used.
		var q struct {
			IDQuestion
			AnswerOptions json.RawMessage `json:"answerOptions"`
		}
		if err := json.Unmarshal(raw, &q); err != nil {
			return QuestionData{}, fmt.Errorf("%w: %v", ErrUnsupportedQuestionData, err)
		}
		body := q.IDQuestion
		body.AnswerOptions = nil
		return QuestionData{Kind: KindIDSpr, ID: &body}, nil
	}
	return QuestionData{}, fmt.Errorf("%w: unknown type %q", ErrUnsupportedQuestionData, typ)
}

func parseIbnItem(raw json.RawMessage, style string) (QuestionData, error) {
	var item IbnItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return QuestionData{}, fmt.Errorf("%w: %v", ErrUnsupportedQuestionData, err)
	}
	switch style {
	case IbnStyleMultipleChoice:
		return QuestionData{Kind: KindIbnMcq, Ibn: &item}, nil
	case IbnStyleSPR:
		item.Answer.Choices = nil
		item.Answer.CorrectChoice = ""
		return QuestionData{Kind: KindIbnSpr, Ibn: &item}, nil
	}
	return QuestionData{}, fmt.Errorf("%w: unknown answer style %q", ErrUnsupportedQuestionData, style)
}
