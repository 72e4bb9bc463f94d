package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidSubmissionResult = errors.New("invalid submission result")

type IDMcqResult struct {
	SelectedOptionID *string  `json:"selectedOptionId"`
	SelectedKey      *string  `json:"selectedKey"`
	CorrectOptionIDs []string `json:"correctOptionIds"`
	CorrectKeys      []string `json:"correctKeys"`
	IsCorrect        bool     `json:"isCorrect"`
	Rationale        string   `json:"rationale,omitempty"`
}

type IDSprResult struct {
	Input           string   `json:"input"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
	IsCorrect       bool     `json:"isCorrect"`
	Rationale       string   `json:"rationale,omitempty"`
}

type IbnMcqResult struct {
	SelectedKey *string `json:"selectedKey"`
	CorrectKey  string  `json:"correctKey"`
	IsCorrect   bool    `json:"isCorrect"`
	Rationale   string  `json:"rationale,omitempty"`
}

// IbnSprResult has no verdict: the item carries no machine-checkable answer.
type IbnSprResult struct {
	Input     string `json:"input"`
	Rationale string `json:"rationale,omitempty"`
}

// SubmissionResult is a graded submission. Exactly one variant is set; on the
// wire it is a flat object tagged by "type".
type SubmissionResult struct {
	IDMcq  *IDMcqResult
	IDSpr  *IDSprResult
	IbnMcq *IbnMcqResult
	IbnSpr *IbnSprResult
}

func (r SubmissionResult) Type() QuestionKind {
	switch {
	case r.IDMcq != nil:
		return KindIDMcq
	case r.IDSpr != nil:
		return KindIDSpr
	case r.IbnMcq != nil:
		return KindIbnMcq
	case r.IbnSpr != nil:
		return KindIbnSpr
	}
	return ""
}

// IsCorrect returns nil for ungradable results.
func (r SubmissionResult) IsCorrect() *bool {
	var v bool
	switch {
	case r.IDMcq != nil:
		v = r.IDMcq.IsCorrect
	case r.IDSpr != nil:
		v = r.IDSpr.IsCorrect
	case r.IbnMcq != nil:
		v = r.IbnMcq.IsCorrect
	default:
		return nil
	}
	return &v
}

func (r SubmissionResult) variants() int {
	n := 0
	for _, set := range []bool{r.IDMcq != nil, r.IDSpr != nil, r.IbnMcq != nil, r.IbnSpr != nil} {
		if set {
			n++
		}
	}
	return n
}

func (r SubmissionResult) Validate() error {
	if n := r.variants(); n != 1 {
		return fmt.Errorf("%w: %d variants set", ErrInvalidSubmissionResult, n)
	}
	return nil
}

func (r SubmissionResult) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	switch {
	case r.IDMcq != nil:
		v := *r.IDMcq
		if v.CorrectOptionIDs == nil {
			v.CorrectOptionIDs = []string{}
		}
		if v.CorrectKeys == nil {
			v.CorrectKeys = []string{}
		}
		return json.Marshal(struct {
			Type QuestionKind `json:"type"`
			IDMcqResult
		}{KindIDMcq, v})
	case r.IDSpr != nil:
		v := *r.IDSpr
		if v.AcceptedAnswers == nil {
			v.AcceptedAnswers = []string{}
		}
		return json.Marshal(struct {
			Type QuestionKind `json:"type"`
			IDSprResult
		}{KindIDSpr, v})
	case r.IbnMcq != nil:
		return json.Marshal(struct {
			Type QuestionKind `json:"type"`
			IbnMcqResult
		}{KindIbnMcq, *r.IbnMcq})
	default:
		return json.Marshal(struct {
			Type      QuestionKind `json:"type"`
			IsCorrect *bool        `json:"isCorrect"`
			IbnSprResult
		}{KindIbnSpr, nil, *r.IbnSpr})
	}
}

func (r *SubmissionResult) UnmarshalJSON(data []byte) error {
	var head struct {
		Type      QuestionKind    `json:"type"`
		IsCorrect json.RawMessage `json:"isCorrect"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmissionResult, err)
	}

	*r = SubmissionResult{}
	var err error
	switch head.Type {
	case KindIDMcq:
		r.IDMcq = &IDMcqResult{}
		err = json.Unmarshal(data, r.IDMcq)
	case KindIDSpr:
		r.IDSpr = &IDSprResult{}
		err = json.Unmarshal(data, r.IDSpr)
	case KindIbnMcq:
		r.IbnMcq = &IbnMcqResult{}
		err = json.Unmarshal(data, r.IbnMcq)
	case KindIbnSpr:
		if len(head.IsCorrect) > 0 && string(head.IsCorrect) != "null" {
			return fmt.Errorf("%w: ibn_spr results carry no verdict", ErrInvalidSubmissionResult)
		}
		r.IbnSpr = &IbnSprResult{}
		err = json.Unmarshal(data, r.IbnSpr)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSubmissionResult, head.Type)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmissionResult, err)
	}
	return nil
}
