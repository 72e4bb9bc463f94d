// Package grading resolves a submission against a question's ground truth. It
// performs no I/O; the same inputs always produce the same result.
package grading

import (
	"errors"
	"fmt"
	"sat_practice_backend/internal/model"
	"strings"
)

var ErrEmptySubmission = errors.New("empty submission")

// Submission is a raw answer. OptionID answers id_mcq, Key answers ibn_mcq and
// Input answers both SPR kinds.
type Submission struct {
	OptionID string `json:"optionId,omitempty"`
	Key      string `json:"key,omitempty"`
	Input    string `json:"input,omitempty"`
}

// Grade dispatches on the question's kind.
func Grade(d model.QuestionData, s Submission) (model.SubmissionResult, error) {
	switch d.Kind {
	case model.KindIDMcq:
		if d.ID == nil {
			break
		}
		if s.OptionID == "" {
			return model.SubmissionResult{}, fmt.Errorf("%w: option id required", ErrEmptySubmission)
		}
		return model.SubmissionResult{IDMcq: gradeIDMcq(d.ID, s.OptionID)}, nil
	case model.KindIDSpr:
		if d.ID == nil {
			break
		}
		if strings.TrimSpace(s.Input) == "" {
			return model.SubmissionResult{}, fmt.Errorf("%w: input required", ErrEmptySubmission)
		}
		return model.SubmissionResult{IDSpr: gradeIDSpr(d.ID, s.Input)}, nil
	case model.KindIbnMcq:
		if d.Ibn == nil {
			break
		}
		if s.Key == "" {
			return model.SubmissionResult{}, fmt.Errorf("%w: choice key required", ErrEmptySubmission)
		}
		return model.SubmissionResult{IbnMcq: gradeIbnMcq(d.Ibn, s.Key)}, nil
	case model.KindIbnSpr:
		if d.Ibn == nil {
			break
		}
		if strings.TrimSpace(s.Input) == "" {
			return model.SubmissionResult{}, fmt.Errorf("%w: input required", ErrEmptySubmission)
		}
		return model.SubmissionResult{IbnSpr: &model.IbnSprResult{Input: s.Input, Rationale: d.Ibn.Answer.Rationale}}, nil
	}
	return model.SubmissionResult{}, fmt.Errorf("%w: kind %q", model.ErrUnsupportedQuestionData, d.Kind)
}

// optionLabels returns the matching label and the display label of every
// option. Declared keys are used for matching only when there is exactly one
// per option; display labels are always the upper-cased option letters.
func optionLabels(q *model.IDQuestion) (match []string, display []string, declared bool) {
	n := len(q.AnswerOptions)
	declared = len(q.Keys) > 0 && len(q.Keys) == n
	match = make([]string, n)
	display = make([]string, n)
	for i := 0; i < n; i++ {
		letter := string(rune('a' + i))
		display[i] = strings.ToUpper(letter)
		if declared {
			match[i] = normalizeKey(q.Keys[i])
		} else {
			match[i] = letter
		}
	}
	return match, display, declared
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeFreeText trims, collapses whitespace runs to one space and
// lower-cases.
func normalizeFreeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// gradeIDMcq accepts the selected option when its id is listed in
// correct_answer or when its label matches a listed token. Datasets encode the
// answer either way.
func gradeIDMcq(q *model.IDQuestion, optionID string) *model.IDMcqResult {
	match, display, declared := optionLabels(q)

	optionIndex := make(map[string]int, len(q.AnswerOptions))
	for i, o := range q.AnswerOptions {
		if _, dup := optionIndex[o.ID]; !dup {
			optionIndex[o.ID] = i
		}
	}

	correctIDs := []string{}
	byID := make(map[string]bool)
	byLabel := make(map[string]bool)
	for _, tok := range q.CorrectAnswer {
		if _, ok := optionIndex[tok]; ok && !byID[tok] {
			byID[tok] = true
			correctIDs = append(correctIDs, tok)
		}
		byLabel[normalizeKey(tok)] = true
	}

	correctKeys := []string{}
	for i, lab := range match {
		if byLabel[lab] {
			correctKeys = append(correctKeys, display[i])
		}
	}

	res := &model.IDMcqResult{
		SelectedOptionID: &optionID,
		CorrectOptionIDs: correctIDs,
		CorrectKeys:      correctKeys,
		Rationale:        q.Rationale,
	}
	idx, ok := optionIndex[optionID]
	if !ok {
		return res
	}
	key := display[idx]
	if declared {
		key = q.Keys[idx]
	}
	res.SelectedKey = &key
	res.IsCorrect = byID[optionID] || byLabel[match[idx]]
	return res
}

func gradeIDSpr(q *model.IDQuestion, input string) *model.IDSprResult {
	accepted := append([]string{}, q.CorrectAnswer...)
	correct := false
	want := normalizeFreeText(input)
	for _, a := range accepted {
		if normalizeFreeText(a) == want {
			correct = true
			break
		}
	}
	return &model.IDSprResult{
		Input:           input,
		AcceptedAnswers: accepted,
		IsCorrect:       correct,
		Rationale:       q.Rationale,
	}
}

// gradeIbnMcq compares letters exactly; the reference bank's keys are canonical.
func gradeIbnMcq(item *model.IbnItem, key string) *model.IbnMcqResult {
	return &model.IbnMcqResult{
		SelectedKey: &key,
		CorrectKey:  item.Answer.CorrectChoice,
		IsCorrect:   key == item.Answer.CorrectChoice,
		Rationale:   item.Answer.Rationale,
	}
}
