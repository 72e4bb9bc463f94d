package util

import (
	"errors"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/grading"
	"sat_practice_backend/internal/model"
)

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrUnknownDomain      = errors.New("unknown domain")
	ErrUnknownDifficulty  = errors.New("unknown difficulty")
	ErrUnknownSkill       = errors.New("unknown skill")
	ErrResultTypeMismatch = errors.New("result type does not match question kind")
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrMalformedImport    = errors.New("malformed import file")

	ErrUnsupportedQuestionData = model.ErrUnsupportedQuestionData
	ErrMultiItemQuestionData   = model.ErrMultiItemQuestionData
	ErrInvalidSubmissionResult = model.ErrInvalidSubmissionResult
	ErrEmptySubmission         = grading.ErrEmptySubmission
	ErrInvalidFilter           = catalog.ErrInvalidFilter
)

// IsValidationError reports whether err is caused by client input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidFilter,
		ErrInvalidCursor,
		ErrMalformedImport,
		ErrEmptySubmission,
		ErrResultTypeMismatch,
		ErrInvalidSubmissionResult,
		ErrUnsupportedQuestionData,
		ErrMultiItemQuestionData,
		ErrUnknownDomain,
		ErrUnknownDifficulty,
		ErrUnknownSkill,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
