package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// NewMissingFieldError reports a required request field that was absent.
func NewMissingFieldError(field string) *AppError {
	return &AppError{
		Code:       "MISSING_FIELD",
		Message:    fmt.Sprintf("%s is required", field),
		StatusCode: 400,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrProfileNotFound = &AppError{
		Code:       "PROFILE_NOT_FOUND",
		Message:    "ID number not found in database",
		StatusCode: 404,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceInCaptured = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face found in the captured image",
		StatusCode: 422,
	}

	ErrNoFaceInIDPhoto = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face found in the ID photo",
		StatusCode: 422,
	}

	ErrImageLoadFailure = &AppError{
		Code:       "IMAGE_LOAD_FAILURE",
		Message:    "Failed to load the enrolled ID photo",
		StatusCode: 500,
	}

	ErrTimeout = &AppError{
		Code:       "TIMEOUT",
		Message:    "Verification timed out",
		StatusCode: 504,
	}

	ErrExtractorUnavailable = &AppError{
		Code:       "EXTRACTOR_UNAVAILABLE",
		Message:    "Face embedding service unavailable",
		StatusCode: 502,
	}
)
