// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBrandNotFound      ErrorCode = "BRAND_NOT_FOUND"
	ErrCodePreferenceNotFound ErrorCode = "BRAND_PREFERENCE_NOT_FOUND"
	ErrCodeCreatorNotFound    ErrorCode = "CREATOR_NOT_FOUND"

	ErrCodeUpstreamFetchFailed ErrorCode = "UPSTREAM_FETCH_FAILED"
	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"

	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeCacheConnectionFailed         ErrorCode = "CACHE_CONNECTION_FAILED"
	ErrCodeExternalService               ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape every worker reports to the workflow engine.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 2. Constructors
// ==========================

func NewBrandNotFoundError(brandID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrandNotFound,
		Message:   "Brand profile not found",
		Details:   fmt.Sprintf("brandId: %s", brandID),
		Retryable: false,
		Metadata:  map[string]interface{}{"brandId": brandID},
		Timestamp: time.Now().UTC(),
	}
}

func NewPreferenceNotFoundError(brandID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePreferenceNotFound,
		Message:   "Brand preference not found",
		Details:   fmt.Sprintf("brandId: %s", brandID),
		Retryable: false,
		Metadata:  map[string]interface{}{"brandId": brandID},
		Timestamp: time.Now().UTC(),
	}
}

func NewCreatorNotFoundError(creatorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCreatorNotFound,
		Message:   "Published creator not found",
		Details:   fmt.Sprintf("creatorId: %s", creatorID),
		Retryable: false,
		Metadata:  map[string]interface{}{"creatorId": creatorID},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamFetchFailedError reports a failed collaborator read. source names
// the collaborator ("brand_profile", "creator_pool", "metrics", ...).
func NewUpstreamFetchFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamFetchFailed,
		Message:   fmt.Sprintf("Failed to load %s", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewUpstreamTimeoutError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   fmt.Sprintf("Timed out loading %s", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCacheConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheConnectionFailed,
		Message:   "Redis connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeBrandNotFound:                 "BRAND_NOT_FOUND",
	ErrCodePreferenceNotFound:            "BRAND_PREFERENCE_NOT_FOUND",
	ErrCodeCreatorNotFound:               "CREATOR_NOT_FOUND",
	ErrCodeUpstreamFetchFailed:           "MATCHING_UPSTREAM_FAILED",
	ErrCodeUpstreamTimeout:               "MATCHING_UPSTREAM_FAILED",
	ErrCodeDatabaseConnectionFailed:      "MATCHING_UPSTREAM_FAILED",
	ErrCodeElasticsearchConnectionFailed: "MATCHING_UPSTREAM_FAILED",
	ErrCodeCacheConnectionFailed:         "MATCHING_UPSTREAM_FAILED",
	ErrCodeExternalService:               "MATCHING_UPSTREAM_FAILED",
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeInternal:                      "INTERNAL_ERROR",
}

// GetRetryCount returns how many times the workflow engine may re-run a job that
// failed with code. The matching engine itself never retries.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeUpstreamFetchFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeCacheConnectionFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeUpstreamTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// CodeOf extracts the ErrorCode from anywhere in err's chain.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err is one of the not-found business errors.
func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case ErrCodeBrandNotFound, ErrCodePreferenceNotFound, ErrCodeCreatorNotFound:
		return true
	}
	return false
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasSuffix(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.HasPrefix(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "CACHE"):
		return "INFRASTRUCTURE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
