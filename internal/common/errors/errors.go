// Package errors provides standardized error handling for the ATS engine and its BPMN workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Document extraction
	ErrCodeExtractionFailed    ErrorCode = "EXTRACTION_FAILED"
	ErrCodeDocumentNotFound    ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeDocumentFetchFailed ErrorCode = "DOCUMENT_FETCH_FAILED"

	// JD cache
	ErrCodeJDNotFound     ErrorCode = "JD_NOT_FOUND"
	ErrCodeJDEmptyContent ErrorCode = "JD_EMPTY_CONTENT"

	// Contract violations
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidJobVariables ErrorCode = "INVALID_JOB_VARIABLES"

	// Persistence and AI analysis
	ErrCodeAnalysisSaveFailed ErrorCode = "ANALYSIS_SAVE_FAILED"
	ErrCodeAnalysisFailed     ErrorCode = "ANALYSIS_FAILED"

	// Workflow engine
	ErrCodeBrokerUnavailable ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeBrokerRejected    ErrorCode = "BROKER_REJECTED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StandardError of the same class. Not-found
// codes form one class so callers can test for ErrNotFound regardless of
// whether a JD or a resume was missing.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return class(e.Code) == class(t.Code)
}

func class(code ErrorCode) ErrorCode {
	switch code {
	case ErrCodeJDNotFound, ErrCodeDocumentNotFound:
		return ErrCodeDocumentNotFound
	case ErrCodeInvalidInput, ErrCodeInvalidJobVariables:
		return ErrCodeInvalidInput
	default:
		return code
	}
}

// Sentinels for errors.Is checks.
var (
	ErrExtraction   = &StandardError{Code: ErrCodeExtractionFailed}
	ErrNotFound     = &StandardError{Code: ErrCodeDocumentNotFound}
	ErrEmptyContent = &StandardError{Code: ErrCodeJDEmptyContent}
	ErrInvalidInput = &StandardError{Code: ErrCodeInvalidInput}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ConvertToBPMNError maps a StandardError onto the workflow-facing error shape.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:           string(err.Code),
		Message:        err.Message,
		Details:        err.Details,
		Retryable:      err.Retryable,
		Retries:        GetRetryCount(err.Code),
		ErrorVariables: err.Metadata,
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewExtractionError reports an unreadable, corrupt or unsupported document.
func NewExtractionError(details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Document text extraction failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewJDNotFoundError reports that no JD document exists for the job id.
func NewJDNotFoundError(jobID string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJDNotFound,
		Message:   "Job description not found",
		Details:   fmt.Sprintf("jobId: %s", jobID),
		Retryable: false,
		Metadata:  map[string]interface{}{"jobId": jobID},
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewDocumentNotFoundError reports a missing resume or other source document.
func NewDocumentNotFoundError(reference string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found",
		Details:   fmt.Sprintf("reference: %s", reference),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewDocumentFetchError wraps a transient document-source failure.
func NewDocumentFetchError(reference string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentFetchFailed,
		Message:   "Document source error",
		Details:   fmt.Sprintf("reference: %s, error: %v", reference, cause),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewJDEmptyContentError reports a JD whose extracted text is blank.
func NewJDEmptyContentError(jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJDEmptyContent,
		Message:   "Job description text is empty",
		Details:   fmt.Sprintf("jobId: %s", jobID),
		Retryable: false,
		Metadata:  map[string]interface{}{"jobId": jobID},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError reports a missing required argument.
func NewInvalidInputError(argument string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   fmt.Sprintf("%s is required", argument),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidReferenceError reports a document reference that is empty or
// escapes its document root.
func NewInvalidReferenceError(reference string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid document reference",
		Details:   fmt.Sprintf("reference: %q", reference),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobVariablesError reports job variables that fail schema validation.
func NewInvalidJobVariablesError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobVariables,
		Message:   "Job variables failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisSaveFailedError creates a retryable persistence error.
func NewAnalysisSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisSaveFailed,
		Message:   "Failed to save resume analysis",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewAnalysisFailedError reports a failed call to the external AI analysis
// service. Timeouts and 5xx answers are retryable.
func NewAnalysisFailedError(retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "AI resume analysis failed",
		Details:   fmt.Sprintf("%v", cause),
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewBrokerError reports a failed Zeebe command. Connection and timeout
// failures are retryable; rejections are not.
func NewBrokerError(operation string, retryable bool, cause error) *StandardError {
	code := ErrCodeBrokerRejected
	if retryable {
		code = ErrCodeBrokerUnavailable
	}
	return &StandardError{
		Code:      code,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   fmt.Sprintf("%v", cause),
		Retryable: retryable,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ==========================
// 4. Retry Policy
// ==========================

// GetRetryCount returns how many times Camunda should retry a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDocumentFetchFailed, ErrCodeAnalysisSaveFailed, ErrCodeAnalysisFailed:
		return 3
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and dashboards.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeExtractionFailed, ErrCodeJDEmptyContent:
		return "DOCUMENT"
	case ErrCodeJDNotFound, ErrCodeDocumentNotFound, ErrCodeDocumentFetchFailed:
		return "SOURCE"
	case ErrCodeInvalidInput, ErrCodeInvalidJobVariables:
		return "VALIDATION"
	case ErrCodeAnalysisSaveFailed:
		return "PERSISTENCE"
	case ErrCodeAnalysisFailed:
		return "ANALYSIS"
	case ErrCodeBrokerUnavailable, ErrCodeBrokerRejected:
		return "WORKFLOW"
	default:
		return "INTERNAL"
	}
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
