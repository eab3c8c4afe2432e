package reconcile

import "fmt"

// ErrorCode identifies one of the error kinds in the reconciliation error
// taxonomy of spec.md §7. Grounded on the teacher's DocxError/ErrorCode
// pattern (errors.go), generalized from file/chart/image concerns to the
// six kinds the reconciliation core actually raises.
type ErrorCode string

const (
	ErrCodeMalformedInputXML          ErrorCode = "MALFORMED_INPUT_XML"
	ErrCodeTargetNotFound             ErrorCode = "TARGET_NOT_FOUND"
	ErrCodeDuplicateCommentID         ErrorCode = "DUPLICATE_COMMENT_ID"
	ErrCodeInvalidTableMarkdown       ErrorCode = "INVALID_TABLE_MARKDOWN"
	ErrCodeInconsistentNumberingMerge ErrorCode = "INCONSISTENT_NUMBERING_MERGE"
	ErrCodeValidationFailed           ErrorCode = "VALIDATION_FAILED"
)

// Error is the structured error type returned by every exported contract.
// Recoverable per-change failures are carried in result slices (see
// RedlineResult/CommentResult), never panics; Error is reserved for
// whole-call aborts per spec.md §7's propagation policy.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithContext attaches a diagnostic key/value pair and returns the receiver
// for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func NewMalformedInputXMLError(err error) *Error {
	return &Error{Code: ErrCodeMalformedInputXML, Message: "failed to parse input fragment", Err: err}
}

func NewTargetNotFoundError(ref, text string) *Error {
	e := &Error{Code: ErrCodeTargetNotFound, Message: "target paragraph could not be resolved"}
	return e.WithContext("targetRef", ref).WithContext("targetText", text)
}

func NewDuplicateCommentIDError(id string) *Error {
	e := &Error{Code: ErrCodeDuplicateCommentID, Message: "comment id collides with an existing comment"}
	return e.WithContext("id", id)
}

func NewInvalidTableMarkdownError(reason string) *Error {
	return &Error{Code: ErrCodeInvalidTableMarkdown, Message: reason}
}

func NewInconsistentNumberingMergeError(reason string) *Error {
	return &Error{Code: ErrCodeInconsistentNumberingMerge, Message: reason}
}

func NewValidationFailedError(reason string) *Error {
	return &Error{Code: ErrCodeValidationFailed, Message: reason}
}
