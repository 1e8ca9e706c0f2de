package shared

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// =====================================================
// ERROR KINDS
// =====================================================
// Mỗi lỗi của domain đều unwrap về một trong các sentinel dưới đây,
// caller kiểm tra bằng errors.Is(err, shared.ErrInvalidArgument)...
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrNotFound            = errors.New("not found")
	ErrConcurrencyConflict = errors.New("concurrency conflict - entity was modified by another writer")
	ErrInvalidState        = errors.New("invalid state")
	ErrCancelled           = errors.New("operation cancelled")
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeInvalidArgument     = "DOM001"
	ErrCodeInvalidFormat       = "DOM002"
	ErrCodeCurrencyMismatch    = "DOM003"
	ErrCodeNotFound            = "DOM004"
	ErrCodeConcurrencyConflict = "DOM005"
	ErrCodeInvalidState        = "DOM006"
	ErrCodeCancelled           = "DOM007"
	ErrCodeInternal            = "SYS_001"
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type DomainError struct {
	Code    string
	Field   string // tên argument bị lỗi, có thể rỗng
	Message string
	Err     error // sentinel kind
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInvalidArgument creates an InvalidArgument error for the given argument name.
func NewInvalidArgument(field, message string) error {
	return &DomainError{Code: ErrCodeInvalidArgument, Field: field, Message: message, Err: ErrInvalidArgument}
}

// NewInvalidFormat creates an InvalidFormat error.
func NewInvalidFormat(field, message string) error {
	return &DomainError{Code: ErrCodeInvalidFormat, Field: field, Message: message, Err: ErrInvalidFormat}
}

// NewCurrencyMismatch reports arithmetic between two different currencies.
func NewCurrencyMismatch(left, right string) error {
	return &DomainError{
		Code:    ErrCodeCurrencyMismatch,
		Message: fmt.Sprintf("cannot combine %s with %s", left, right),
		Err:     ErrCurrencyMismatch,
	}
}

// NewNotFound creates a NotFound error for an entity lookup.
func NewNotFound(entity string, id any) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", entity, id),
		Err:     ErrNotFound,
	}
}

// NewConcurrencyConflict reports a stale version on write.
func NewConcurrencyConflict(entity string, id any, version int64) error {
	return &DomainError{
		Code:    ErrCodeConcurrencyConflict,
		Message: fmt.Sprintf("%s %v no longer at version %d", entity, id, version),
		Err:     ErrConcurrencyConflict,
	}
}

// NewInvalidState creates an InvalidState error.
func NewInvalidState(message string) error {
	return &DomainError{Code: ErrCodeInvalidState, Message: message, Err: ErrInvalidState}
}

// Cancelled wraps a context error so that both errors.Is(err, ErrCancelled)
// and errors.Is(err, context.Canceled) hold.
func Cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// CheckContext trả về Cancelled nếu ctx đã bị cancel hoặc hết hạn.
func CheckContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return Cancelled(err)
	}
	return nil
}

// TranslateContextError converts backend errors caused by context cancellation
// into Cancelled and leaves every other error untouched.
func TranslateContextError(err error) error {
	if err == nil || errors.Is(err, ErrCancelled) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Cancelled(err)
	}
	return err
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	switch {
	case errors.Is(err, ErrCancelled):
		return ErrCodeCancelled
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return ErrCodeInvalidArgument
	default:
		return ErrCodeInternal
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConcurrencyConflict), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrCancelled):
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}
