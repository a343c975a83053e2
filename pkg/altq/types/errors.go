package types

import (
	"fmt"
	"strings"
)

const (
	ErrorKindNoSuchInterface ErrorKind = "NoSuchInterface"
	ErrorKindNoSuchParent    ErrorKind = "NoSuchParent"
	ErrorKindParentNotFound  ErrorKind = "ParentNotFound"

	ErrorKindAmbiguousBandwidth        ErrorKind = "AmbiguousBandwidth"
	ErrorKindBandwidthExceedsInterface ErrorKind = "BandwidthExceedsInterface"
	ErrorKindBandwidthExceedsParent    ErrorKind = "BandwidthExceedsParent"

	ErrorKindMissingRootClass    ErrorKind = "MissingRootClass"
	ErrorKindMissingDefaultClass ErrorKind = "MissingDefaultClass"

	ErrorKindSlowClassWarning ErrorKind = "SlowClassWarning"

	ErrorKindBackendBeginFailed  ErrorKind = "BackendBeginFailed"
	ErrorKindBackendCommitFailed ErrorKind = "BackendCommitFailed"
	ErrorKindBackendTimeout      ErrorKind = "BackendTimeout"

	ErrorKindDuplicateQueue            ErrorKind = "DuplicateQueue"
	ErrorKindDuplicateInterface        ErrorKind = "DuplicateInterface"
	ErrorKindPriorityOutOfRange        ErrorKind = "PriorityOutOfRange"
	ErrorKindDuplicatePriority         ErrorKind = "DuplicatePriority"
	ErrorKindUnknownInterfaceBandwidth ErrorKind = "UnknownInterfaceBandwidth"
	ErrorKindNameTooLong               ErrorKind = "NameTooLong"
)

// ErrorKind classifies queue configuration failures
type ErrorKind string

// Sentinels for use with errors.Is
var (
	ErrNoSuchInterface           = &QueueError{Kind: ErrorKindNoSuchInterface}
	ErrNoSuchParent              = &QueueError{Kind: ErrorKindNoSuchParent}
	ErrParentNotFound            = &QueueError{Kind: ErrorKindParentNotFound}
	ErrAmbiguousBandwidth        = &QueueError{Kind: ErrorKindAmbiguousBandwidth}
	ErrBandwidthExceedsInterface = &QueueError{Kind: ErrorKindBandwidthExceedsInterface}
	ErrBandwidthExceedsParent    = &QueueError{Kind: ErrorKindBandwidthExceedsParent}
	ErrMissingRootClass          = &QueueError{Kind: ErrorKindMissingRootClass}
	ErrMissingDefaultClass       = &QueueError{Kind: ErrorKindMissingDefaultClass}
	ErrSlowClassWarning          = &QueueError{Kind: ErrorKindSlowClassWarning}
	ErrBackendBeginFailed        = &QueueError{Kind: ErrorKindBackendBeginFailed}
	ErrBackendCommitFailed       = &QueueError{Kind: ErrorKindBackendCommitFailed}
	ErrBackendTimeout            = &QueueError{Kind: ErrorKindBackendTimeout}
	ErrDuplicateQueue            = &QueueError{Kind: ErrorKindDuplicateQueue}
	ErrDuplicateInterface        = &QueueError{Kind: ErrorKindDuplicateInterface}
	ErrPriorityOutOfRange        = &QueueError{Kind: ErrorKindPriorityOutOfRange}
	ErrDuplicatePriority         = &QueueError{Kind: ErrorKindDuplicatePriority}
	ErrUnknownInterfaceBandwidth = &QueueError{Kind: ErrorKindUnknownInterfaceBandwidth}
	ErrNameTooLong               = &QueueError{Kind: ErrorKindNameTooLong}
)

// QueueError is returned for every queue configuration failure. Interface and Queue name the
// record that triggered it, Err (if set) is the underlying cause.
type QueueError struct {
	Kind      ErrorKind
	Interface string
	Queue     string
	Detail    string
	Err       error
}

// NewQueueError creates a QueueError of kind for the given interface and queue
func NewQueueError(kind ErrorKind, ifName, qName, format string, args ...interface{}) *QueueError {
	return &QueueError{
		Kind:      kind,
		Interface: ifName,
		Queue:     qName,
		Detail:    fmt.Sprintf(format, args...),
	}
}

// WithCause sets the underlying error and returns e
func (e *QueueError) WithCause(err error) *QueueError {
	e.Err = err
	return e
}

// Error implements error interface
func (e *QueueError) Error() string {
	parts := []string{string(e.Kind)}
	if e.Queue != "" {
		parts = append(parts, fmt.Sprintf("queue %q", e.Queue))
	}
	if e.Interface != "" {
		parts = append(parts, fmt.Sprintf("interface %q", e.Interface))
	}
	msg := strings.Join(parts, " ")
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches any QueueError of the same kind, so sentinels compare by kind only
func (e *QueueError) Is(target error) bool {
	t, ok := target.(*QueueError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Unwrap returns the underlying cause
func (e *QueueError) Unwrap() error {
	return e.Err
}

// IsFatal returns false only for warnings, which are logged and do not abort a load
func (e *QueueError) IsFatal() bool {
	return e.Kind != ErrorKindSlowClassWarning
}
