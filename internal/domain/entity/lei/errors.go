// Package lei holds the outcome taxonomy of legal-name resolution.
//
// Every failed lookup is reported as a *ResolutionError carrying exactly one
// Kind. The set of kinds is closed; callers switch on Kind or match the
// per-kind sentinels with errors.Is.
package lei

import (
	"errors"
	"fmt"
)

// Kind tags a resolution failure.
type Kind string

const (
	KindUnreachable           Kind = "unreachable"
	KindServerError           Kind = "server_error"
	KindInvalidResponseFormat Kind = "invalid_response_format"
	KindNoMatch               Kind = "no_match"
	KindMultipleMatches       Kind = "multiple_matches"
	KindNoLegalName           Kind = "no_legal_name"
)

// Kinds lists every failure kind in classification order.
func Kinds() []Kind {
	return []Kind{
		KindUnreachable,
		KindServerError,
		KindInvalidResponseFormat,
		KindNoMatch,
		KindMultipleMatches,
		KindNoLegalName,
	}
}

func (k Kind) String() string {
	return string(k)
}

// Messages are the human-readable texts reported for each kind.
// ServerError is a format string receiving the HTTP status code.
type Messages struct {
	Unreachable           string
	ServerError           string
	InvalidResponseFormat string
	NoMatch               string
	MultipleMatches       string
	NoLegalName           string
}

// DefaultMessages returns the stable texts exposed to API consumers.
func DefaultMessages() Messages {
	return Messages{
		Unreachable:           "LEI lookup server unreachable",
		ServerError:           "LEI lookup server error [%d]",
		InvalidResponseFormat: "LEI lookup server invalid response format",
		NoMatch:               "LEI lookup server did not find matching record",
		MultipleMatches:       "LEI lookup server found multiple matching records",
		NoLegalName:           "LEI lookup server did not return legal name data",
	}
}

// Text renders the message for kind, interpolating statusCode for server errors.
func (m Messages) Text(kind Kind, statusCode int) string {
	switch kind {
	case KindUnreachable:
		return m.Unreachable
	case KindServerError:
		return fmt.Sprintf(m.ServerError, statusCode)
	case KindInvalidResponseFormat:
		return m.InvalidResponseFormat
	case KindNoMatch:
		return m.NoMatch
	case KindMultipleMatches:
		return m.MultipleMatches
	case KindNoLegalName:
		return m.NoLegalName
	default:
		return string(kind)
	}
}

// ResolutionError reports why an LEI could not be resolved to a legal name.
type ResolutionError struct {
	Kind       Kind
	LEI        string
	StatusCode int // set for KindServerError only
	Message    string
	Err        error
}

func (e *ResolutionError) Error() string {
	return e.Message
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is matches another ResolutionError of the same kind. A target without a
// status code matches any status code.
func (e *ResolutionError) Is(target error) bool {
	t, ok := target.(*ResolutionError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// NewResolutionError builds an error of the given kind with its default message.
func NewResolutionError(kind Kind, lei string, statusCode int, err error) *ResolutionError {
	return &ResolutionError{
		Kind:       kind,
		LEI:        lei,
		StatusCode: statusCode,
		Message:    DefaultMessages().Text(kind, statusCode),
		Err:        err,
	}
}

var (
	ErrUnreachable           = &ResolutionError{Kind: KindUnreachable, Message: DefaultMessages().Unreachable}
	ErrServerError           = &ResolutionError{Kind: KindServerError, Message: "LEI lookup server error"}
	ErrInvalidResponseFormat = &ResolutionError{Kind: KindInvalidResponseFormat, Message: DefaultMessages().InvalidResponseFormat}
	ErrNoMatch               = &ResolutionError{Kind: KindNoMatch, Message: DefaultMessages().NoMatch}
	ErrMultipleMatches       = &ResolutionError{Kind: KindMultipleMatches, Message: DefaultMessages().MultipleMatches}
	ErrNoLegalName           = &ResolutionError{Kind: KindNoLegalName, Message: DefaultMessages().NoLegalName}
)

// KindOf extracts the resolution kind from err.
func KindOf(err error) (Kind, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
