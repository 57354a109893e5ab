package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrorKind classifies a failed provider call.
type ErrorKind string

const (
	KindUnknown     ErrorKind = "unknown"
	KindQuota       ErrorKind = "quota"
	KindPermission  ErrorKind = "permission"
	KindAuth        ErrorKind = "auth"
	KindSafety      ErrorKind = "safety"
	KindTimeout     ErrorKind = "timeout"
	KindUnavailable ErrorKind = "unavailable"
)

// ProviderError is returned by adapters that can classify their failures.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string { return string(e.Kind) + ": " + e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

// Classify returns the kind of err. Structured kinds win; otherwise the
// message is matched as a last resort.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind != "" {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage maps an unstructured error message to a kind.
func ClassifyMessage(msg string) ErrorKind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "api_key"), strings.Contains(m, "api key"), strings.Contains(m, "unauthenticated"):
		return KindAuth
	case strings.Contains(m, "quota"), strings.Contains(m, "resource_exhausted"), strings.Contains(m, "rate limit"):
		return KindQuota
	case strings.Contains(m, "permission_denied"), strings.Contains(m, "permission denied"):
		return KindPermission
	case strings.Contains(m, "safety"), strings.Contains(m, "blocked"):
		return KindSafety
	case strings.Contains(m, "deadline"), strings.Contains(m, "timeout"):
		return KindTimeout
	case strings.Contains(m, "unavailable"), strings.Contains(m, "overloaded"):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// KindFromHTTPStatus maps an upstream HTTP status code to a kind.
func KindFromHTTPStatus(code int) ErrorKind {
	switch code {
	case 401:
		return KindAuth
	case 403:
		return KindPermission
	case 408, 504:
		return KindTimeout
	case 429:
		return KindQuota
	case 500, 502, 503:
		return KindUnavailable
	default:
		return KindUnknown
	}
}
