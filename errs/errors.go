package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigValidation   = errors.New("invalid configuration")
	ErrUnknownTopic       = fmt.Errorf("%w, unknown topic", ErrConfigValidation)
	ErrNoCandidates       = errors.New("no candidate problems left")
	ErrNotToday           = errors.New("problem is not part of today's set")
	ErrAlreadyDone        = errors.New("problem already completed")
	ErrUnknownProblem     = errors.New("problem not found in catalog")
	ErrCatalogUnavailable = errors.New("problem catalog is not loaded")
	ErrStorageIO          = errors.New("storage failure")
	ErrRecordNotFound     = errors.New("record not found")
	ErrNotConfigured      = errors.New("community is not configured")
	ErrInvalidCommand     = errors.New("invalid command")
)

const CatalogUnavailableMessage = "Problem catalog is not loaded. Please try again later."

// TopicError reports the unknown topics together with the valid vocabulary.
type TopicError struct {
	Unknown []string
	Valid   []string
}

func (e *TopicError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnknownTopic, strings.Join(e.Unknown, ", "))
}

func (e *TopicError) Unwrap() error {
	return ErrUnknownTopic
}

// Type maps an error onto the errorType string used in logs.
func Type(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownTopic):
		return "UNKNOWN_TOPIC"
	case errors.Is(err, ErrConfigValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNoCandidates):
		return "NO_CANDIDATES"
	case errors.Is(err, ErrNotToday):
		return "NOT_TODAY"
	case errors.Is(err, ErrAlreadyDone):
		return "ALREADY_DONE"
	case errors.Is(err, ErrUnknownProblem):
		return "UNKNOWN_PROBLEM"
	case errors.Is(err, ErrCatalogUnavailable):
		return "CATALOG_UNAVAILABLE"
	case errors.Is(err, ErrStorageIO):
		return "STORAGE_ERROR"
	case errors.Is(err, ErrRecordNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	case errors.Is(err, ErrInvalidCommand):
		return "INVALID_COMMAND"
	default:
		return "INTERNAL_ERROR"
	}
}

// UserMessage renders err as a reply suitable for the chat channel.
func UserMessage(err error) string {
	var topicErr *TopicError
	switch {
	case errors.As(err, &topicErr):
		return fmt.Sprintf("Unknown topic(s): %s.\nValid topics: %s",
			strings.Join(topicErr.Unknown, ", "), strings.Join(topicErr.Valid, ", "))
	case errors.Is(err, ErrConfigValidation):
		return "Invalid configuration: " + detail(err, ErrConfigValidation)
	case errors.Is(err, ErrNoCandidates):
		return "No problems left that match this configuration. Try different difficulties or topics."
	case errors.Is(err, ErrNotToday):
		return "That problem is not part of today's set."
	case errors.Is(err, ErrAlreadyDone):
		return "You already completed that problem!"
	case errors.Is(err, ErrUnknownProblem):
		return "That problem does not exist in the catalog."
	case errors.Is(err, ErrCatalogUnavailable):
		return CatalogUnavailableMessage
	case errors.Is(err, ErrNotConfigured):
		return "This server is not configured yet. Use set_config <count> <difficulties> [topic, topic...]."
	case errors.Is(err, ErrInvalidCommand):
		return detail(err, ErrInvalidCommand)
	case errors.Is(err, ErrStorageIO):
		return "Could not save your changes right now. Please try again."
	default:
		return "Something went wrong. Please try again later."
	}
}

// detail strips the sentinel prefix from a "%w, detail" wrapped error.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ", "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
