package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExtraction marks failures while reading or persisting cookie values.
	ErrExtraction = errors.New("extraction error")
	// ErrInputFormat marks a batch that cannot be parsed into items.
	ErrInputFormat = errors.New("invalid data format")
	// ErrNoEndpoint marks a predict request without a scoring endpoint.
	ErrNoEndpoint = errors.New("api url not defined")
	// ErrTransport marks request, connection, and status failures against the scorer.
	ErrTransport = errors.New("transport error")
	// ErrResponseShape marks scorer responses that do not decode or validate.
	ErrResponseShape = errors.New("response shape error")
	// ErrConfiguration marks unusable settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the marker an error was tagged with, or nil when it carries none.
func Kind(err error) error {
	for _, marker := range []error{ErrExtraction, ErrInputFormat, ErrNoEndpoint, ErrTransport, ErrResponseShape, ErrConfiguration} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
