// File path: internal/llm/jsonutil.go
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Shape declares the expected top-level kind of a structured response.
type Shape int

const (
	// ShapeArray expects a JSON array at the top level.
	ShapeArray Shape = iota
	// ShapeObject expects a JSON object at the top level.
	ShapeObject
)

func (s Shape) String() string {
	if s == ShapeObject {
		return "object"
	}
	return "array"
}

// The generative service gives no schema guarantee, so this parser is the
// only defense against malformed model output. Each failure mode is a
// distinct sentinel so orchestrators can decide to retry, degrade, or fail.
var (
	// ErrEmptyResponse: the model returned nothing usable at all.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrNoStructuredContent: no bracketed span of the expected kind exists.
	ErrNoStructuredContent = errors.New("no structured content found")
	// ErrMalformedContent: a span was located but does not parse as JSON.
	ErrMalformedContent = errors.New("malformed structured content")
	// ErrShapeMismatch: valid JSON of the wrong top-level kind.
	ErrShapeMismatch = errors.New("structured content shape mismatch")
)

// trailingCommaPattern matches trailing commas before ] or }, an artifact
// models produce routinely.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// excerptLimit caps the diagnostic slice of cleaned text carried by errors.
const excerptLimit = 200

// ExtractStructured recovers a validated JSON value of the expected shape
// from free-form model text. Stages, in order: empty check, code-fence strip,
// greedy bracket span, parse (with trailing-comma repair), shape assertion.
func ExtractStructured(raw string, shape Shape) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	cleaned = stripCodeFence(cleaned)

	opener, closer := "[", "]"
	if shape == ShapeObject {
		opener, closer = "{", "}"
	}
	start := strings.Index(cleaned, opener)
	end := strings.LastIndex(cleaned, closer)
	if start == -1 {
		// Valid JSON of the other kind is a shape problem, not absence.
		if hasSpan(cleaned, otherShape(shape)) {
			return nil, fmt.Errorf("%w: expected %s, found %s", ErrShapeMismatch, shape, otherShape(shape))
		}
		return nil, fmt.Errorf("%w: %s", ErrNoStructuredContent, excerpt(cleaned))
	}
	if end == -1 || end < start {
		// An opener with no closer is truncated model output.
		return nil, fmt.Errorf("%w: %s", ErrMalformedContent, excerpt(cleaned[start:]))
	}

	span := cleaned[start : end+1]
	if !json.Valid([]byte(span)) {
		repaired := trailingCommaPattern.ReplaceAllString(span, "$1")
		if !json.Valid([]byte(repaired)) {
			return nil, fmt.Errorf("%w: %s", ErrMalformedContent, excerpt(span))
		}
		span = repaired
	}
	return json.RawMessage(span), nil
}

// Decode extracts a structured span and unmarshals it into T.
func Decode[T any](raw string, shape Shape) (T, error) {
	var out T
	span, err := ExtractStructured(raw, shape)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(span, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	return out, nil
}

// stripCodeFence removes a leading ``` marker (with or without a language
// tag) and the matching trailing marker. Models frequently wrap JSON this
// way.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[len("```"):]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	} else {
		// Opening fence with no content line; nothing to unwrap.
		return s
	}
	if idx := strings.LastIndex(rest, "```"); idx != -1 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

func otherShape(s Shape) Shape {
	if s == ShapeArray {
		return ShapeObject
	}
	return ShapeArray
}

func hasSpan(s string, shape Shape) bool {
	opener, closer := "[", "]"
	if shape == ShapeObject {
		opener, closer = "{", "}"
	}
	start := strings.Index(s, opener)
	end := strings.LastIndex(s, closer)
	return start != -1 && end != -1 && end > start
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > excerptLimit {
		return s[:excerptLimit]
	}
	return s
}
