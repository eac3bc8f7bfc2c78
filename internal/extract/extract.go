// Package extract recovers a single JSON object from free-form model output.
//
// Models reliably wrap JSON in markdown fences or append commentary after
// it. Extraction is lenient about that trailing text but never guesses at
// JSON that is malformed inside the object itself.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// fencePattern matches the first fenced code block, optionally tagged json.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

// Error reports that no parseable JSON object could be recovered.
type Error struct {
	// Reason is a short description of what failed.
	Reason string
	// Err is the underlying parse failure, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract JSON: %s: %v", e.Reason, e.Err)
	}
	return "extract JSON: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// JSON returns the JSON object contained in raw.
//
// Steps, each applied only while the text does not yet start with "{":
//  1. trim surrounding whitespace
//  2. take the interior of the first fenced code block
//  3. drop everything before the first "{"
//
// The candidate must then parse. If it only fails because of content after
// a complete value, that value is returned when it is an object; any other
// parse failure is returned as is.
func JSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if !strings.HasPrefix(text, "{") {
		if m := fencePattern.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	}

	if !strings.HasPrefix(text, "{") {
		if i := strings.IndexByte(text, '{'); i >= 0 {
			text = text[i:]
		}
	}

	if text == "" {
		return "", &Error{Reason: "empty response"}
	}

	end, err := firstValueEnd(text)
	if err != nil {
		return "", &Error{Reason: "invalid JSON", Err: err}
	}
	rest := strings.TrimSpace(text[end:])
	if rest == "" {
		return text, nil
	}

	// Trailing content after a complete value. The longest prefix that
	// parses on its own is exactly that first value.
	candidate := strings.TrimSpace(text[:end])
	if !strings.HasSuffix(candidate, "}") {
		return "", &Error{
			Reason: "invalid JSON",
			Err:    fmt.Errorf("invalid character %q after top-level value", rest[0]),
		}
	}
	return candidate, nil
}

// firstValueEnd decodes the first JSON value in text and returns the byte
// offset just past it.
func firstValueEnd(text string) (int, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	// InputOffset is past the value; json.Decoder does not consume
	// whitespace that follows it.
	return int(dec.InputOffset()), nil
}
