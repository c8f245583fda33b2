package button

import "fmt"

// Response is the only user-visible output of a click.
type Response struct {
	Message string `json:"message"`
}

// Message builds a Response from a fixed string.
func Message(msg string) Response { return Response{Message: msg} }

// Messagef builds a Response from a format string.
func Messagef(format string, args ...any) Response {
	return Response{Message: fmt.Sprintf(format, args...)}
}

// Answers holds one entry per declared prompt. A nil entry means the user
// cancelled that prompt.
type Answers []*string

// Get returns the i-th answer and whether it was given. Out-of-range indexes
// report false.
func (a Answers) Get(i int) (string, bool) {
	if i < 0 || i >= len(a) || a[i] == nil {
		return "", false
	}
	return *a[i], true
}

// Or returns the i-th answer, or def when it was cancelled or missing.
func (a Answers) Or(i int, def string) string {
	if s, ok := a.Get(i); ok {
		return s
	}
	return def
}

// Answer is a convenience for building Answers in tests and callers.
func Answer(s string) *string { return &s }
