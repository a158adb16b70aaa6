// Package candump reads frame tokens out of can-utils candump logs.
//
// A log line looks like
//
//	(1614870000.123456) can0 18FEE000#1BC9A8001BC9A800
//
// and the frame token is the third whitespace separated field.
package candump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FrameField is the index of the frame token within a log line.
const FrameField = 2

// Line is one frame token and where it came from.
type Line struct {
	Number int
	Token  string
}

// LineError reports a log line that does not carry a frame token.
type LineError struct {
	Number int
	Text   string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: expected at least %d fields: %q", e.Number, FrameField+1, e.Text)
}

// Reader yields frame tokens lazily, one line at a time. It is forward only;
// reopen the source to start over.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next frame token. Blank lines are skipped. A malformed line
// returns a *LineError and the reader stays usable. io.EOF marks the end.
func (r *Reader) Next() (Line, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) <= FrameField {
			return Line{}, &LineError{Number: r.line, Text: text}
		}
		return Line{Number: r.line, Token: fields[FrameField]}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Line{}, err
	}
	return Line{}, io.EOF
}
