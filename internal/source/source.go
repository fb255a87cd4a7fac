// Package source reads eventDate values from value files, one per line.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// SourceErrorType represents the type of value file error.
type SourceErrorType string

const (
	// FileNotFound indicates the value file does not exist.
	FileNotFound SourceErrorType = "FILE_NOT_FOUND"
	// PermissionDenied indicates the value file cannot be opened.
	PermissionDenied SourceErrorType = "PERMISSION_DENIED"
	// ReadFailed indicates an I/O error or an over-long line.
	ReadFailed SourceErrorType = "READ_FAILED"
)

// SourceError represents an error reading a value file.
type SourceError struct {
	Type SourceErrorType
	Path string
	Line int // Last line read, 0 when the file could not be opened
	Err  error
}

func (e *SourceError) Error() string {
	msg := string(e.Type) + ": " + e.Path
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Value is one eventDate value and the 1-based line it was read from.
type Value struct {
	Line int
	Text string
}

// maxLineSize bounds a single value line.
const maxLineSize = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadValues reads every value in the file at path.
func ReadValues(path string) ([]Value, error) {
	f, err := os.Open(path)
	if err != nil {
		errType := ReadFailed
		switch {
		case errors.Is(err, os.ErrNotExist):
			errType = FileNotFound
		case errors.Is(err, os.ErrPermission):
			errType = PermissionDenied
		}
		return nil, &SourceError{Type: errType, Path: path, Err: err}
	}
	defer f.Close()

	values, err := ReadFrom(f)
	if err != nil {
		var srcErr *SourceError
		if errors.As(err, &srcErr) {
			srcErr.Path = path
		}
		return nil, err
	}
	return values, nil
}

// ReadFrom reads values from r. Blank lines and lines starting with '#'
// are skipped; a trailing carriage return is dropped. Other whitespace is
// kept, since it is part of the value being checked.
func ReadFrom(r io.Reader) ([]Value, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLineSize)

	var values []Value
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if lineNum == 1 {
			line = bytes.TrimPrefix(line, utf8BOM)
		}
		text := strings.TrimSuffix(string(line), "\r")

		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		values = append(values, Value{Line: lineNum, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, &SourceError{Type: ReadFailed, Line: lineNum, Err: err}
	}

	return values, nil
}
