package errors

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// New creates an error prefixed with the caller's file and line.
func New(format string, a ...interface{}) error {
	return fmt.Errorf("[%s] %s", caller(2), fmt.Sprintf(format, a...))
}

// Wrapf adds context and the caller's file and line to err.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %s: %w", caller(2), fmt.Sprintf(format, a...), err)
}

// Sentinel returns a plain error for package-level sentinels, which should
// compare by identity and carry no location.
func Sentinel(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
