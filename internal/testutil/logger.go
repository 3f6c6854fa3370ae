// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"io"

	"github.com/dtroode/memoria-server/internal/logger"
)

// MakeNoopLogger returns a Logger that discards every record.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(io.Discard, 0, "text")
}

// MakeJSONLogger returns a debug-level JSON Logger and the buffer it writes to.
func MakeJSONLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewWithFormat(&buf, -4, "json"), &buf
}
