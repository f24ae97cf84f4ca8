/*
 * logger.go, part of goqsar.
 *
 * Copyright 2024 The goqsar Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package qsar

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

//Logger wraps slog.Logger with goqsar-specific helpers, so
//all packages log with consistent field names.
type Logger struct {
	*slog.Logger
}

//NewLogger creates a new Logger with the given handler.
//If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

//NewTextLogger creates a Logger that writes human-readable logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

//NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

//OrNoop returns L, or a NoopLogger if L is nil. It allows the
//packages to take an optional logger.
func (L *Logger) OrNoop() *Logger {
	if L == nil {
		return NoopLogger()
	}
	return L
}

//WithPhase adds the phase name (field, model, cv...) to the logger.
func (L *Logger) WithPhase(phase string) *Logger {
	return &Logger{Logger: L.Logger.With("phase", phase)}
}

//WithObject adds an object id to the logger.
func (L *Logger) WithObject(id int) *Logger {
	return &Logger{Logger: L.Logger.With("object", id)}
}

//WithFile adds a file name to the logger.
func (L *Logger) WithFile(name string) *Logger {
	return &Logger{Logger: L.Logger.With("file", name)}
}

//ParseLevel translates the level names used in the configuration.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
