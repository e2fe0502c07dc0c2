// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin context logger over the go-ethereum structured logger.
// Loggers created by WithContext resolve the root logger on every call, so
// package level loggers follow handler changes made after init.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels accepted by the command line.
const (
	LvlCrit = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// Logger writes leveled key/value records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type lazyLogger struct {
	ctx []any
}

// WithContext returns a logger prefixed with the given key/value context.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

func (l *lazyLogger) root() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

// Info logs on the root logger.
func Info(msg string, ctx ...any) { ethlog.Root().Info(msg, ctx...) }

// Warn logs on the root logger.
func Warn(msg string, ctx ...any) { ethlog.Root().Warn(msg, ctx...) }

// Error logs on the root logger.
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

// Debug logs on the root logger.
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }

// Setup installs the root handler. verbosity is one of the legacy levels.
func Setup(w io.Writer, verbosity int, jsonFormat, useColor bool) {
	ethlog.SetDefault(ethlog.NewLogger(NewHandler(w, verbosity, jsonFormat, useColor)))
}

// NewHandler creates a terminal or JSON handler filtering at the given legacy verbosity.
func NewHandler(w io.Writer, verbosity int, jsonFormat, useColor bool) slog.Handler {
	lvl := ethlog.FromLegacyLevel(verbosity)
	if jsonFormat {
		return ethlog.JSONHandlerWithLevel(w, lvl)
	}
	return ethlog.NewTerminalHandlerWithLevel(w, lvl, useColor)
}

// Discard silences the root logger.
func Discard() {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))
}
