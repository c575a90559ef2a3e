// Package klog wires the ambient structured-logging facade shared by every
// go-corekernel package. It is deliberately tiny: one package-level logger,
// configured once, in the style of stumpy's own example
// (stumpy.L.New(stumpy.L.WithStumpy(...))).
package klog

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the concrete logiface.Logger type used throughout this module.
type Logger = logiface.Logger[*stumpy.Event]

// L is the package-wide logger. Components log through this (or a Clone of
// it with fixed fields) rather than via fmt/log directly.
var L = stumpy.L.New(stumpy.L.WithStumpy())

// Component returns a sub-logger pre-populated with a "component" field,
// for a single subsystem (e.g. "bigint", "waitlist").
func Component(name string) *Logger {
	return L.Clone().Str("component", name).Logger()
}

// SetLogger replaces the package-wide logger, e.g. to redirect output in
// tests or to attach a different stumpy.Option set.
func SetLogger(l *Logger) {
	L = l
}
