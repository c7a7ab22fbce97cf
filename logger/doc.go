// Package logger provides structured logging for the pipeline on top of
// zerolog. Components receive a *Logger explicitly; nothing logs through
// ambient global state.
package logger
