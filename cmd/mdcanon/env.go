package main

import (
	"io"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// MaxProcs fits GOMAXPROCS to the container CPU quota. Nil skips it.
	MaxProcs func(printf func(string, ...any)) (undo func(), err error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		MaxProcs: func(printf func(string, ...any)) (func(), error) {
			return maxprocs.Set(maxprocs.Logger(printf))
		},
	}
}
