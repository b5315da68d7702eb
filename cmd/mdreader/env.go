package main

import (
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Environment holds injectable dependencies for testability.
// Sources are read from and outputs written to FS.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	FS     billy.Filesystem
}

// DefaultEnv returns the production environment backed by the OS filesystem.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		FS:     osfs.New(""),
	}
}
