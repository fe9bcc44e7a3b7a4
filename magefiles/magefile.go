//go:build mage

// Package main provides build targets for the timeboard project using Mage.
//
// Usage:
//
//	mage build          Compile the timeboard binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage examples       Validate the example definitions with the built binary
//	mage clean          Remove build artifacts
//	mage install        Install timeboard to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo        = "go"
	binaryName   = "timeboard"
	binaryDir    = "bin"
	cmdDir       = "./cmd/timeboard"
	coverFile    = "coverage.out"
	examplesGlob = "examples/*.yaml"
)

// Build compiles the timeboard binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test groups test targets.
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests and writes a coverage profile.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverFile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Examples builds the binary and validates every example definition.
func Examples() error {
	mg.Deps(Build)
	files, err := filepath.Glob(examplesGlob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No example definitions found.")
		return nil
	}
	bin := filepath.Join(binaryDir, binaryName)
	for _, f := range files {
		if err := sh.RunV(bin, "validate", f, "--config-dir", filepath.Join(binaryDir, "config")); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverFile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
