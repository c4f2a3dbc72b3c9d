//go:build mage

// Package main contains Mage build targets for scholar-sync developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "scholar-sync"
	cmdPkg  = "./cmd/scholar-sync"
)

// dataDirs lists the working directories a default configuration writes to.
var dataDirs = []string{
	"data/json",
	"data/authors",
	".secrets",
}

// sampleConfig is written by Init when no config.json exists.
const sampleConfig = `{
  "year_start": 2020,
  "incremental_limit": 20,
  "authors": [
    {"name": "Ada Lovelace", "id": "REPLACE_WITH_SCHOLAR_ID"}
  ]
}
`

// Init creates the data directories and a sample config.json.
func Init() error {
	for _, dir := range dataDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat("config.json"); os.IsNotExist(err) {
		if err := os.WriteFile("config.json", []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing config.json: %w", err)
		}
		fmt.Println("   config.json (sample)")
	}
	fmt.Println("Project initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Sync builds the CLI and syncs every configured author.
func Sync() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "sync")
}

// Render builds the CLI and re-renders Markdown from stored state.
func Render() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "render")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in Go files below root, skipping
// directories that start with "_" or ".". If testOnly is true only _test.go
// files are counted; otherwise only non-test files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) != "" {
				total++
			}
		}
		return scanner.Err()
	})
	return total, err
}
