//go:build mage

// Package main contains Mage build targets for source-linker developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"documents",
	"key-points",
	"references",
}

// Init creates the project directory structure and a starter manifest.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat(manifestFile); os.IsNotExist(err) {
		if err := os.WriteFile(manifestFile, []byte(starterManifest), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", manifestFile, err)
		}
		fmt.Println("  ", manifestFile)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir       = "bin"
	binName      = "source-linker"
	cmdPkg       = "./cmd/source-linker"
	manifestFile = "manifest.yaml"
)

const starterManifest = `# One entry per document; paths are relative to this file.
documents: []
#  - text: documents/example.md
#    key_points: key-points/example.yaml
`

// Build compiles the CLI binary into bin/, stamping the version from
// SOURCE_LINKER_VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("SOURCE_LINKER_VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Link builds the CLI and links every document in manifest.yaml.
func Link() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "batch", manifestFile)
}

// Stats prints project metrics: Go files and test functions per package,
// and the documentation word count.
func Stats() error {
	pkgs, err := collectPackages(".")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-28s  %5s  %5s\n", "Package", "Files", "Tests")
	for _, name := range names {
		p := pkgs[name]
		fmt.Printf("%-28s  %5d  %5d\n", name, p.files, p.tests)
	}

	docWords := 0
	for _, doc := range []string{"README.md", "DESIGN.md", "SPEC_FULL.md"} {
		data, err := os.ReadFile(doc)
		if err != nil {
			continue
		}
		docWords += len(bytes.Fields(data))
	}
	fmt.Printf("Words (documentation): %d\n", docWords)
	return nil
}

type pkgStats struct {
	files int
	tests int
}

// collectPackages counts Go files and Test functions per directory,
// skipping hidden and underscore-prefixed directories.
func collectPackages(root string) (map[string]*pkgStats, error) {
	pkgs := make(map[string]*pkgStats)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		dir := filepath.Dir(path)
		p := pkgs[dir]
		if p == nil {
			p = &pkgStats{}
			pkgs[dir] = p
		}
		p.files++
		if strings.HasSuffix(path, "_test.go") {
			n, err := countTests(path)
			if err != nil {
				return err
			}
			p.tests += n
		}
		return nil
	})
	return pkgs, err
}

// countTests counts top-level Test functions in a Go file.
func countTests(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "func Test") {
			n++
		}
	}
	return n, scanner.Err()
}
