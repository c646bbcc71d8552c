package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

func collectTestBinaries(root string) ([]string, error) {
	var bins []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".test") {
			bins = append(bins, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(bins)
	return bins, nil
}

// resolveSuites maps package paths such as api/router to their binaries.
func resolveSuites(root string, pkgs []string) ([]string, error) {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		bin := filepath.Join(root, filepath.FromSlash(strings.Trim(p, "/"))+".test")
		if _, err := os.Stat(bin); err != nil {
			return nil, fmt.Errorf("integration binary not found at %s: %w", bin, err)
		}
		out = append(out, bin)
	}
	return out, nil
}

func excludeFiles(bins, skip []string) []string {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[absPath(s)] = true
	}
	out := make([]string, 0, len(bins))
	for _, b := range bins {
		if !skipped[absPath(b)] {
			out = append(out, b)
		}
	}
	return out
}

func absPath(p string) string {
	a, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return a
}

func testArgs(verbose, short bool, count, testParallel int) []string {
	var args []string
	if verbose {
		args = append(args, "-test.v")
	}
	if short {
		args = append(args, "-test.short")
	}
	if count > 0 {
		args = append(args, fmt.Sprintf("-test.count=%d", count))
	}
	if testParallel > 0 {
		args = append(args, fmt.Sprintf("-test.parallel=%d", testParallel))
	}
	return args
}

type runner struct {
	workDir string
}

// runAll runs bins with at most parallel in flight and returns the first failure.
func (r runner) runAll(bins, args []string, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}
	sem := make(chan struct{}, parallel)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, b := range bins {
		wg.Add(1)
		sem <- struct{}{}
		go func(bin string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := r.runOne(bin, args); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(b)
	}
	wg.Wait()
	return firstErr
}

func (r runner) runOne(bin string, args []string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	cmd.Dir = r.dirFor(bin)
	fmt.Printf("[RUN] %s %s\n", bin, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", bin, err)
	}
	return nil
}

// dirFor runs a binary from its package directory when one sits beside it,
// so tests that read testdata or walk up to .env behave as under go test.
func (r runner) dirFor(bin string) string {
	if dir := strings.TrimSuffix(bin, ".test"); dir != bin {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return r.workDir
}
