// Command testrunner executes precompiled test binaries (built with
// `go test -c`) inside the deploy image, where the Go toolchain is absent.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

type options struct {
	testsDir      string
	workDir       string
	short         bool
	parallel      int
	count         int
	verbose       bool
	integration   []string
	integrationRe string
}

func main() {
	var o options
	rootCmd := &cobra.Command{
		Use:          "testrunner",
		Short:        "Run compiled intake-api test binaries",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o)
		},
	}
	f := rootCmd.Flags()
	f.StringVar(&o.testsDir, "tests-dir", "/app/tests", "directory containing compiled *.test binaries")
	f.StringVar(&o.workDir, "work-dir", "/app", "working directory for binaries without a matching package dir")
	f.BoolVar(&o.short, "short", false, "pass -test.short to the unit pass")
	f.IntVar(&o.parallel, "pkg-parallel", runtime.NumCPU(), "number of packages to run in parallel")
	f.IntVar(&o.count, "count", 1, "pass -test.count; 1 disables caching")
	f.BoolVarP(&o.verbose, "verbose", "v", true, "pass -test.v")
	f.StringSliceVar(&o.integration, "integration-path", nil, "package paths like api/router to run serially as integration suites")
	f.StringVar(&o.integrationRe, "integration-run", "Integration", "regex passed as -test.run to integration suites")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	bins, err := collectTestBinaries(o.testsDir)
	if err != nil {
		return err
	}
	if len(bins) == 0 {
		return errors.New("no test binaries found")
	}

	integration, err := resolveSuites(o.testsDir, o.integration)
	if err != nil {
		return err
	}
	unit := excludeFiles(bins, integration)

	fmt.Printf("==> Running %d unit packages\n", len(unit))
	r := runner{workDir: o.workDir}
	if err := r.runAll(unit, testArgs(o.verbose, o.short, o.count, 0), o.parallel); err != nil {
		return err
	}

	if len(integration) > 0 {
		fmt.Printf("==> Running integration suites %v with -test.run=%s\n", o.integration, o.integrationRe)
		// integration suites share the database and Stripe test account
		args := append(testArgs(o.verbose, false, o.count, 1), "-test.run", o.integrationRe)
		if err := r.runAll(integration, args, 1); err != nil {
			return err
		}
	}

	fmt.Println("==> All tests passed")
	return nil
}
