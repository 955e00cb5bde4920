// Command harbor-core is the harbor scheduling core's entrypoint (spec.md
// §6 CLI): a single positional test case number, reading
// testcase<N>/input.txt and opening the shared memory segment, main
// queue, and solver queues it describes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/safing/harbor/base/log"
	"github.com/safing/harbor/base/metrics"
	"github.com/safing/harbor/config"
	"github.com/safing/harbor/harbor"
	"github.com/safing/harbor/ipc"
	"github.com/safing/harbor/service/mgr"
)

var (
	testCaseDir string
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "harbor-core <testcase-number>",
	Short: "harbor scheduling core",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&testCaseDir, "dir", ".", "directory containing testcase<N>/ folders")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log.Setup(parseLevel(logLevel))

	testCaseNum, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("harbor-core: invalid testcase number %q: %w", args[0], err)
	}

	tc, err := config.LoadTestCase(testCaseDir, testCaseNum)
	if err != nil {
		return fmt.Errorf("harbor-core: %w", err)
	}

	mainQueue, err := ipc.OpenSysvMainQueue(tc.MainQueueKey)
	if err != nil {
		return fmt.Errorf("harbor-core: open main queue: %w", err)
	}

	shared, err := ipc.OpenSysvSharedMemory(tc.ShmKey, ipc.SharedMemorySize())
	if err != nil {
		return fmt.Errorf("harbor-core: attach shared memory: %w", err)
	}
	defer shared.Detach() //nolint:errcheck

	solvers := make([]ipc.SolverQueue, len(tc.SolverQueueKeys))
	for i, key := range tc.SolverQueueKeys {
		solverQueue, err := ipc.OpenSysvSolverQueue(key)
		if err != nil {
			return fmt.Errorf("harbor-core: open solver queue %d: %w", i, err)
		}
		solvers[i] = solverQueue
	}

	core, err := harbor.New(tc, mainQueue, shared, solvers)
	if err != nil {
		return fmt.Errorf("harbor-core: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group := mgr.NewGroup(core)
	if err := group.Start(); err != nil {
		return fmt.Errorf("harbor-core: %w", err)
	}

	if metricsAddr != "" {
		metrics.StartServer(core.Manager(), metricsAddr)
	}

	// Clean finish (driver observed the tick message's isFinished flag) and
	// external interruption both fall through to the same shutdown path;
	// only a fatal driver error (spec.md §7 kind 1/2/5) changes the exit code.
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-core.Done():
	}

	if err := group.Stop(); err != nil {
		// group.Stop's own error is just "failed to stop"; LastStopError
		// carries the per-module detail (which module, which error) that
		// stopFrom actually collected.
		if stopErr := group.LastStopError(); stopErr != nil {
			err = stopErr
		}
		if runErr != nil {
			return fmt.Errorf("harbor-core: %w (stop also failed: %v)", runErr, err)
		}
		return fmt.Errorf("harbor-core: %w", err)
	}
	return runErr
}

func parseLevel(s string) log.Severity {
	switch s {
	case "debug":
		return log.Debug
	case "warn", "warning":
		return log.Warn
	case "error":
		return log.Error
	default:
		return log.Info
	}
}
