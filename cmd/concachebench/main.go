// Command concachebench is the CLI/benchmark driver spec.md §1 and §6
// name as an external collaborator: the core package itself exposes no
// CLI, no config file, and no metrics.
package main

import (
	"os"

	"github.com/semihalev/zlog/v2"
	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		zlog.Error("concachebench failed", "error", err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "concachebench",
		Short: "Drive and benchmark the concache epoch-reclaimed hash table",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newBenchCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the concurrent insert/get/delete stress scenario (spec S5/S6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			mergeFlags(loaded, cfg)

			m := newMetrics()
			m.serve(loaded.MetricsAddr)
			return runStress(loaded, m)
		},
	}
	bindWorkloadFlags(cmd, cfg)
	return cmd
}

func newBenchCmd() *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Sweep get/update/delete latency across table sizes 128..8192",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			mergeFlags(loaded, cfg)

			m := newMetrics()
			return runBench(loaded, m)
		},
	}
	bindWorkloadFlags(cmd, cfg)
	return cmd
}

func bindWorkloadFlags(cmd *cobra.Command, cfg *config) {
	cmd.Flags().Uint64Var(&cfg.Buckets, "buckets", cfg.Buckets, "table bucket count")
	cmd.Flags().IntVar(&cfg.Threads, "threads", cfg.Threads, "worker goroutine count")
	cmd.Flags().IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "ops per worker")
	cmd.Flags().Uint64Var(&cfg.Keyspace, "keyspace", cfg.Keyspace, "key range [0,keyspace)")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve /metrics on, empty disables")
}

// mergeFlags lets explicit flags win over the config file's values only
// when they differ from the flag's own default, keeping the precedence
// simple: flags > config file > built-in defaults.
func mergeFlags(loaded, flagged *config) {
	if flagged.Buckets != defaultConfig().Buckets {
		loaded.Buckets = flagged.Buckets
	}
	if flagged.Threads != defaultConfig().Threads {
		loaded.Threads = flagged.Threads
	}
	if flagged.Iterations != defaultConfig().Iterations {
		loaded.Iterations = flagged.Iterations
	}
	if flagged.Keyspace != defaultConfig().Keyspace {
		loaded.Keyspace = flagged.Keyspace
	}
	if flagged.MetricsAddr != defaultConfig().MetricsAddr {
		loaded.MetricsAddr = flagged.MetricsAddr
	}
}
