// Command procsched drives the five scheduling disciplines over real OS
// child processes: first-come-first-served, round-robin, offline MLFQ,
// and the two stream-fed variants (online SJF, online MLFQ).
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"procsched/internal/child"
	"procsched/internal/clock"
	"procsched/internal/config"
	"procsched/internal/diag"
	"procsched/internal/history"
	"procsched/internal/ingest"
	"procsched/internal/logging"
	"procsched/internal/process"
	"procsched/internal/report"
	"procsched/internal/sched"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "procsched",
		Short: "Simulate classical CPU scheduling disciplines over real child processes",
		Long: `procsched drives a batch (or live stream) of commands through one of
five scheduling disciplines, suspending and resuming real OS processes the
same way a textbook scheduler suspends and resumes threads: FCFS, Round-
Robin, offline MLFQ, and online SJF/MLFQ fed from stdin.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")

	rootCmd.AddCommand(
		newFCFSCmd(),
		newRRCmd(),
		newMLFQOfflineCmd(),
		newSJFOnlineCmd(),
		newMLFQOnlineCmd(),
		newConfigCmd(),
		newDiagCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildEngine wires up the substrate shared by every discipline: clock,
// child controller, burst history, and logger.
func buildEngine(cmd *cobra.Command) (*sched.Engine, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("procsched: build logger: %w", err)
	}
	return sched.New(clock.New(), child.New(log), history.NewStore(), log), nil
}

func newFCFSCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fcfs [commands...]",
		Short: "Run commands to completion strictly in input order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			tbl := e.RunFCFS(args)
			return report.New(output, false, e.Log).Write(tbl.All())
		},
	}
	cmd.Flags().StringVar(&output, "output", "result_offline_FCFS", "output report path")
	return cmd
}

func newRRCmd() *cobra.Command {
	var output string
	var quantumMS int64
	cmd := &cobra.Command{
		Use:   "rr [commands...]",
		Short: "Run commands under fixed-quantum preemptive rotation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quantumMS <= 0 {
				return fmt.Errorf("procsched: --quantum-ms must be > 0")
			}
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			tbl := e.RunRR(args, quantumMS)
			return report.New(output, false, e.Log).Write(tbl.All())
		},
	}
	cmd.Flags().StringVar(&output, "output", "result_offline_RR", "output report path")
	cmd.Flags().Int64Var(&quantumMS, "quantum-ms", 100, "fixed time slice in milliseconds")
	return cmd
}

func newMLFQOfflineCmd() *cobra.Command {
	var output string
	var q0, q1, q2, boost int64
	cmd := &cobra.Command{
		Use:   "mlfq-offline [commands...]",
		Short: "Run commands under a three-level feedback queue with periodic boost",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quanta := sched.MLFQQuanta{Q0MS: q0, Q1MS: q1, Q2MS: q2}
			if err := validateQuanta(quanta, boost); err != nil {
				return err
			}
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			tbl := e.RunMLFQOffline(args, quanta, boost)
			return report.New(output, false, e.Log).Write(tbl.All())
		},
	}
	cmd.Flags().StringVar(&output, "output", "result_offline_MLFQ", "output report path")
	cmd.Flags().Int64Var(&q0, "q0-ms", 20, "level 0 quantum in milliseconds")
	cmd.Flags().Int64Var(&q1, "q1-ms", 50, "level 1 quantum in milliseconds")
	cmd.Flags().Int64Var(&q2, "q2-ms", 100, "level 2 quantum in milliseconds")
	cmd.Flags().Int64Var(&boost, "boost-ms", 1000, "priority boost interval in milliseconds")
	return cmd
}

func newSJFOnlineCmd() *cobra.Command {
	var output string
	var k int
	cmd := &cobra.Command{
		Use:   "sjf-online",
		Short: "Run shortest-job-first over commands arriving one per line on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k = clampHistoryWindow(k)
			if k < 1 {
				return fmt.Errorf("procsched: --k must be >= 1")
			}
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			ing := ingest.New(os.Stdin, e.Log)
			sink := report.New(output, true, e.Log)
			e.RunSJFOnline(ing, k, sink)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "result_online_SJF", "output report path")
	cmd.Flags().IntVar(&k, "k", 5, "burst-history window size (clamped to 50)")
	return cmd
}

func newMLFQOnlineCmd() *cobra.Command {
	var output string
	var q0, q1, q2, boost int64
	var k int
	cmd := &cobra.Command{
		Use:   "mlfq-online",
		Short: "Run MLFQ over commands arriving one per line on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quanta := sched.MLFQQuanta{Q0MS: q0, Q1MS: q1, Q2MS: q2}
			if err := validateQuanta(quanta, boost); err != nil {
				return err
			}
			k = clampHistoryWindow(k)
			if k < 1 {
				return fmt.Errorf("procsched: --k must be >= 1")
			}
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			ing := ingest.New(os.Stdin, e.Log)
			sink := report.New(output, true, e.Log)
			e.RunMLFQOnline(ing, quanta, boost, k, sink)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "result_online_MLFQ", "output report path")
	cmd.Flags().Int64Var(&q0, "q0-ms", 20, "level 0 quantum in milliseconds")
	cmd.Flags().Int64Var(&q1, "q1-ms", 50, "level 1 quantum in milliseconds")
	cmd.Flags().Int64Var(&q2, "q2-ms", 100, "level 2 quantum in milliseconds")
	cmd.Flags().Int64Var(&boost, "boost-ms", 1000, "priority boost interval in milliseconds")
	cmd.Flags().IntVar(&k, "k", 5, "burst-history window size (clamped to 50)")
	return cmd
}

// newConfigCmd runs whichever offline discipline a JSON batch file
// names, letting a workload be checked into version control instead of
// re-typed as flags every run (internal/config).
func newConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "from-config",
		Short: "Run the offline discipline described by a JSON config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			outputPath := cfg.OutputPath
			var tbl *process.Table
			switch cfg.Discipline {
			case "fcfs":
				if outputPath == "" {
					outputPath = "result_offline_FCFS"
				}
				tbl = e.RunFCFS(cfg.Commands)
			case "rr":
				if outputPath == "" {
					outputPath = "result_offline_RR"
				}
				tbl = e.RunRR(cfg.Commands, int64(cfg.QuantumMS))
			case "mlfq_offline":
				if outputPath == "" {
					outputPath = "result_offline_MLFQ"
				}
				quanta := sched.MLFQQuanta{Q0MS: int64(cfg.Quantum0MS), Q1MS: int64(cfg.Quantum1MS), Q2MS: int64(cfg.Quantum2MS)}
				tbl = e.RunMLFQOffline(cfg.Commands, quanta, int64(cfg.BoostMS))
			default:
				return fmt.Errorf("procsched: from-config only supports offline disciplines (fcfs, rr, mlfq_offline); got %q", cfg.Discipline)
			}
			return report.New(outputPath, false, e.Log).Write(tbl.All())
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "path to JSON config file")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// newDiagCmd exposes internal/diag's /proc introspection directly,
// useful for checking on a child the scheduler currently has stopped
// (its state in /proc/[pid]/status reads "T (stopped)" between slices).
func newDiagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag <pid>",
		Short: "Print /proc introspection for a process (typically a child procsched is scheduling)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("procsched: invalid pid %q: %w", args[0], err)
			}
			info, err := diag.Read(pid)
			if err != nil {
				return err
			}
			fmt.Println(info.String())
			return nil
		},
	}
}

func validateQuanta(q sched.MLFQQuanta, boostMS int64) error {
	if !(q.Q0MS > 0 && q.Q1MS > 0 && q.Q2MS > 0 && q.Q0MS <= q.Q1MS && q.Q1MS <= q.Q2MS) {
		return fmt.Errorf("procsched: quanta must satisfy 0 < q0 <= q1 <= q2")
	}
	if boostMS <= 0 {
		return fmt.Errorf("procsched: --boost-ms must be > 0")
	}
	return nil
}

func clampHistoryWindow(k int) int {
	if k > 50 {
		return 50
	}
	return k
}
