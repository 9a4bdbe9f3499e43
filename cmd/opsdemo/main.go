// Command opsdemo is a small command-line harness for exercising the ops
// kernel: it runs a toy BatchOp and a toy LoopOp, prints their trace
// events, and deliberately fails the batch partway through so rollback is
// visible, replacing the teacher's manual_rollback/persistent_cli demo
// mains.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	ops "github.com/fortressi/ops"
	"github.com/fortressi/ops/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "opsdemo",
		Short: "Run small demonstrations of the ops kernel",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(batchCommand())
	root.AddCommand(loopCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSink(cfg ops.Config) (ops.TraceSink, error) {
	switch cfg.LogSink {
	case "zap":
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to build zap logger: %w", err)
		}
		return ops.NewZapSink(logger), nil
	default:
		return ops.NewANSISink(func(line string) { fmt.Println(line) }), nil
	}
}

func resourceOp(name string, fail bool) ops.AnyOp[string] {
	created := false
	return ops.Wrap[string](ops.NewFuncOp[string](
		name,
		func(ctx context.Context, dry *ops.DryContext, wet *ops.WetContext) (string, error) {
			if fail {
				return "", ops.NewExecutionFailed(fmt.Sprintf("provisioning %s failed", name))
			}
			created = true
			return name + "-id", nil
		},
		func(ctx context.Context, dry *ops.DryContext, wet *ops.WetContext) error {
			if created {
				log.Printf("rolling back %s", name)
				created = false
			}
			return nil
		},
	))
}

func batchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run a three-op batch where the last op fails, then roll back",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ops.LoadConfig(configPath)
			if err != nil {
				return err
			}
			sink, err := loadSink(cfg)
			if err != nil {
				return err
			}
			ops.SetDefaultTraceSink(sink)

			batch := ops.NewBatchOp([]ops.AnyOp[string]{
				ops.Wrap[string](ops.NewLoggingWrapper(resourceOp("database", false), "database", sink)),
				ops.Wrap[string](ops.NewLoggingWrapper(resourceOp("cache", false), "cache", sink)),
				ops.Wrap[string](ops.NewLoggingWrapper(resourceOp("queue", true), "queue", sink)),
			}, false)

			dry := ops.NewDryContext()
			wet := ops.NewWetContext()

			ledger := store.NewMemoryLedger()
			runID := "opsdemo-batch"
			record := store.RunRecord{RunID: runID}

			results, err := batch.Perform(cmd.Context(), dry, wet)
			if err != nil {
				record.Ops = append(record.Ops, store.OpRecord{Name: "batch", Succeeded: false, Error: err.Error()})
				_ = ledger.Save(cmd.Context(), runID, record)
				return err
			}

			fmt.Printf("batch results: %v\n", results)
			return nil
		},
	}
}

func loopCommand() *cobra.Command {
	var iterations int
	cmd := &cobra.Command{
		Use:   "loop",
		Short: "Run a loop that increments a counter a fixed number of times",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ops.LoadConfig(configPath)
			if err != nil {
				return err
			}
			sink, err := loadSink(cfg)
			if err != nil {
				return err
			}
			ops.SetDefaultTraceSink(sink)

			counterOp := ops.Wrap[int](ops.NewFuncOp[int](
				"reportCounter",
				func(ctx context.Context, dry *ops.DryContext, wet *ops.WetContext) (int, error) {
					return ops.Get[int](dry, "i")
				},
				nil,
			))
			loop := ops.NewLoopOp("i", iterations, []ops.AnyOp[int]{counterOp}, false)

			results, err := loop.Perform(cmd.Context(), ops.NewDryContext(), ops.NewWetContext())
			if err != nil {
				return err
			}
			fmt.Printf("loop results: %v\n", results)
			return nil
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", 3, "number of loop iterations")
	return cmd
}
