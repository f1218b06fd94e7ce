package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/githubnext/coderadar/internal/config"
	"github.com/githubnext/coderadar/internal/scheduler"
	"github.com/githubnext/coderadar/pkg/console"
	"github.com/githubnext/coderadar/pkg/constants"
	"github.com/spf13/cobra"
)

// NewScheduleCommand creates the schedule command group: start runs the
// periodic pass of spec.md §4.11 in the foreground until interrupted.
func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the scheduled scan-and-recommend pass",
	}
	cmd.AddCommand(newScheduleStartCommand())
	return cmd
}

func newScheduleStartCommand() *cobra.Command {
	var configPath string
	var intervalMinutes int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler: an immediate pass, then every interval",
		Long: `Start runs one pass over all analyzed repositories immediately, then
repeats every --interval minutes until interrupted (Ctrl-C). An in-flight
pass is allowed to finish before the process exits.

Examples:
  ` + constants.CLIExtensionPrefix + ` schedule start
  ` + constants.CLIExtensionPrefix + ` schedule start --interval 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleStart(configPath, intervalMinutes)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a coderadar.toml config file")
	cmd.Flags().IntVar(&intervalMinutes, "interval", constants.DefaultSchedulerIntervalMinutes, "minutes between scheduled passes")
	return cmd
}

func runScheduleStart(configPath string, intervalMinutes int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	deps, err := buildDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.store.Close()

	sched := scheduler.New(deps.pipeline, deps.store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println(console.FormatInfoMessage(fmt.Sprintf("starting scheduler, interval=%dm", intervalMinutes)))
	sched.Start(ctx, time.Duration(intervalMinutes)*time.Minute)

	<-ctx.Done()
	fmt.Println(console.FormatInfoMessage("received interrupt signal, stopping scheduler..."))
	sched.Stop()
	fmt.Println(console.FormatInfoMessage("scheduler stopped"))
	return nil
}
