package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/githubnext/coderadar/pkg/console"
	"github.com/githubnext/coderadar/pkg/logger"
	"github.com/spf13/cobra"
)

var configureLog = logger.New("cli:configure")

// NewConfigureCommand creates the configure command: an interactive
// wizard that writes a coderadar.toml, following
// githubnext-gh-aw/pkg/campaign/interactive.go's huh.NewForm-per-field
// prompt idiom.
func NewConfigureCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Interactively write a coderadar.toml configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "coderadar.toml", "path to write the generated config file")
	return cmd
}

// configureAnswers mirrors the subset of config.Config fields worth
// prompting for interactively; the rest keep their spec.md §6 defaults.
type configureAnswers struct {
	Remote struct {
		Token string `toml:"remote_token"`
	} `toml:"remote"`
	Store struct {
		DatabasePath string `toml:"database_path"`
	} `toml:"store"`
	Workers struct {
		MaxConcurrentFiles int `toml:"max_concurrent_files"`
	} `toml:"workers"`
}

func runConfigure(outPath string) error {
	if os.Getenv("GO_TEST_MODE") == "true" || os.Getenv("CI") != "" {
		return fmt.Errorf("configure is interactive and cannot run in automated tests or CI")
	}

	var answers configureAnswers
	answers.Store.DatabasePath = "coderadar.db"
	answers.Workers.MaxConcurrentFiles = 8

	var maxFilesStr string

	tokenForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Remote bearer token").
				Description("Leave blank to run unauthenticated with a lower file limit").
				Value(&answers.Remote.Token),
		),
	)
	if err := tokenForm.Run(); err != nil {
		return fmt.Errorf("token input failed: %w", err)
	}

	dbForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SQLite database path").
				Placeholder("coderadar.db").
				Value(&answers.Store.DatabasePath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("database path is required")
					}
					return nil
				}),
		),
	)
	if err := dbForm.Run(); err != nil {
		return fmt.Errorf("database path input failed: %w", err)
	}

	workersForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max concurrent files per scan").
				Placeholder("8").
				Value(&maxFilesStr).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
		),
	)
	if err := workersForm.Run(); err != nil {
		return fmt.Errorf("worker count input failed: %w", err)
	}
	if maxFilesStr != "" {
		n, _ := strconv.Atoi(maxFilesStr)
		answers.Workers.MaxConcurrentFiles = n
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(answers); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	configureLog.Printf("wrote config to %s", outPath)
	fmt.Println(console.FormatSuccessMessage("wrote " + outPath))
	return nil
}
