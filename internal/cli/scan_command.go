package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/githubnext/coderadar/internal/config"
	"github.com/githubnext/coderadar/internal/forge"
	"github.com/githubnext/coderadar/internal/governor"
	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/internal/pipeline"
	"github.com/githubnext/coderadar/internal/store"
	"github.com/githubnext/coderadar/internal/training"
	"github.com/githubnext/coderadar/pkg/console"
	"github.com/githubnext/coderadar/pkg/constants"
	"github.com/githubnext/coderadar/pkg/repoutil"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command: a one-shot manual run of the
// full pipeline against a single repository, per spec.md §4.11's manual
// trigger.
func NewScanCommand() *cobra.Command {
	var configPath string
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "scan [owner/repo]",
		Short: "Scan one or more repositories and persist their patterns and recommendations",
		Long: `Scan fetches a repository's file tree, detects patterns and issues,
classifies its tech stack, generates and validates recommendations, and
persists the results. It bypasses the scheduler's due list entirely.

With --manifest, scan runs sequentially over every repository listed in a
YAML file (one "full_name: owner/repo" entry per list item), matching the
scheduler's across-repository concurrency model (§5: strictly sequential).

Examples:
  ` + constants.CLIExtensionPrefix + ` scan acme/widgets
  ` + constants.CLIExtensionPrefix + ` scan --manifest repos.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath != "" {
				return runScanManifest(cmd.Context(), manifestPath, configPath)
			}
			if len(args) != 1 {
				return fmt.Errorf("scan requires either <owner/repo> or --manifest")
			}
			return runScan(cmd.Context(), args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a coderadar.toml config file")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a YAML manifest listing repositories to scan")
	return cmd
}

// manifest is the YAML shape a --manifest file parses into.
type manifest struct {
	Repositories []struct {
		FullName string `yaml:"full_name"`
	} `yaml:"repositories"`
}

func runScanManifest(ctx context.Context, manifestPath, configPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	deps, err := buildDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.store.Close()

	var failures int
	for _, entry := range m.Repositories {
		if err := scanOne(ctx, deps, entry.FullName); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("scan failed for %s: %v", entry.FullName, err)))
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d repositories failed to scan", failures, len(m.Repositories))
	}
	return nil
}

func runScan(ctx context.Context, fullName, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	deps, err := buildDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.store.Close()

	if err := scanOne(ctx, deps, fullName); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("scan failed for %s: %v", fullName, err)))
		return err
	}
	return nil
}

// scanOne resolves fullName to its stored analyzed Repository (or a fresh
// pending one when no analyzed row matches) and runs the pipeline against it.
func scanOne(ctx context.Context, deps *dependencies, fullName string) error {
	if _, _, err := repoutil.SplitRepoSlug(fullName); err != nil {
		return err
	}

	repo := model.Repository{
		ID:             fullName,
		FullName:       fullName,
		AnalysisStatus: model.AnalysisPending,
	}
	if existing, lookupErr := deps.store.AnalyzedRepositoriesByLastAnalyzed(); lookupErr == nil {
		for _, r := range existing {
			if r.FullName == fullName {
				repo = r
				break
			}
		}
	}

	outcome, err := deps.pipeline.Run(ctx, repo)
	if err != nil {
		return err
	}

	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf(
		"scanned %s: %d patterns, %d new recommendations", fullName, outcome.PatternsFound, outcome.RecommendationsNew)))
	return nil
}

// dependencies bundles the constructed stage objects a CLI command needs.
type dependencies struct {
	store    *store.Store
	training *training.Store
	pipeline *pipeline.Pipeline
}

func buildDependencies(cfg *config.Config) (*dependencies, error) {
	client, err := forge.New(cfg.Remote.Token, msToDuration(cfg.Remote.TimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("building forge client: %w", err)
	}

	g := governor.New()

	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	tr, err := training.New(cfg.Training.DataPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("opening training store: %w", err)
	}

	return &dependencies{
		store:    st,
		training: tr,
		pipeline: pipeline.New(client, g, st, tr),
	}, nil
}
