// Command covergen renders cover PNGs from profile files without the HTTP
// server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/export"
	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/util"
)

type cli struct {
	out      string
	preset   string
	template string
	ratio    float64
	seed     uint64
	workers  int
	logLevel string

	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "covergen",
		Short: "Render personality cover images from profile files",
		Long: `covergen renders the same covers as the web editor, at export resolution.

Examples:
  covergen render --file ada.yaml --out covers
  covergen render --file ada.yaml --preset mobile --template minimal --seed 42
  covergen batch --csv roster.csv --out covers --only INTJ,ENTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := util.NewLogger(c.logLevel, "")
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.out, "out", "o", ".", "Output directory")
	pf.StringVarP(&c.preset, "preset", "p", "all", "Preset to render: desktop, mobile or all")
	pf.StringVarP(&c.template, "template", "t", "standard", "Layout template")
	pf.Float64Var(&c.ratio, "ratio", export.DefaultPixelRatio, "Export pixel ratio")
	pf.Uint64Var(&c.seed, "seed", 0, "Seed for palette and decorations (random when unset)")
	pf.IntVarP(&c.workers, "workers", "w", runtime.NumCPU(), "Concurrent renders")
	pf.StringVar(&c.logLevel, "log-level", "warn", "Log level")

	root.AddCommand(c.renderCmd(), c.batchCmd())
	return root
}

func (c *cli) renderCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one profile file (YAML or JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.LoadFile(file)
			if err != nil {
				return err
			}
			return c.run(cmd, []profile.Profile{p}, false)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Profile file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) batchCmd() *cobra.Command {
	var (
		csvPath string
		only    string
		match   string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every profile row of a roster CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := profile.LoadRoster(csvPath)
			if err != nil {
				return err
			}
			ps = profile.FilterRoster(ps, profile.RosterFilter{
				Personalities: splitList(only),
				FreeWords:     match,
			})
			if len(ps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles matched")
				return nil
			}
			return c.run(cmd, ps, true)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "Roster CSV (required)")
	cmd.Flags().StringVar(&only, "only", "", "Comma separated personality codes to keep")
	cmd.Flags().StringVar(&match, "match", "", "Words that must appear in name, quote or hobbies")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, ps []profile.Profile, numbered bool) error {
	targets, err := resolvePresets(c.preset)
	if err != nil {
		return err
	}
	if _, ok := layout.TemplateByID(c.template); !ok {
		return fmt.Errorf("unknown template %q", c.template)
	}
	if c.ratio <= 0 || c.ratio > 4 {
		return fmt.Errorf("ratio must be in (0, 4], got %v", c.ratio)
	}

	var seed *uint64
	if cmd.Flags().Changed("seed") {
		seed = &c.seed
	}
	r, err := newRunner(runnerOptions{
		Template: c.template,
		Ratio:    c.ratio,
		Seed:     seed,
		Workers:  c.workers,
		Logger:   c.logger,
	})
	if err != nil {
		return err
	}

	var jobs []job
	for i, p := range ps {
		name := p.Name
		if numbered {
			name = fmt.Sprintf("%03d-%s", i+1, p.Name)
		}
		for _, t := range targets {
			jobs = append(jobs, job{profile: p, name: name, target: t})
		}
	}

	paths, err := r.run(cmd.Context(), jobs, c.out)
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return err
}

func resolvePresets(name string) ([]layout.Target, error) {
	if strings.EqualFold(name, "all") {
		return layout.Targets(), nil
	}
	t, ok := layout.TargetByName(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return []layout.Target{t}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
