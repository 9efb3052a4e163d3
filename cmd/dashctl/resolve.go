package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/feed"
	"github.com/nerrad567/gray-logic-dashboard/internal/pipeline"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
	"github.com/nerrad567/gray-logic-dashboard/internal/strategy"
)

type resolveOptions struct {
	registryPath string
	documentPath string
	width        float64
	columns      int
	fallback     string
	summary      bool
}

func newResolveCmd() *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a dashboard and print every view's layout as JSON",
		Long: `Resolve builds the dashboard graydash would serve for the given registry
export and document. Without --document the fallback strategy is used.

The registry export is a JSON object keyed by kind (entities, areas,
devices, floors, entity_registry), each holding the array published on
the matching registry topic.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.registryPath, "registry", "r", "", "registry export file (JSON)")
	flags.StringVarP(&opts.documentPath, "document", "f", "", "Lovelace document (JSON or YAML)")
	flags.Float64VarP(&opts.width, "width", "w", pipeline.DefaultWidth, "viewport width in pixels")
	flags.IntVar(&opts.columns, "columns", dashboard.DefaultColumns, "grid columns for classic views")
	flags.StringVar(&opts.fallback, "fallback", strategy.TypeOriginalStates, "strategy used when there is no document")
	flags.BoolVar(&opts.summary, "summary", false, "print the summary instead of full placements")
	return cmd
}

func runResolve(cmd *cobra.Command, opts resolveOptions) error {
	if opts.width <= 0 {
		return fmt.Errorf("width must be positive, got %v", opts.width)
	}

	snap := registry.Empty()
	if opts.registryPath != "" {
		var err error
		if snap, err = loadRegistry(opts.registryPath); err != nil {
			return err
		}
	}

	coord := pipeline.New(pipeline.Options{
		Columns:          opts.columns,
		Width:            opts.width,
		Layout:           pipeline.LayoutParams{Spacing: pipeline.DefaultSpacing},
		FallbackStrategy: opts.fallback,
	})
	res := coord.UpdateSnapshot(snap)

	if opts.documentPath != "" {
		data, err := os.ReadFile(opts.documentPath)
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		if res, err = coord.UpdateDocument(data); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if opts.summary {
		return enc.Encode(pipeline.Summarize(res))
	}
	return enc.Encode(res)
}

// loadRegistry reads a registry export and builds a snapshot from it.
func loadRegistry(path string) (*registry.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry export: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding registry export: %w", err)
	}

	payloads := make(map[string][]byte, len(raw))
	for kind, payload := range raw {
		payloads[kind] = payload
	}
	snap, err := feed.SnapshotFromPayloads(payloads)
	if err != nil {
		return nil, fmt.Errorf("registry export %s: %w", path, err)
	}
	return snap, nil
}
