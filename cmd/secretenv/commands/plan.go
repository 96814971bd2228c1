package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/config"
)

// planEntry is one row of plan output.
type planEntry struct {
	Source     string `json:"source"`
	Key        string `json:"key"`
	ResourceID string `json:"resource_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

func NewPlanCommand(cfg *config.Config) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which references would be resolved (no values fetched)",
		Long: `Plan lists every secret reference found in the configured sources and the
backend identifier each one would resolve to, without making any backend
calls. Useful for debugging configuration before a sync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			// No fetches happen during a plan, so no backend is needed.
			resolver := newResolver(nil, cfg)

			var entries []planEntry
			for _, src := range loadSources(cfg) {
				for _, p := range resolver.Plan(src.Vars) {
					entry := planEntry{Source: src.Name, Key: p.Key, ResourceID: p.ResourceID}
					if p.Err != nil {
						entry.Error = p.Err.Error()
					}
					entries = append(entries, entry)
				}
			}
			entries = append(entries, planEntry{
				Source:     "bundle",
				Key:        "*",
				ResourceID: cfg.Definition.Bundle.Name,
			})

			sort.Slice(entries, func(i, j int) bool {
				if entries[i].Source != entries[j].Source {
					return entries[i].Source < entries[j].Source
				}
				return entries[i].Key < entries[j].Key
			})

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tKEY\tRESOLVES TO")
			for _, e := range entries {
				target := e.ResourceID
				if e.Error != "" {
					target = "ERROR: " + e.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Source, e.Key, target)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")

	return cmd
}
