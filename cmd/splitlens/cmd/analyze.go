package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/splitlens/splitlens/internal/engine"
	"github.com/splitlens/splitlens/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <application-id>",
	Short: "Analyze one application and print the result as JSON",
	Long: `Run the full decomposition analysis for one application.

The analyze command:
- Loads the application snapshot from .splitlens/analysis.db
- Builds the structural call graph
- Aggregates the package diagram
- Traces per-endpoint data flows
- Detects community-based service boundaries
- Prints the consolidated result as JSON on stdout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid application id %q", args[0])
		}

		st, err := store.Open(GetConfig().Database.Dir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		eng := engine.New(st, newLogger(), detectorOptions())
		result, err := eng.Analyze(cmd.Context(), appID)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
