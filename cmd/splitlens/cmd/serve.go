package cmd

import (
	"github.com/spf13/cobra"

	"github.com/splitlens/splitlens/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SplitLens API server",
	Long: `Start a local HTTP server exposing the analysis views as JSON.

Endpoints:
- GET /api/applications                    - list analyzable applications
- GET /api/applications/:id                - full analysis result
- GET /api/applications/:id/callgraph      - call graph nodes and edges
- GET /api/applications/:id/packages       - package diagram
- GET /api/applications/:id/flows          - per-endpoint data flows
- GET /api/applications/:id/communities    - proposed service boundaries
- GET /api/applications/:id/summary        - consolidated summary
- GET /api/health                          - health check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		port := servePort
		if !cmd.Flags().Changed("port") && cfg.Server.Port != 0 {
			port = cfg.Server.Port
		}

		s, err := server.New(server.Config{
			Port:       port,
			ProjectDir: cfg.Database.Dir,
			Detector:   detectorOptions(),
		}, newLogger())
		if err != nil {
			return err
		}
		return s.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to run the API server on")
}
