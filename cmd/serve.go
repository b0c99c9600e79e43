package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/clauselens/clauselens/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the analyzed documents to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		client, err := buildClient(cmd.Context(), cfg, database)
		if err != nil {
			return err
		}
		if client.Token() == "" {
			fmt.Fprintln(os.Stderr, "Warning: no stored session. Run `clauselens login` first; tools will fail until then.")
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "clauselens MCP server started on stdio (backend=%s)\n", cfg.BackendURL)
		srv := mcpserver.NewServer(client)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
