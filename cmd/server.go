package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/dashboard"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/server"
	"github.com/clauselens/clauselens/internal/state"
	"github.com/clauselens/clauselens/internal/timeline"
	"github.com/clauselens/clauselens/internal/upload"
	"github.com/clauselens/clauselens/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the clauselens web frontend",
	Long:  `Starts the web server: dashboard, document upload, analysis results, timeline, and the Clause Oracle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort != 0 {
			cfg.Port = serverPort
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

		app := state.New(state.NewDBStore(database))
		if err := app.Restore(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not restore session state: %v\n", err)
		}
		client.SetToken(app.Token())
		center := notify.NewCenter()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.AllowAll,
		}, database, client, app, center)

		registerAllRoutes(srv, cfg)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "clauselens v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", cfg.BackendURL)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)

		return srv.Start()
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, cfg *config.Config) {
	r := srv.Router()

	client, app, center, database := srv.Client(), srv.App(), srv.Notifications(), srv.Database()

	// Dashboard list, delete, export, risk popup.
	dashboard.NewHandlers(client, app, center).RegisterRoutes(r)

	// Clause Oracle: inline panel and popup WebSocket.
	chatSvc := chat.NewService(client, chat.NewStore(database))
	chat.NewHandlers(chatSvc, app).RegisterRoutes(r)

	// Timeline tab and reminders.
	timeline.NewHandlers(timeline.NewService(client), app, center).RegisterRoutes(r)

	// Page shells: auth, upload, results.
	validator := upload.NewValidator(cfg.Upload.MaxSizeMB, cfg.Upload.WarnScans)
	web.NewHandlers(client, app, center, chatSvc, validator, database, cfg.CompanyName).RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
