package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"daytiles/internal/timeutil"
	"daytiles/storage"
	"daytiles/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort   int
	serveDBPath string
	serveDay    string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI with the interactive day view",
	Long: `Start a local HTTP server with a day page and a JSON API.

The day page lays out the entries of one day as tiles and recomputes the layout
when the window is resized. The API lists, creates, updates, deletes and
reconciles entries, and accepts file uploads for import.`,
	Example: `
  # Start local server on the configured port
  daytiles serve

  # Start with explicit db and port, opening a given day
  daytiles serve --port 9090 --db ./daytiles.db --day 2026-03-02
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		startDay, err := parseServeDay(serveDay)
		if err != nil {
			return err
		}

		port := cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		store, err := storage.OpenSQLite(resolveDBPath(serveDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:              addr,
			Handler:           withServeDayRedirect(web.NewServer(store, *cfg, logger), startDay),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		logger.Info("listening", zap.String("url", listenURL), zap.String("db", resolveDBPath(serveDBPath, cfg.Storage.DB)))
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", listenURL)
		if !serveNoOpen {
			target := listenURL
			if startDay != "" {
				target = target + "/day/" + startDay
			}
			if openErr := openURLInBrowser(target); openErr != nil {
				logger.Warn("failed to open browser", zap.Error(openErr))
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (default: serve.port from config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: storage.db from config)")
	serveCmd.Flags().StringVar(&serveDay, "day", "", "Day opened at /, format YYYY-MM-DD (default: today)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

// parseServeDay normalizes the --day value. An empty value stays empty and
// leaves / to the server, which opens today.
func parseServeDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	day, err := timeutil.ParseDay(value)
	if err != nil {
		return "", fmt.Errorf("invalid --day value: %w", err)
	}
	return timeutil.FormatDay(day), nil
}

func withServeDayRedirect(next http.Handler, day string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" && day != "" {
			http.Redirect(w, r, "/day/"+day, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
