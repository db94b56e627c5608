package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "unistroke",
	Short: "Single-stroke gesture recognition",
	Long: `unistroke recognizes single-stroke gestures against a set of templates.

Templates are kept in a sqlite database under the data directory and can be
managed from the command line or over the HTTP API started by "serve".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openApp opens the template store and loads its templates into a new App.
// hooks may be nil. The caller must close the returned store.
func openApp(cfg *config.Config, hooks app.Notifier) (*app.App, *store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	a := app.New(app.Config{Store: st, Settings: cfg, Hooks: hooks})
	if err := a.LoadTemplates(); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return a, st, nil
}

// findWebDir searches for the web directory in common locations.
// It checks the configured directory, then "web", "../web", "../../web"
// and <data_dir>/web. Returns an empty string if none is found.
func findWebDir(cfg *config.Config) string {
	candidates := []string{cfg.WebDir, "web", "../web", "../../web", filepath.Join(cfg.DataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	if cfg.WebDir != "" {
		log.Printf("Web directory %s not found", cfg.WebDir)
	}
	return ""
}
