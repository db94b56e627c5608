package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/hook"
	"github.com/ayusman/unistroke/internal/render"
	"github.com/ayusman/unistroke/internal/server"
)

var (
	serveAddr   string
	serveNoSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides the config file)")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "do not add the built-in templates to an empty store")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("unistroke - Single-Stroke Gesture Recognition")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	hooks := hook.NewManager(cfg.HooksDir())
	if err := hooks.Discover(); err != nil {
		log.Printf("Failed to discover hooks in %s: %v", hooks.HookDir(), err)
	} else {
		log.Printf("Loaded %d hooks from %s", len(hooks.List()), hooks.HookDir())
	}
	dispatcher := hook.NewDispatcher(hooks, hook.NewExecutor(cfg.Hooks.Timeout))

	a, st, err := openApp(cfg, dispatcher)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Printf("Using template database %s", st.Path())

	if !serveNoSeed {
		added, err := a.Seed()
		if err != nil {
			log.Printf("Failed to seed templates: %v", err)
		} else if added > 0 {
			log.Printf("Seeded %d built-in templates", added)
		}
	}

	webDir := findWebDir(cfg)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		App:        a,
		Preview:    render.Options{Size: cfg.Preview.Size, Thickness: cfg.Preview.Thickness},
		PreviewTTL: cfg.Preview.CacheTTL,
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
