package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/hook"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Inspect the hooks run on recognized strokes",
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hooks found in the hooks directory",
	Args:  cobra.NoArgs,
	RunE:  listHooks,
}

var hooksRunScore float64

var hooksRunCmd = &cobra.Command{
	Use:   "run <hook> <template>",
	Short: "Run a hook once as if template had been recognized",
	Args:  cobra.ExactArgs(2),
	RunE:  runHook,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksListCmd, hooksRunCmd)
	hooksRunCmd.Flags().Float64Var(&hooksRunScore, "score", 0, "score reported to the hook")
}

// discoverHooks loads the hooks from the configured directory.
func discoverHooks() (*hook.Manager, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	m := hook.NewManager(cfg.HooksDir())
	if err := m.Discover(); err != nil {
		return nil, nil, fmt.Errorf("failed to discover hooks: %w", err)
	}
	return m, cfg, nil
}

func listHooks(cmd *cobra.Command, args []string) error {
	m, _, err := discoverHooks()
	if err != nil {
		return err
	}

	hooks := m.List()
	if len(hooks) == 0 {
		fmt.Printf("No hooks in %s\n", m.HookDir())
		return nil
	}
	for _, h := range hooks {
		templates := "*"
		if len(h.Manifest.Templates) > 0 {
			templates = strings.Join(h.Manifest.Templates, ",")
		}
		fmt.Printf("%-20s %-24s %s\n", h.Manifest.Name, templates, h.Manifest.Description)
	}
	return nil
}

func runHook(cmd *cobra.Command, args []string) error {
	m, cfg, err := discoverHooks()
	if err != nil {
		return err
	}

	h, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}

	resp, err := hook.NewExecutor(cfg.Hooks.Timeout).Execute(cmd.Context(), h, &hook.Event{
		Template: args[1],
		Score:    hooksRunScore,
		Time:     time.Now(),
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("hook %s reported error: %s", h.Manifest.Name, resp.Error)
	}

	fmt.Printf("Hook %s succeeded", h.Manifest.Name)
	if len(resp.Data) > 0 {
		fmt.Printf(": %s", resp.Data)
	}
	fmt.Println()
	return nil
}
