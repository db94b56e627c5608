package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

// templateFile is the on-disk shape of one template in templates.json.
type templateFile struct {
	Name   string          `json:"name"`
	Points []gesture.Point `json:"points"`
}

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Manage gesture templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  listTemplates,
}

var templatesAddCmd = &cobra.Command{
	Use:   "add <name> <stroke.json>",
	Short: "Add a template from a JSON array of points",
	Args:  cobra.ExactArgs(2),
	RunE:  addTemplate,
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <templates.json>",
	Short: "Import raw templates from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  importTemplates,
}

var templatesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the normalized templates as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  exportTemplates,
}

var templatesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a template by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  removeTemplate,
}

var templatesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the built-in templates to an empty store",
	Args:  cobra.NoArgs,
	RunE:  seedTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd, templatesAddCmd, templatesImportCmd,
		templatesExportCmd, templatesRemoveCmd, templatesSeedCmd)
}

// withApp loads the config, opens the store and runs fn.
func withApp(fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, st, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(a)
}

func listTemplates(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		templates, err := a.Templates()
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates stored")
			return nil
		}
		fmt.Println("Stored templates:")
		for _, t := range templates {
			fmt.Printf("  %s  %-12s %4d points  %s\n", t.ID, t.Name, len(t.Points), t.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func addTemplate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var points []gesture.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[1], err)
	}

	return withApp(func(a *app.App) error {
		t, err := a.AddTemplate(args[0], points)
		if err != nil {
			return err
		}
		fmt.Printf("Added template %s (%s)\n", t.Name, t.ID)
		return nil
	})
}

func importTemplates(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var files []templateFile
	if err := json.Unmarshal(data, &files); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	gestures := make([]gesture.Gesture, 0, len(files))
	for _, f := range files {
		gestures = append(gestures, gesture.New(f.Name, f.Points))
	}

	return withApp(func(a *app.App) error {
		report := a.Import(gestures)
		fmt.Printf("Imported %d templates\n", report.Added)
		for _, s := range report.Skipped {
			fmt.Printf("  skipped #%d %q: %s\n", s.Index, s.Name, s.Error)
		}
		return nil
	})
}

func exportTemplates(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		templates := a.Export()
		out := make([]templateFile, 0, len(templates))
		for _, g := range templates {
			out = append(out, templateFile{Name: g.Name(), Points: g.Points()})
		}

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	})
}

func removeTemplate(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		if err := a.RemoveTemplate(args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("template not found: %s", args[0])
			}
			return err
		}
		fmt.Println("Removed template:", args[0])
		return nil
	})
}

func seedTemplates(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		added, err := a.Seed()
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Println("Store already has templates, nothing to seed")
			return nil
		}
		fmt.Printf("Seeded %d built-in templates\n", added)
		return nil
	})
}
