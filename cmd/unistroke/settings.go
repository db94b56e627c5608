package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change runtime recognizer settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective settings",
	Args:  cobra.NoArgs,
	RunE:  listSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Store a setting override",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.SettingKeys(),
	RunE:      setSetting,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsListCmd, settingsSetCmd)
}

func listSettings(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		settings := a.Settings()
		for _, key := range config.SettingKeys() {
			fmt.Printf("%-32s %s\n", key, settings[key])
		}
		return nil
	})
}

func setSetting(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		if err := a.SetSetting(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], a.Settings()[args[0]])
		return nil
	})
}
