package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
)

var recognizeAll bool

var recognizeCmd = &cobra.Command{
	Use:   "recognize <stroke.json>",
	Short: "Recognize a stroke given as a JSON array of points",
	Args:  cobra.ExactArgs(1),
	RunE:  recognizeStroke,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
	recognizeCmd.Flags().BoolVarP(&recognizeAll, "all", "a", false, "print the score against every template")
}

func recognizeStroke(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var points []gesture.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	return withApp(func(a *app.App) error {
		res, err := a.Recognize(points)
		if err != nil {
			return err
		}
		fmt.Printf("%s (score: %.3f, angle: %.1f°)\n", res.Name, res.Score, res.Angle*180/math.Pi)

		if !recognizeAll {
			return nil
		}
		scores, err := a.Scores(points)
		if err != nil {
			return err
		}
		for _, s := range scores {
			fmt.Printf("  %-12s %8.3f\n", s.Name, s.Score)
		}
		return nil
	})
}
