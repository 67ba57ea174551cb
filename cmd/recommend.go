package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/report"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score mod categories against observed play",
	Long: `Score each mod category (combat, building, crafting, vehicles,
exploration, difficulty) from 0.0 to 1.0 by how strongly the tracked players'
behavior leans toward it. High combat scores suggest weapon mods, high
difficulty scores suggest the server could be made harder, and so on.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	report.PrintRecommendations(os.Stdout, analytics.Recommendations(players))
	return nil
}
