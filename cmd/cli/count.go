package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
)

// CountCmd représente la commande 'count'
var CountCmd = &cobra.Command{
	Use:   "count",
	Short: "Affiche le nombre total d'URLs raccourcies",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		linkService, _ := cmd.NewLinkService(db)

		count, err := linkService.Count(c.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(c.OutOrStdout(), "Nombre d'URLs: %d\n", count)
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(CountCmd)
}
