package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
	customerrors "github.com/axellelanca/quickurl/internal/errors"
)

// ResolveCmd représente la commande 'resolve'
var ResolveCmd = &cobra.Command{
	Use:   "resolve [hash]",
	Short: "Affiche l'URL d'origine d'un hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		hash := args[0]

		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		linkService, _ := cmd.NewLinkService(db)

		url, err := linkService.Resolve(c.Context(), hash)
		if err != nil {
			if errors.Is(err, customerrors.ErrNotFound) {
				return fmt.Errorf("hash '%s' not found", hash)
			}
			return err
		}

		fmt.Fprintln(c.OutOrStdout(), url)
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(ResolveCmd)
}
