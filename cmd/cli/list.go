package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
)

var listOwnerFlag string

// ListCmd représente la commande 'list'
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Liste les URLs d'un propriétaire dans l'ordre de création",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		linkService, _ := cmd.NewLinkService(db)

		links, err := linkService.ListByOwner(c.Context(), listOwnerFlag)
		if err != nil {
			return err
		}

		if len(links) == 0 {
			fmt.Fprintf(c.OutOrStdout(), "Aucune URL pour %s\n", listOwnerFlag)
			return nil
		}
		for _, l := range links {
			fmt.Fprintf(c.OutOrStdout(), "%d\t%s\t%s\n", l.ID, l.ShortenedURL, l.OriginalURL)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVar(&listOwnerFlag, "owner", "", "Identity whose links are listed")
	ListCmd.MarkFlagRequired("owner")

	cmd.RootCmd.AddCommand(ListCmd)
}
