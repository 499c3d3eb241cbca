package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
)

var (
	longURLFlag string
	ownerFlag   string
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée une URL courte à partir d'une URL longue.",
	Long: `Cette commande vérifie que l'URL répond, la raccourcit pour le propriétaire
donné et affiche le hash généré.

Exemple:
  quickurl create --owner=alice --url="https://www.google.com/search?q=go+lang"`,
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		linkService, _ := cmd.NewLinkService(db)

		link, err := linkService.CreateLink(c.Context(), ownerFlag, longURLFlag)
		if err != nil {
			return fmt.Errorf("failed to create short link: %w", err)
		}

		fmt.Fprintf(c.OutOrStdout(), "URL courte créée avec succès:\n")
		fmt.Fprintf(c.OutOrStdout(), "Hash: %s\n", link.Hash)
		fmt.Fprintf(c.OutOrStdout(), "URL complète: %s\n", linkService.ShortURL(link.Hash))
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&longURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&ownerFlag, "owner", "", "Identity owning the link")
	CreateCmd.MarkFlagRequired("url")
	CreateCmd.MarkFlagRequired("owner")

	cmd.RootCmd.AddCommand(CreateCmd)
}
