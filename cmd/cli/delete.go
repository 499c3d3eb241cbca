package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
	customerrors "github.com/axellelanca/quickurl/internal/errors"
)

var (
	deleteOwnerFlag string
	deleteHashFlag  string
)

// DeleteCmd représente la commande 'delete'
var DeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Supprime une URL courte au nom de son propriétaire",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		linkService, _ := cmd.NewLinkService(db)

		err = linkService.DeleteLink(c.Context(), deleteOwnerFlag, deleteHashFlag)
		switch {
		case err == nil:
			fmt.Fprintln(c.OutOrStdout(), "URL deleted successfully!")
			return nil
		case errors.Is(err, customerrors.ErrNotOwner):
			return errors.New("you are not the owner of this URL")
		case errors.Is(err, customerrors.ErrNotFound):
			return fmt.Errorf("hash '%s' not found", deleteHashFlag)
		default:
			return err
		}
	},
}

func init() {
	DeleteCmd.Flags().StringVar(&deleteOwnerFlag, "owner", "", "Identity requesting the deletion")
	DeleteCmd.Flags().StringVar(&deleteHashFlag, "hash", "", "Hash of the link to delete")
	DeleteCmd.MarkFlagRequired("owner")
	DeleteCmd.MarkFlagRequired("hash")

	cmd.RootCmd.AddCommand(DeleteCmd)
}
