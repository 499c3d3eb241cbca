package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/database"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured SQLite database and runs the GORM
automatic migration of the 'users' table. Existing QuickURL databases are
picked up as they are.`,
	RunE: func(c *cobra.Command, args []string) error {
		// Open already migrates; running it again keeps the command explicit.
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}

		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
