package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/engagement/internal/repository"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the engagement tables",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repository.AutoMigrate(store.DB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return writeResult(cmd, rootOpts, map[string]interface{}{"migrated": true}, "schema up to date")
		},
	}
}
