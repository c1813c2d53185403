package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/engagement/config"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/pkg/database"
	"github.com/d60-Lab/engagement/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Driver  string
	DSN     string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for engagementctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "engagementctl",
		Short: "Operator tool for the campus engagement service",
		Long:  "Schema migration, counter reconciliation and demo data seeding for the engagement store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				return logger.Init("debug", "console")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver override (postgres|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database DSN override")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openStore loads config, applies flag overrides and connects.
// The returned close func releases the connection pool.
func openStore(ctx context.Context, opts *RootOptions) (*repository.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.Driver != "" {
		cfg.Database.Driver = opts.Driver
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	// sqlite 只允许单写者，串行化以免 database is locked
	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return repository.NewStore(db), func() { _ = sqlDB.Close() }, nil
}
