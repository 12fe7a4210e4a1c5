package ops

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/database"
	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/tools/common"
	"github.com/logiscore/logiscore-backend/internal/tools/ui"
)

type options struct {
	envFile string
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "ops", Short: "Database and account operations"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newMigrateCommand(opts), newSeedCommand(opts), newPromoteAdminCommand(opts))
	return cmd
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "ops migrate", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				return []string{"schema migrated"}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "ops migrate", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newSeedCommand(opts *options) *cobra.Command {
	var adminEmail string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed sample forwarders and promote the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "ops seed", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				email := cfg.BootstrapAdminEmail
				if adminEmail != "" {
					email = adminEmail
				}
				report, err := database.SeedSync(db, email)
				if err != nil {
					return nil, err
				}
				details := []string{fmt.Sprintf("created %d forwarders", report.CreatedForwarders)}
				if report.PromotedAdmin {
					details = append(details, "promoted bootstrap admin: "+email)
				}
				if report.Noop {
					details = append(details, "nothing to do")
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "ops seed", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&adminEmail, "bootstrap-admin-email", "", "override bootstrap admin email")
	return cmd
}

func newPromoteAdminCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote-admin",
		Short: "Grant admin rights to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "ops promote-admin", func(ctx context.Context) ([]string, error) {
				normalized := strings.TrimSpace(strings.ToLower(email))
				if normalized == "" {
					return nil, fmt.Errorf("email is required")
				}
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				res := db.Model(&domain.User{}).Where("email = ?", normalized).Update("user_type", domain.UserTypeAdmin)
				if res.Error != nil {
					return nil, res.Error
				}
				if res.RowsAffected == 0 {
					return nil, fmt.Errorf("no account found for %s", normalized)
				}
				return []string{"promoted to admin: " + normalized}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "ops promote-admin", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email to promote")
	return cmd
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
