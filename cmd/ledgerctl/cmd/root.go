package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/contractpay/settlement-backend/config"
	"github.com/contractpay/settlement-backend/internal/logger"
	"github.com/contractpay/settlement-backend/internal/storage/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DBOpener opens the ledger database from a DSN.
type DBOpener func(ctx context.Context, dsn string) (*sql.DB, error)

type cli struct {
	v      *viper.Viper
	openDB DBOpener
}

func Execute() error {
	return NewRootCmd(openPostgres).Execute()
}

// NewRootCmd builds the ledgerctl command tree.
func NewRootCmd(openDB DBOpener) *cobra.Command {
	c := &cli{v: viper.New(), openDB: openDB}
	var cfgFile string

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "ledgerctl operates the settlement ledger database",
		Long: `ledgerctl is the operator tool for the settlement ledger.

Common workflows:

  Apply migrations and load the demo data:
    ledgerctl migrate up
    ledgerctl seed --file internal/seed/fixtures/default.yaml

  Run the admin reports (dates are MM-DD-YYYY, end exclusive):
    ledgerctl report best-profession --start 08-01-2020 --end 08-31-2020
    ledgerctl report best-clients --start 08-01-2020 --end 08-31-2020 --limit 3

Configuration:
  LEDGER_DSN        Postgres DSN (falls back to the DB_* variables)
  LEDGER_LOG_LEVEL  log level for ledger operations`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	root.PersistentFlags().String("dsn", "", "Postgres DSN")
	root.PersistentFlags().String("log-level", "warn", "log level")
	c.v.BindPFlag("dsn", root.PersistentFlags().Lookup("dsn"))
	c.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(c.migrateCmd(), c.seedCmd(), c.reportCmd(), c.payCmd(), c.depositCmd())
	return root
}

func (c *cli) initConfig(cfgFile string) error {
	c.v.SetEnvPrefix("LEDGER")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	c.v.SetConfigFile(cfgFile)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	return nil
}

func (c *cli) dsn() (string, error) {
	if dsn := c.v.GetString("dsn"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return postgres.DSN(&cfg.Database), nil
}

func (c *cli) db(ctx context.Context) (*sql.DB, error) {
	dsn, err := c.dsn()
	if err != nil {
		return nil, err
	}
	return c.openDB(ctx, dsn)
}

func (c *cli) logger() *zap.Logger {
	l, err := logger.New("cli", c.v.GetString("log_level"))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
