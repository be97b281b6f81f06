// Package cli implements the scanify command line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scanify/backend/config"
	"github.com/scanify/backend/internal/app"
	"github.com/scanify/backend/internal/infrastructure/logging"
)

// options are the persistent flags shared by every subcommand
type options struct {
	configPath string
	stockists  string
	products   string
	jsonOut    bool
	verbose    bool
}

// NewRootCmd builds the scanify command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "scanify",
		Short: "Stockist statement matching against master data",
		Long: `Scanify resolves stockist statement files and the product rows read from them
against the stockist and product masters.

It can identify the stockist behind a filename, match product names and packs to the
catalog, suggest stockists for every file of an archive, and import a month of
statements from a ZIP archive.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: config.yaml in ., ./config or /etc/scanify)")
	flags.StringVar(&opts.stockists, "stockists", "", "stockist master file (.csv or .yaml), overrides config")
	flags.StringVar(&opts.products, "products", "", "product master file (.csv or .yaml), overrides config")
	flags.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log matcher diagnostics")

	cmd.AddCommand(newMatchFileCmd(opts))
	cmd.AddCommand(newMatchProductCmd(opts))
	cmd.AddCommand(newSuggestCmd(opts))
	cmd.AddCommand(newImportCmd(opts))

	return cmd
}

// open loads configuration, applies flag overrides and wires the application
func (o *options) open(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.stockists != "" || o.products != "" {
		cfg.Master.Source = "file"
	}
	if o.stockists != "" {
		cfg.Master.StockistsFile = o.stockists
	}
	if o.products != "" {
		cfg.Master.ProductsFile = o.products
	}

	level := "error"
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger.With(zap.String("cmd", "scanify")))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
