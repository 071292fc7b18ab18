// Command crmctl is the admin tool of the student CRM: it loads the JSON
// tables into a database backend, applies SQL migrations and validates
// table files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/studentcrm/internal/bootstrap"
	"github.com/yigit/studentcrm/internal/config"
	"github.com/yigit/studentcrm/internal/seed"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Student CRM administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath), "Path to config.yaml")

	rootCmd.AddCommand(
		newImportCmd(&configPath),
		newMigrateCmd(&configPath),
		newCheckCmd(),
	)
	return rootCmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the record tables of the configured backend with the JSON files of a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}
			switch cfg.Storage.Records.Driver {
			case config.DriverMongo, config.DriverPostgres:
			default:
				return fmt.Errorf("records driver %q has nothing to import into; set storage.records.driver to mongo or postgres", cfg.Storage.Records.Driver)
			}
			if dir == "" {
				dir = cfg.Storage.Records.DataDir
			}

			ctx := cmd.Context()
			stores, err := bootstrap.SetupStores(ctx, cfg, lgr)
			if err != nil {
				return err
			}
			defer stores.Close(context.Background())

			writer, err := stores.RecordWriter()
			if err != nil {
				return err
			}
			results, importErr := seed.ImportDirectory(ctx, dir, writer, lgr)
			printResults(cmd.OutOrStdout(), results)
			return importErr
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory holding <table>.json files (default: storage.records.data_dir)")
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations to PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}
			database, err := bootstrap.SetupPostgres(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			database.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that every table file of a directory parses",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := seed.CheckDirectory(cmd.Context(), dir)
			printResults(cmd.OutOrStdout(), results)
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "data", "Directory holding <table>.json files")
	return cmd
}

func printResults(out io.Writer, results []seed.TableResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS\tSTATUS")
	for _, r := range results {
		status := "ok"
		switch {
		case r.Skipped:
			status = "missing"
		case r.Err != nil:
			status = "error: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Table, r.Rows, status)
	}
	w.Flush()
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
