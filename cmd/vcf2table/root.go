package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vcf2table",
		Short: "Convert VCF files into tabular form",
		Long: `vcf2table converts Variant Call Format files into flat tables:
one row per data line, the fixed VCF columns, one column per INFO key and
optional per-sample genotype columns. Plain and gzip-compressed input is
read transparently.`,
		Example: `  # Convert to tab-separated values on stdout
  vcf2table convert cohort.vcf.gz

  # Keep two samples' genotypes, write CSV
  vcf2table convert -s HG00096,HG00097 -f csv -o cohort.csv cohort.vcf.gz

  # Load into a DuckDB database for SQL queries
  vcf2table export --db cohort.duckdb cohort.vcf.gz`,
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log skipped lines and genotype warnings")

	cobra.OnInitialize(initConfig)

	root.AddCommand(newConvertCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newSamplesCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig loads ~/.vcf2table.yaml and VCF2TABLE_* environment variables.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcf2table")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VCF2TABLE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// newLogger builds the logger handed to the conversion pipeline. Warnings
// are only visible with --verbose.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
