package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/biocodices/vcf2table"
	"github.com/biocodices/vcf2table/internal/table"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input.vcf[.gz]>",
		Short: "Convert a VCF file to CSV or TSV",
		Long: `Convert a VCF file into a flat table and write it to stdout or a file.
Use '-' as the input path to read from stdin.`,
		Example: `  vcf2table convert cohort.vcf.gz
  vcf2table convert -s HG00096 -o genotypes.tsv cohort.vcf.gz
  vcf2table convert --format-data -s HG00096,HG00097 cohort.vcf
  zcat cohort.vcf.gz | vcf2table convert -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0])
		},
	}

	addSampleFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "", "output format: tsv or csv (default: tsv)")

	return cmd
}

// addSampleFlags registers the conversion flags shared by convert and
// export.
func addSampleFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("keep-samples", "s", nil,
		"samples to include as genotype columns, in order")
	cmd.Flags().Bool("all-samples", false,
		"include every sample declared in the header")
	cmd.Flags().Bool("format-data", false,
		"one column per sample and FORMAT key instead of genotypes only")
	cmd.Flags().Bool("skip-malformed", false,
		"drop undecodable data lines instead of aborting")
	cmd.Flags().Bool("normalize-chrom", false,
		"strip chr prefixes and map 23/24 to X/Y")
	cmd.Flags().Int("workers", 0, "decode workers, 0 means all CPUs")
}

// sampleOptions builds conversion options from flags, falling back to
// config file values for flags that were not set on the command line.
func sampleOptions(cmd *cobra.Command) vcf2table.Options {
	keep, _ := cmd.Flags().GetStringSlice("keep-samples")
	all, _ := cmd.Flags().GetBool("all-samples")
	formatData, _ := cmd.Flags().GetBool("format-data")
	normalize, _ := cmd.Flags().GetBool("normalize-chrom")

	skip, _ := cmd.Flags().GetBool("skip-malformed")
	if !cmd.Flags().Changed("skip-malformed") && viper.IsSet("convert.skip_malformed") {
		skip = viper.GetBool("convert.skip_malformed")
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if !cmd.Flags().Changed("workers") && viper.IsSet("convert.workers") {
		workers = viper.GetInt("convert.workers")
	}

	return vcf2table.Options{
		KeepSamples:    keep,
		AllSamples:     all,
		KeepFormatData: formatData,
		SkipMalformed:  skip,
		NormalizeChrom: normalize,
		Workers:        workers,
		Logger:         newLogger(),
	}
}

// outputFormat resolves the output format flag and its config fallback.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = viper.GetString("convert.format")
	}
	if format == "" {
		format = "tsv"
	}
	if format != "tsv" && format != "csv" {
		return "", fmt.Errorf("unknown output format %q (want tsv or csv)", format)
	}
	return format, nil
}

func runConvert(cmd *cobra.Command, input string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	conv := vcf2table.NewConverter(sampleOptions(cmd))
	df, err := conv.Convert(input)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		err = table.WriteCSV(df, out)
	default:
		err = table.WriteTSV(df, out)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Converted %s\n", input)
	fmt.Fprintf(os.Stderr, "  Rows: %d\n", df.Nrow())
	fmt.Fprintf(os.Stderr, "  Columns: %d\n", df.Ncol())
	if n := len(conv.Skipped()); n > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped: %d malformed lines\n", n)
	}

	return nil
}
