package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biocodices/vcf2table"
)

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples <input.vcf[.gz]>",
		Short: "List the samples declared in a VCF header",
		Example: `  vcf2table samples cohort.vcf.gz
  vcf2table convert -s "$(vcf2table samples cohort.vcf.gz | head -1)" cohort.vcf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := vcf2table.AvailableSamples(args[0])
			if err != nil {
				return err
			}

			if len(samples) == 0 {
				fmt.Fprintf(os.Stderr, "No sample columns in %s\n", args[0])
				return nil
			}
			for _, sample := range samples {
				fmt.Println(sample)
			}
			return nil
		},
	}
}
