package vcf2table

import "go.uber.org/zap"

// Options configures a conversion.
type Options struct {
	// KeepSamples lists the samples whose genotype data to include, in the
	// requested column order. Empty means variant columns only, unless
	// AllSamples is set.
	KeepSamples []string

	// AllSamples selects every sample declared in the header, in header
	// order.
	AllSamples bool

	// KeepFormatData emits one column per (sample, FORMAT key) pair instead
	// of a single genotype column per sample. It has no effect without
	// selected samples.
	KeepFormatData bool

	// SkipMalformed drops undecodable data lines from the table instead of
	// aborting the conversion. Dropped lines are reported by
	// Converter.Skipped.
	SkipMalformed bool

	// NormalizeChrom strips "chr" prefixes and rewrites 23 and 24 to X and
	// Y in the chrom column.
	NormalizeChrom bool

	// Workers is the number of decode workers. 1 decodes serially, 0 or
	// less uses every CPU. Row order does not depend on this setting.
	Workers int

	// Logger receives skip and genotype-shape warnings. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}
