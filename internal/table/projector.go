// Package table assembles decoded VCF records into a dataframe.
package table

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/biocodices/vcf2table/vcf"
)

// genotypeShape matches genotype calls like 0|1, ./. or 2.
var genotypeShape = regexp.MustCompile(`^(\.|\d+)([/|](\.|\d+))*$`)

// Projector turns a record's per-sample values into table cells.
type Projector struct {
	sel    *vcf.SampleSelection
	logger *zap.Logger
}

// NewProjector creates a projector for the given selection.
func NewProjector(sel *vcf.SampleSelection) *Projector {
	return &Projector{sel: sel, logger: zap.NewNop()}
}

// SetLogger sets the logger for genotype shape warnings.
func (p *Projector) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Samples returns the selected sample identifiers in selection order.
func (p *Projector) Samples() []string {
	return p.sel.Samples()
}

// GenotypeCell returns the sample's GT value, located by key lookup in the
// record's FORMAT list. Records without a GT key yield the missing marker.
// Values that do not look like genotype calls are kept but logged.
func (p *Projector) GenotypeCell(rec *vcf.Record, sample string) string {
	values := rec.SampleValues[sample]
	for i, key := range rec.FormatKeys {
		if key != "GT" {
			continue
		}
		v := values[i]
		if !genotypeShape.MatchString(v) {
			p.logger.Warn("unexpected genotype value",
				zap.String("sample", sample),
				zap.String("value", v),
				zap.String("chrom", rec.Chrom),
				zap.Int64("pos", rec.Pos))
		}
		return v
	}
	return vcf.Missing
}

// FormatCell returns the sample's value for the given FORMAT key, or the
// missing marker when this record's FORMAT list does not carry the key.
func (p *Projector) FormatCell(rec *vcf.Record, sample, key string) string {
	values := rec.SampleValues[sample]
	for i, k := range rec.FormatKeys {
		if k == key {
			return values[i]
		}
	}
	return vcf.Missing
}

// FormatColumn names the table column for a (sample, FORMAT key) pair.
func FormatColumn(sample, key string) string {
	return fmt.Sprintf("%s_%s", sample, key)
}
