package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gopkg.in/guregu/null.v3"

	"github.com/biocodices/vcf2table/vcf"
)

// fixedNames are the table columns every conversion carries, in order.
var fixedNames = []string{"chrom", "pos", "id", "ref", "alt", "qual", "filter"}

// Assembler accumulates records and materializes them into a dataframe.
// INFO keys (and FORMAT keys, when format data is kept) become columns in
// the order they are first seen across the whole file.
type Assembler struct {
	proj           *Projector
	formatData     bool
	normalizeChrom bool

	recs     []*vcf.Record
	infoKeys []string
	infoSeen map[string]bool
	fmtKeys  []string
	fmtSeen  map[string]bool
}

// NewAssembler creates an empty assembler producing variant-only tables.
func NewAssembler() *Assembler {
	return &Assembler{
		infoSeen: make(map[string]bool),
		fmtSeen:  make(map[string]bool),
	}
}

// SetProjector enables genotype columns for the projector's selection.
func (a *Assembler) SetProjector(p *Projector) {
	a.proj = p
}

// SetFormatData switches from one genotype column per sample to one column
// per (sample, FORMAT key) pair.
func (a *Assembler) SetFormatData(keep bool) {
	a.formatData = keep
}

// SetNormalizeChrom rewrites chrom cells with vcf.NormalizeChrom.
func (a *Assembler) SetNormalizeChrom(normalize bool) {
	a.normalizeChrom = normalize
}

// Add appends a record and folds its keys into the column unions.
func (a *Assembler) Add(rec *vcf.Record) {
	a.recs = append(a.recs, rec)

	for _, k := range rec.Info.Keys() {
		if !a.infoSeen[k] {
			a.infoSeen[k] = true
			a.infoKeys = append(a.infoKeys, k)
		}
	}
	if a.proj != nil && a.formatData {
		for _, k := range rec.FormatKeys {
			if !a.fmtSeen[k] {
				a.fmtSeen[k] = true
				a.fmtKeys = append(a.fmtKeys, k)
			}
		}
	}
}

// Len returns the number of accumulated records.
func (a *Assembler) Len() int {
	return len(a.recs)
}

// Frame materializes the accumulated records. Column order is the fixed
// columns, then INFO keys in first-seen order, then genotype columns
// grouped per sample in selection order. Cells with no value hold the
// missing marker.
func (a *Assembler) Frame() (dataframe.DataFrame, error) {
	n := len(a.recs)

	chrom := make([]string, n)
	pos := make([]int, n)
	id := make([]string, n)
	ref := make([]string, n)
	alt := make([]string, n)
	qual := make([]string, n)
	filter := make([]string, n)

	for i, rec := range a.recs {
		chrom[i] = rec.Chrom
		if a.normalizeChrom {
			chrom[i] = vcf.NormalizeChrom(rec.Chrom)
		}
		pos[i] = int(rec.Pos)
		id[i] = nullCell(rec.ID)
		ref[i] = rec.Ref
		alt[i] = altCell(rec.Alt)
		qual[i] = qualCell(rec.Qual)
		filter[i] = nullCell(rec.Filter)
	}

	cols := []series.Series{
		series.New(chrom, series.String, "chrom"),
		series.New(pos, series.Int, "pos"),
		series.New(id, series.String, "id"),
		series.New(ref, series.String, "ref"),
		series.New(alt, series.String, "alt"),
		series.New(qual, series.String, "qual"),
		series.New(filter, series.String, "filter"),
	}

	for _, key := range a.infoKeys {
		values := make([]string, n)
		for i, rec := range a.recs {
			values[i] = vcf.Missing
			if v, ok := rec.Info.Get(key); ok {
				values[i] = v.String()
			}
		}
		cols = append(cols, series.New(values, series.String, infoColumn(key)))
	}

	cols = append(cols, a.sampleColumns()...)

	df := dataframe.New(cols...)
	if df.Err != nil {
		return df, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

// sampleColumns builds the genotype columns for the current mode.
func (a *Assembler) sampleColumns() []series.Series {
	if a.proj == nil {
		return nil
	}

	n := len(a.recs)
	var cols []series.Series

	if !a.formatData {
		for _, sample := range a.proj.Samples() {
			values := make([]string, n)
			for i, rec := range a.recs {
				values[i] = a.proj.GenotypeCell(rec, sample)
			}
			cols = append(cols, series.New(values, series.String, sample))
		}
		return cols
	}

	for _, sample := range a.proj.Samples() {
		for _, key := range a.fmtKeys {
			values := make([]string, n)
			for i, rec := range a.recs {
				values[i] = a.proj.FormatCell(rec, sample, key)
			}
			cols = append(cols, series.New(values, series.String, FormatColumn(sample, key)))
		}
	}
	return cols
}

// infoColumn renames INFO keys that collide with a fixed column name.
func infoColumn(key string) string {
	for _, name := range fixedNames {
		if key == name {
			return "info_" + key
		}
	}
	return key
}

func nullCell(s null.String) string {
	if !s.Valid {
		return vcf.Missing
	}
	return s.String
}

func altCell(alt []string) string {
	if len(alt) == 0 {
		return vcf.Missing
	}
	return strings.Join(alt, ",")
}

func qualCell(q null.Float) string {
	if !q.Valid {
		return vcf.Missing
	}
	return strconv.FormatFloat(q.Float64, 'g', -1, 64)
}
