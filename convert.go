// Package vcf2table converts VCF files into dataframes with one row per
// data line: the fixed VCF columns, one column per INFO key, and optional
// per-sample genotype columns.
package vcf2table

import (
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/biocodices/vcf2table/internal/table"
	"github.com/biocodices/vcf2table/vcf"
)

// Convert converts the VCF file at path with the given options. The path
// "-" reads from stdin.
func Convert(path string, opts Options) (dataframe.DataFrame, error) {
	return NewConverter(opts).Convert(path)
}

// AvailableSamples returns the sample identifiers declared in the file's
// header, in file order. Files without genotype columns yield an empty
// list.
func AvailableSamples(path string) ([]string, error) {
	r, err := vcf.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	header, err := vcf.ParseHeader(r)
	if err != nil {
		return nil, err
	}
	return header.Samples, nil
}

// SkippedLine identifies a data line dropped under the skip-malformed
// policy.
type SkippedLine struct {
	Line int
	Err  error
}

// Converter runs conversions with a fixed set of options.
type Converter struct {
	opts    Options
	logger  *zap.Logger
	skipped []SkippedLine
}

// NewConverter creates a converter.
func NewConverter(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{opts: opts, logger: logger}
}

// Convert reads the VCF file at path and returns its table. The path "-"
// reads from stdin.
func (c *Converter) Convert(path string) (dataframe.DataFrame, error) {
	if path == "-" {
		return c.ConvertReader(os.Stdin)
	}

	r, err := vcf.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer r.Close()

	return c.run(r, path)
}

// ConvertReader converts a VCF stream. Gzip content is detected the same
// way as for files.
func (c *Converter) ConvertReader(src io.Reader) (dataframe.DataFrame, error) {
	r, err := vcf.NewLineReader(src)
	if err != nil {
		return dataframe.DataFrame{}, &vcf.UnreadableFileError{Path: "-", Err: err}
	}
	defer r.Close()

	return c.run(r, "-")
}

// Skipped returns the lines dropped during the most recent conversion.
func (c *Converter) Skipped() []SkippedLine {
	return c.skipped
}

func (c *Converter) run(r *vcf.LineReader, name string) (dataframe.DataFrame, error) {
	c.skipped = nil

	header, err := vcf.ParseHeader(r)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	sel, err := c.selection(header)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	dec := vcf.NewDecoder(sel)
	asm := table.NewAssembler()
	asm.SetNormalizeChrom(c.opts.NormalizeChrom)
	if sel.Len() > 0 {
		proj := table.NewProjector(sel)
		proj.SetLogger(c.logger)
		asm.SetProjector(proj)
		asm.SetFormatData(c.opts.KeepFormatData)
	}

	if c.workers() == 1 {
		err = c.decodeSerial(r, name, dec, asm)
	} else {
		err = c.decodeParallel(r, name, dec, asm)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return asm.Frame()
}

// selection resolves the sample options against the header. No requested
// samples means a variant-only table.
func (c *Converter) selection(header *vcf.Header) (*vcf.SampleSelection, error) {
	if c.opts.AllSamples {
		return header.SelectAll(), nil
	}
	if len(c.opts.KeepSamples) == 0 {
		return nil, nil
	}
	return header.Select(c.opts.KeepSamples...)
}

func (c *Converter) workers() int {
	if c.opts.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.opts.Workers
}

func (c *Converter) decodeSerial(r *vcf.LineReader, name string, dec *vcf.Decoder, asm *table.Assembler) error {
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &vcf.UnreadableFileError{Path: name, Err: err}
		}
		if line == "" {
			continue
		}

		rec, err := dec.Decode(line, r.LineNumber())
		if err != nil {
			if c.skip(err) {
				continue
			}
			return err
		}
		asm.Add(rec)
	}
}

func (c *Converter) decodeParallel(r *vcf.LineReader, name string, dec *vcf.Decoder, asm *table.Assembler) error {
	workers := c.workers()
	items := make(chan workItem, 2*workers)
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			line, err := r.ReadLine()
			if err != nil {
				if err != io.EOF {
					readErr = err
				}
				return
			}
			if line == "" {
				continue
			}
			items <- workItem{seq: seq, line: line, lineNum: r.LineNumber()}
			seq++
		}
	}()

	results := parallelDecode(items, dec, workers)

	err := orderedCollect(results, func(res workResult) error {
		if res.err != nil {
			if c.skip(res.err) {
				return nil
			}
			return res.err
		}
		asm.Add(res.rec)
		return nil
	})
	if err != nil {
		return err
	}

	if readErr != nil {
		return &vcf.UnreadableFileError{Path: name, Err: readErr}
	}
	return nil
}

// skip applies the skip-malformed policy to a decode error. Only malformed
// records are skippable; header and read errors always abort.
func (c *Converter) skip(err error) bool {
	if !c.opts.SkipMalformed {
		return false
	}
	var merr *vcf.MalformedRecordError
	if !errors.As(err, &merr) {
		return false
	}
	c.skipped = append(c.skipped, SkippedLine{Line: merr.Line, Err: merr})
	c.logger.Warn("skipping malformed record",
		zap.Int("line", merr.Line),
		zap.String("record", merr.Record),
		zap.String("reason", merr.Message))
	return true
}
