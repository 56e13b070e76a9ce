package vcf2table

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocodices/vcf2table/vcf"
)

const sampleVCF = "##fileformat=VCFv4.1\n" +
	"##INFO=<ID=AC,Number=A,Type=Integer,Description=\"Allele count\">\n" +
	"##INFO=<ID=AF,Number=A,Type=Float,Description=\"Allele frequency\">\n" +
	"##INFO=<ID=DB,Number=0,Type=Flag,Description=\"dbSNP membership\">\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"##FORMAT=<ID=DP,Number=1,Type=Integer,Description=\"Read depth\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tHG00096\tHG00097\n" +
	"1\t10177\trs367896724\tA\tAC\t100\tPASS\tAC=1;AF=0.425\tGT:DP\t1|0:12\t0|0:9\n" +
	"1\t10352\trs555500075\tT\tTA\t88\tPASS\tAC=2;AF=0.4377;DB\tGT:DP\t1|0:11\t0|1:13\n" +
	"1\t11008\t.\tC\tG\t.\t.\tAF=0.0881\tGT\t0|0\t0|1\n" +
	"2\t10179\trs201752861\tC\tA,T\t45\tq10\tAC=1,1;AF=0.02,0.01\tGT:DP\t1|2:7\t0|0:10\n"

func writeVCF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeVCFGz(t *testing.T, content string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "test.vcf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// column extracts a named column from a Records() matrix.
func column(t *testing.T, records [][]string, name string) []string {
	t.Helper()
	idx := -1
	for i, n := range records[0] {
		if n == name {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0, "column %s not found in %v", name, records[0])

	out := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		out = append(out, row[idx])
	}
	return out
}

func TestConvertVariantOnly(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{})
	require.NoError(t, err)

	want := [][]string{
		{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "AC", "AF", "DB"},
		{"1", "10177", "rs367896724", "A", "AC", "100", "PASS", "1", "0.425", "."},
		{"1", "10352", "rs555500075", "T", "TA", "88", "PASS", "2", "0.4377", "true"},
		{"1", "11008", ".", "C", "G", ".", ".", ".", "0.0881", "."},
		{"2", "10179", "rs201752861", "C", "A,T", "45", "q10", "1,1", "0.02,0.01", "."},
	}
	assert.Equal(t, want, df.Records())
	assert.Equal(t, 4, df.Nrow())
}

func TestConvertGzipMatchesPlain(t *testing.T) {
	plain, err := Convert(writeVCF(t, sampleVCF), Options{})
	require.NoError(t, err)

	gzipped, err := Convert(writeVCFGz(t, sampleVCF), Options{})
	require.NoError(t, err)

	assert.Equal(t, plain.Records(), gzipped.Records())
}

func TestConvertKeepSamples(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{KeepSamples: []string{"HG00096"}})
	require.NoError(t, err)

	records := df.Records()
	assert.Equal(t,
		[]string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "AC", "AF", "DB", "HG00096"},
		records[0])
	assert.Equal(t, []string{"1|0", "1|0", "0|0", "1|2"}, column(t, records, "HG00096"))
	assert.NotContains(t, records[0], "HG00097")
}

func TestConvertKeepSamplesOrder(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{
		KeepSamples: []string{"HG00097", "HG00096"},
	})
	require.NoError(t, err)

	names := df.Names()
	assert.Equal(t, []string{"HG00097", "HG00096"}, names[len(names)-2:])
	assert.Equal(t, []string{"0|0", "0|1", "0|1", "0|0"}, column(t, df.Records(), "HG00097"))
}

func TestConvertAllSamples(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{AllSamples: true})
	require.NoError(t, err)

	names := df.Names()
	assert.Equal(t, []string{"HG00096", "HG00097"}, names[len(names)-2:])
}

func TestConvertUnknownSample(t *testing.T) {
	_, err := Convert(writeVCF(t, sampleVCF), Options{KeepSamples: []string{"HG99999"}})

	var uerr *vcf.UnknownSampleError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "HG99999", uerr.Sample)
	assert.Equal(t, []string{"HG00096", "HG00097"}, uerr.Available)
}

func TestConvertFormatData(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{
		KeepSamples:    []string{"HG00096", "HG00097"},
		KeepFormatData: true,
	})
	require.NoError(t, err)

	records := df.Records()
	names := records[0]
	assert.Equal(t,
		[]string{"HG00096_GT", "HG00096_DP", "HG00097_GT", "HG00097_DP"},
		names[len(names)-4:])

	assert.Equal(t, []string{"12", "11", ".", "7"}, column(t, records, "HG00096_DP"))
	assert.Equal(t, []string{"0|0", "0|1", "0|1", "0|0"}, column(t, records, "HG00097_GT"))
}

func TestConvertFormatDataWithoutSamples(t *testing.T) {
	df, err := Convert(writeVCF(t, sampleVCF), Options{KeepFormatData: true})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "AC", "AF", "DB"},
		df.Names())
}

func TestConvertSingleSampleFormatData(t *testing.T) {
	content := "##fileformat=VCFv4.1\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tHG00096\tHG00097\n" +
		"chr1\t100\t.\tA\tT,G\t30\tPASS\tDP=50\tGT:AD\t0/1:10,5\t0/0:20,0\n"

	df, err := Convert(writeVCF(t, content), Options{
		KeepSamples:    []string{"HG00096"},
		KeepFormatData: true,
	})
	require.NoError(t, err)

	records := df.Records()
	require.Equal(t, 1, df.Nrow())
	assert.Equal(t, []string{"T,G"}, column(t, records, "alt"))
	assert.Equal(t, []string{"50"}, column(t, records, "DP"))
	assert.Equal(t, []string{"0/1"}, column(t, records, "HG00096_GT"))
	assert.Equal(t, []string{"10,5"}, column(t, records, "HG00096_AD"))
	for _, name := range records[0] {
		assert.False(t, strings.HasPrefix(name, "HG00097"), "unexpected column %s", name)
	}
}

func TestConvertFailsFastOnMalformedRecord(t *testing.T) {
	content := sampleVCF + "1\t999\tbroken\n"

	_, err := Convert(writeVCF(t, content), Options{})

	var merr *vcf.MalformedRecordError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 12, merr.Line)
}

func TestConvertSkipMalformed(t *testing.T) {
	content := sampleVCF + "1\t999\tbroken\n"
	path := writeVCF(t, content)

	for name, workers := range map[string]int{"serial": 1, "parallel": 4} {
		t.Run(name, func(t *testing.T) {
			c := NewConverter(Options{SkipMalformed: true, Workers: workers})
			df, err := c.Convert(path)
			require.NoError(t, err)

			assert.Equal(t, 4, df.Nrow())
			skipped := c.Skipped()
			require.Len(t, skipped, 1)
			assert.Equal(t, 12, skipped[0].Line)

			var merr *vcf.MalformedRecordError
			assert.ErrorAs(t, skipped[0].Err, &merr)
		})
	}
}

func TestConvertSkippedResetsBetweenRuns(t *testing.T) {
	c := NewConverter(Options{SkipMalformed: true, Workers: 1})

	_, err := c.Convert(writeVCF(t, sampleVCF+"1\t999\tbroken\n"))
	require.NoError(t, err)
	require.Len(t, c.Skipped(), 1)

	_, err = c.Convert(writeVCF(t, sampleVCF))
	require.NoError(t, err)
	assert.Empty(t, c.Skipped())
}

func TestConvertParallelMatchesSerial(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("##fileformat=VCFv4.1\n")
	sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n")
	for i := range 300 {
		fmt.Fprintf(&sb, "1\t%d\trs%d\tA\tT\t%d\tPASS\tDP=%d;K%d=1\tGT\t0|%d\n",
			1000+i, i, 30+i%50, i*2, i%7, i%2)
	}
	path := writeVCF(t, sb.String())
	opts := Options{KeepSamples: []string{"S1"}}

	opts.Workers = 1
	serial, err := Convert(path, opts)
	require.NoError(t, err)

	opts.Workers = 4
	parallel, err := Convert(path, opts)
	require.NoError(t, err)

	assert.Equal(t, 300, serial.Nrow())
	assert.Equal(t, serial.Records(), parallel.Records())
}

func TestConvertReader(t *testing.T) {
	c := NewConverter(Options{})
	df, err := c.ConvertReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())
}

func TestConvertReaderGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	c := NewConverter(Options{})
	df, err := c.ConvertReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())
}

func TestConvertHeaderOnly(t *testing.T) {
	content := "##fileformat=VCFv4.1\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tHG00096\tHG00097\n"

	df, err := Convert(writeVCF(t, content), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t,
		[]string{"chrom", "pos", "id", "ref", "alt", "qual", "filter"},
		df.Names())

	df, err = Convert(writeVCF(t, content), Options{AllSamples: true})
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t,
		[]string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "HG00096", "HG00097"},
		df.Names())
}

func TestConvertNormalizeChrom(t *testing.T) {
	content := "##fileformat=VCFv4.1\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tT\t.\tPASS\t.\n" +
		"23\t200\t.\tC\tG\t.\tPASS\t.\n"

	df, err := Convert(writeVCF(t, content), Options{NormalizeChrom: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "X"}, column(t, df.Records(), "chrom"))
}

func TestConvertMissingFile(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "nope.vcf"), Options{})

	var uerr *vcf.UnreadableFileError
	require.ErrorAs(t, err, &uerr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAvailableSamples(t *testing.T) {
	samples, err := AvailableSamples(writeVCF(t, sampleVCF))
	require.NoError(t, err)
	assert.Equal(t, []string{"HG00096", "HG00097"}, samples)

	variantOnly := "##fileformat=VCFv4.1\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t100\t.\tA\tT\t.\tPASS\t.\n"
	samples, err = AvailableSamples(writeVCF(t, variantOnly))
	require.NoError(t, err)
	assert.Empty(t, samples)
}
