package vcf

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
	"1\t100\t.\tA\tT\t50\tPASS\tDP=10\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, r *LineReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestOpenPlain(t *testing.T) {
	path := writeFile(t, "small.vcf", smallVCF)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	lines := readAll(t, r)
	assert.Len(t, lines, 3)
	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
	assert.Equal(t, 3, r.LineNumber())
}

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.vcf.gz")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, smallVCF), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	want := strings.Split(strings.TrimSuffix(smallVCF, "\n"), "\n")
	assert.Equal(t, want, readAll(t, r))
}

func TestOpenGzipMisnamed(t *testing.T) {
	// gzip content behind a plain .vcf name is still detected
	path := filepath.Join(t.TempDir(), "small.vcf")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, smallVCF), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	lines := readAll(t, r)
	require.Len(t, lines, 3)
	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.vcf"))

	var uerr *UnreadableFileError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Path, "nope.vcf")
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir())

	var uerr *UnreadableFileError
	require.ErrorAs(t, err, &uerr)
}

func TestReadLineCRLF(t *testing.T) {
	r, err := NewLineReader(strings.NewReader("a\r\nb\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, readAll(t, r))
}

func TestReadLineNoTrailingNewline(t *testing.T) {
	r, err := NewLineReader(strings.NewReader("a\nb"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, readAll(t, r))
	assert.Equal(t, 2, r.LineNumber())
}

func TestNewLineReaderGzip(t *testing.T) {
	r, err := NewLineReader(bytes.NewReader(gzipBytes(t, "x\ny\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, readAll(t, r))
}

func TestReadLineEmptyInput(t *testing.T) {
	r, err := NewLineReader(strings.NewReader(""))
	require.NoError(t, err)

	_, err = r.ReadLine()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, r.LineNumber())
}
