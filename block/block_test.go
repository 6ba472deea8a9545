package block

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfdata/blockstore/compressors"
	"github.com/perfdata/blockstore/core"
)

func writeTestBlock(t *testing.T, dir string, seq uint64, compressor core.Compressor, samples []Sample) string {
	t.Helper()
	w, err := NewWriter(WriterOptions{
		DataDir:    dir,
		Seq:        seq,
		Name:       "requests",
		DataType:   DataTypeHitCount,
		Sources:    []SourceDescriptor{{ID: "agent1"}},
		Dimensions: NewDimensionSet("host"),
		Compressor: compressor,
	})
	require.NoError(t, err)
	for _, s := range samples {
		require.NoError(t, w.Append(s))
	}
	path, err := w.Finish(context.Background())
	require.NoError(t, err)
	return path
}

func TestBlockFileRoundTrip(t *testing.T) {
	base := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	samples := []Sample{
		{Timestamp: base, Value: 10},
		{Timestamp: base + 1000, Value: 25},
		{Timestamp: base + 60000, Value: 3},
	}

	types := []core.CompressionType{
		core.CompressionNone,
		core.CompressionSnappy,
		core.CompressionLZ4,
		core.CompressionZSTD,
	}
	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			dir := t.TempDir()
			compressor, err := compressors.GetCompressor(ct)
			require.NoError(t, err)

			path := writeTestBlock(t, dir, 1, compressor, samples)
			assert.Equal(t, filepath.Join(dir, core.FormatBlockFileName(1)), path)

			r, err := Open(ReaderOptions{FilePath: path})
			require.NoError(t, err)
			defer r.Close()

			h := r.Header()
			assert.Equal(t, "requests", h.Name)
			assert.Equal(t, DataTypeHitCount, h.DataType)
			assert.Equal(t, uint32(3), h.DataCount)
			assert.Equal(t, base, h.StartTime.UnixMilli())
			assert.Equal(t, base+60000, h.EndTime.UnixMilli())
			assert.Equal(t, ct, r.Compression())
			assert.NotZero(t, h.SerializedSize())

			got, err := r.Samples()
			require.NoError(t, err)
			assert.Equal(t, samples, got)
		})
	}
}

func TestBlockFileHistogramPayload(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().UnixMilli()

	w, err := NewWriter(WriterOptions{
		DataDir:    dir,
		Seq:        7,
		Name:       "latency",
		DataType:   DataTypeVariableEncodedHistogram,
		Sources:    []SourceDescriptor{{ID: "agent1"}, {ID: "agent2"}},
		Dimensions: NewDimensionSet("endpoint"),
		Compressor: compressors.NewSnappyCompressor(),
	})
	require.NoError(t, err)

	samples := []Sample{
		{Timestamp: base, Raw: []byte{0x01, 0x02, 0x03}},
		{Timestamp: base + 500, Raw: []byte{}},
		{Timestamp: base + 900, Raw: []byte{0xff, 0x00, 0x10, 0x20}},
	}
	for _, s := range samples {
		require.NoError(t, w.Append(s))
	}
	path, err := w.Finish(context.Background())
	require.NoError(t, err)

	r, err := Open(ReaderOptions{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Samples()
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range samples {
		assert.Equal(t, samples[i].Timestamp, got[i].Timestamp)
		assert.Equal(t, len(samples[i].Raw), len(got[i].Raw))
		assert.Equal(t, append([]byte(nil), samples[i].Raw...), append([]byte(nil), got[i].Raw...))
	}
}

func TestBlockFileEmptyPayload(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBlock(t, dir, 2, &compressors.NoCompressionCompressor{}, nil)

	r, err := Open(ReaderOptions{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint32(0), r.Header().DataCount)
	got, err := r.Samples()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriterAppendAfterFinish(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WriterOptions{
		DataDir:    dir,
		Seq:        3,
		Name:       "m",
		DataType:   DataTypeHitCount,
		Dimensions: NewDimensionSet(),
		Compressor: &compressors.NoCompressionCompressor{},
	})
	require.NoError(t, err)
	_, err = w.Finish(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, w.Append(Sample{}), core.ErrClosed)
	_, err = w.Finish(context.Background())
	assert.ErrorIs(t, err, core.ErrClosed)
}

func TestWriterAbortLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WriterOptions{
		DataDir:    dir,
		Seq:        4,
		Name:       "m",
		DataType:   DataTypeHitCount,
		Dimensions: NewDimensionSet(),
		Compressor: &compressors.NoCompressionCompressor{},
	})
	require.NoError(t, err)
	require.NoError(t, w.Append(Sample{Timestamp: 1, Value: 1}))
	require.NoError(t, w.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterOptionValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := NewWriter(WriterOptions{DataDir: dir, Name: "", Dimensions: NewDimensionSet(), Compressor: &compressors.NoCompressionCompressor{}})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewWriter(WriterOptions{DataDir: dir, Name: "m", Dimensions: nil, Compressor: &compressors.NoCompressionCompressor{}})
	assert.ErrorIs(t, err, ErrNilDimensions)

	_, err = NewWriter(WriterOptions{DataDir: dir, Name: "m", Dimensions: NewDimensionSet()})
	assert.Error(t, err)
}

func TestOpenRejectsNonBlockFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.blk")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a block file"), 0o644))

	_, err := Open(ReaderOptions{FilePath: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidMagic)
}

func TestOpenRejectsTruncatedHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBlock(t, dir, 5, &compressors.NoCompressionCompressor{},
		[]Sample{{Timestamp: 100, Value: 1}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Cut inside the data header, past the file header.
	fileHeaderSize := (&core.FileHeader{}).Size()
	cutPath := filepath.Join(dir, "cut.blk")
	require.NoError(t, os.WriteFile(cutPath, data[:fileHeaderSize+3], 0o644))

	_, err = Open(ReaderOptions{FilePath: cutPath})
	require.Error(t, err)
}

func TestReaderSamplesAfterClose(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBlock(t, dir, 6, &compressors.NoCompressionCompressor{},
		[]Sample{{Timestamp: 100, Value: 1}})

	r, err := Open(ReaderOptions{FilePath: path})
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Samples()
	assert.ErrorIs(t, err, core.ErrClosed)
}
