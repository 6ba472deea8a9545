package stream

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteString("requests"))
	require.NoError(t, w.WriteString("")) // empty strings are legal
	require.NoError(t, w.WriteVarint64(-1420070400000))
	require.NoError(t, w.WriteVarint32(-42))
	require.NoError(t, w.WriteUvarint32(math.MaxUint32))
	require.NoError(t, w.WriteUvarint64(1<<60))
	require.NoError(t, w.WriteByte(0x7f))

	require.Equal(t, uint64(buf.Len()), w.BytesWritten(), "writer byte count must match buffer length")

	r := NewReader(bytes.NewReader(buf.Bytes()))

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "requests", s)

	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)

	v64, err := r.ReadVarint64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1420070400000), v64)

	v32, err := r.ReadVarint32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), v32)

	u32, err := r.ReadUvarint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)

	u64, err := r.ReadUvarint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<60), u64)

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7f), b)

	assert.Equal(t, w.BytesWritten(), r.BytesRead(), "reader must consume exactly what the writer produced")
}

func TestVarintEdgeValues(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, w.WriteVarint64(v))

		r := NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadVarint64()
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, w.BytesWritten(), r.BytesRead())
	}
}

func TestReadVarint32Overflow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteVarint64(int64(math.MaxInt32) + 1))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.ReadVarint32()
	require.Error(t, err)
}

func TestReadUvarint32Overflow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteUvarint64(uint64(math.MaxUint32) + 1))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.ReadUvarint32()
	require.Error(t, err)
}

func TestReadStringTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteString("truncate-me"))

	// Cut the buffer inside the string body.
	truncated := buf.Bytes()[:buf.Len()-3]
	r := NewReader(bytes.NewReader(truncated))
	_, err := r.ReadString()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadStringLengthLimit(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	// A length prefix far beyond the sanity limit must not allocate.
	require.NoError(t, w.WriteUvarint64(MaxStringLen+1))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.ReadString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestReadEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.ReadString()
	require.Error(t, err)
	assert.Zero(t, r.BytesRead())
}
