package compressors

import (
	"bytes"
	"io"
	"testing"

	"github.com/perfdata/blockstore/core"
)

func roundTrip(t *testing.T, c core.Compressor, data []byte) {
	t.Helper()

	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress() returned an unexpected error: %v", err)
	}

	rc, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() returned an unexpected error: %v", err)
	}
	defer rc.Close()

	decompressed, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Failed to read decompressed data: %v", err)
	}
	if !bytes.Equal(data, decompressed) {
		t.Errorf("Decompressed data does not match original data")
	}

	// CompressTo must produce bytes Decompress accepts as well.
	var buf bytes.Buffer
	if err := c.CompressTo(&buf, data); err != nil {
		t.Fatalf("CompressTo() returned an unexpected error: %v", err)
	}
	rc2, err := c.Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress() of CompressTo output failed: %v", err)
	}
	defer rc2.Close()
	decompressed2, err := io.ReadAll(rc2)
	if err != nil {
		t.Fatalf("Failed to read decompressed data: %v", err)
	}
	if !bytes.Equal(data, decompressed2) {
		t.Errorf("CompressTo round trip does not match original data")
	}
}

func TestCompressorRoundTrips(t *testing.T) {
	data := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 64)

	cases := []struct {
		name string
		c    core.Compressor
		typ  core.CompressionType
	}{
		{"none", &NoCompressionCompressor{}, core.CompressionNone},
		{"snappy", NewSnappyCompressor(), core.CompressionSnappy},
		{"lz4", NewLz4Compressor(), core.CompressionLZ4},
		{"zstd", NewZstdCompressor(), core.CompressionZSTD},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.c.Type() != tc.typ {
				t.Errorf("Type() got = %v, want %v", tc.c.Type(), tc.typ)
			}
			roundTrip(t, tc.c, data)
			roundTrip(t, tc.c, nil)
		})
	}
}

func TestGetCompressor(t *testing.T) {
	for _, ct := range []core.CompressionType{
		core.CompressionNone,
		core.CompressionSnappy,
		core.CompressionLZ4,
		core.CompressionZSTD,
	} {
		c, err := GetCompressor(ct)
		if err != nil {
			t.Fatalf("GetCompressor(%v) returned an unexpected error: %v", ct, err)
		}
		if c.Type() != ct {
			t.Errorf("GetCompressor(%v) returned compressor of type %v", ct, c.Type())
		}
	}

	if _, err := GetCompressor(core.CompressionType(200)); err == nil {
		t.Error("GetCompressor() with unknown type should return an error")
	}
}

func TestSnappyRejectsCorruptedInput(t *testing.T) {
	c := NewSnappyCompressor()
	if _, err := c.Decompress([]byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Error("Decompress() of garbage should return an error")
	}
}
