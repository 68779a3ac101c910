package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"staffdesk/app/dto"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	content := bytes.Repeat([]byte("INSERT INTO employees VALUES (1, 'x');\n"), 200)

	for _, level := range []dto.CompressionLevel{dto.CompressionLow, dto.CompressionMedium, dto.CompressionHigh} {
		t.Run(string(level), func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "dump.sql")
			if err := os.WriteFile(src, content, 0o600); err != nil {
				t.Fatal(err)
			}

			out, err := Compress(src, level)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if !strings.HasSuffix(out, ".gz") {
				t.Errorf("compressed path = %q, want .gz suffix", out)
			}
			if _, err := os.Stat(src); !os.IsNotExist(err) {
				t.Error("original file should be removed after compression")
			}

			dst := filepath.Join(dir, "restored.sql")
			if err := Decompress(out, dst); err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			got, err := os.ReadFile(dst)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, content) {
				t.Error("decompressed content differs from original")
			}
		})
	}
}

func TestGzipLevelMonotonic(t *testing.T) {
	low := GzipLevel(dto.CompressionLow)
	medium := GzipLevel(dto.CompressionMedium)
	high := GzipLevel(dto.CompressionHigh)
	if !(low < medium && medium < high) {
		t.Errorf("levels not monotonic: low=%d medium=%d high=%d", low, medium, high)
	}
}

func TestDecompressMissingFile(t *testing.T) {
	if err := Decompress(filepath.Join(t.TempDir(), "nope.gz"), filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("expected error for missing source")
	}
}
