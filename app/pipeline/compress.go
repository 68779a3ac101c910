package pipeline

import (
	"fmt"
	"io"
	"os"

	"staffdesk/app/dto"

	"github.com/klauspost/compress/gzip"
)

// GzipLevel maps the portal's compression choices onto gzip effort levels.
// Higher choice means smaller expected output and a slower run.
func GzipLevel(level dto.CompressionLevel) int {
	switch level {
	case dto.CompressionLow:
		return gzip.BestSpeed
	case dto.CompressionHigh:
		return gzip.BestCompression
	default:
		return 6
	}
}

// Compress writes a gzip sibling of path and removes the original, making
// the .gz path canonical.
func Compress(path string, level dto.CompressionLevel) (string, error) {
	outPath := path + ".gz"

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create compressed file: %w", err)
	}
	defer out.Close()

	gw, err := gzip.NewWriterLevel(out, GzipLevel(level))
	if err != nil {
		return "", fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		_ = os.Remove(outPath)
		return "", fmt.Errorf("compress file: %w", err)
	}
	if err := gw.Close(); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("flush compressed file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove uncompressed file: %w", err)
	}
	return outPath, nil
}

// Decompress inflates src into dst, leaving src untouched.
func Decompress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open compressed file: %w", err)
	}
	defer in.Close()

	gr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create decompressed file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, gr); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("decompress file: %w", err)
	}
	return nil
}
