// Package export turns resolved lanes into artifacts: path listings,
// symlink farms, archives, and stats reports.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/user/pathfind/internal/model"
)

// NominalChunks is how many pieces streaming operations split their
// payload into. The split exists only to drive progress reporting;
// the output bytes are identical for any chunk count.
const NominalChunks = 100

// Progress is invoked after each chunk is consumed.
type Progress func(done, total int)

// writeChunks feeds data to w in roughly equal chunks, ticking the
// progress callback after each. The last chunk absorbs any remainder.
func writeChunks(w io.Writer, data []byte, chunks int, progress Progress) error {
	if chunks < 1 || chunks > len(data) {
		chunks = len(data)
	}
	if chunks == 0 {
		chunks = 1
	}

	size := len(data) / chunks
	for i := 0; i < chunks; i++ {
		start := i * size
		end := start + size
		if i == chunks-1 {
			end = len(data)
		}
		if err := writeAll(w, data[start:end]); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, chunks)
		}
	}

	return nil
}

// writeAll retries short writes until the buffer is fully consumed.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

// Compress gzips data, feeding it to the encoder in NominalChunks
// pieces so callers can observe progress.
func Compress(data []byte, progress Progress) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	if err := writeChunks(gz, data, NominalChunks, progress); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes data to path in NominalChunks pieces. Any failure
// to open or complete the write is fatal and names the target path.
func WriteFile(path string, data []byte, progress Progress) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, path, err)
	}

	if err := writeChunks(f, data, NominalChunks, progress); err != nil {
		f.Close()
		os.Remove(path) // no partial artifacts
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %s: %v", model.ErrFilesystem, path, err)
	}

	return nil
}
