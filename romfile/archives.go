package romfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"
)

func extractFromZIP(r io.ReaderAt, size int64) ([]byte, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return limitedRead(rc)
	}
	return nil, ErrNoROMFile
}

func extractFrom7z(r io.ReaderAt, size int64) ([]byte, error) {
	archive, err := sevenzip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return limitedRead(rc)
	}
	return nil, ErrNoROMFile
}

// extractFromGzip decompresses a plain gzip stream. A gzip stream always holds
// exactly one file, so an empty stream is an empty ROM rather than an error.
func extractFromGzip(r io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()
	return limitedRead(gz)
}

func extractFromRAR(r io.Reader) ([]byte, error) {
	archive, err := rardecode.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := archive.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoROMFile
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir {
			continue
		}
		return limitedRead(archive)
	}
}
