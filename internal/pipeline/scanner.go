package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/leo-lp/png/internal/source"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Format is the container format of the file.
	Format string
	// Size is the file size in bytes.
	Size int64

	decoder source.Decoder
}

// ScanImages walks the input directory and returns every file the
// registry can decode.
func ScanImages(inputDir string, registry *source.Registry) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		dec := registry.Get(ext)
		if dec == nil {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := filepath.ToSlash(strings.TrimSuffix(relPath, ext))

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Format:  dec.Format(),
			Size:    info.Size(),
			decoder: dec,
		})

		return nil
	})

	return sources, err
}
