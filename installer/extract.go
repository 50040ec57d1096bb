package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Extract unpacks an archive into the destination directory, creating
// it if needed. The archive format is inferred from the file name
// extension, falling back to content sniffing for names that don't
// carry a known one. Existing files at the destination are
// overwritten, so no pre-clean step is needed.
func Extract(archive, destination string) (err error) {
	logdetail(fmt.Sprintf("extracting %s", archive))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("failed to create destination folder %s: %w", destination, err)
	}

	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	switch {
	case strings.HasSuffix(archive, ".zip"):
		info, err := file.Stat()
		if err != nil {
			return err
		}
		return unzip(file, info.Size(), destination)
	case strings.HasSuffix(archive, ".tar.gz"), strings.HasSuffix(archive, ".tgz"):
		decompressor, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer decompressor.Close()
		return untar(decompressor, destination)
	case strings.HasSuffix(archive, ".tar.bz2"):
		return untar(bzip2.NewReader(file), destination)
	}

	return sniff(file, destination)
}

// sniff determines the archive format from the mime header instead of
// the file name.
func sniff(file *os.File, destination string) error {
	header := make([]byte, 512)
	file.Read(header)
	mime := http.DetectContentType(header)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	switch mime {
	case "application/x-gzip":
		decompressor, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer decompressor.Close()
		return untar(decompressor, destination)
	case "application/zip":
		info, err := file.Stat()
		if err != nil {
			return err
		}
		return unzip(file, info.Size(), destination)
	default:
		return fmt.Errorf("unsupported format: %s", mime)
	}
}

// handles tar streams, already decompressed
func untar(file io.Reader, destination string) error {
	reader := tar.NewReader(file)

	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		target := filepath.Join(destination, header.Name)
		mode := os.FileMode(header.Mode)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeSymlink:
			if err := relink(header.Linkname, target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writefile(target, reader, mode); err != nil {
				return err
			}
		}
	}

	return nil
}

// handles .zip files
func unzip(file io.ReaderAt, size int64, destination string) error {
	reader, err := zip.NewReader(file, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, file := range reader.File {
		target := filepath.Join(destination, file.Name)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		contents, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", target, err)
		}

		err = writefile(target, contents, file.Mode())
		contents.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

func writefile(target string, contents io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	defer out.Close()

	if mode != 0 {
		_ = os.Chmod(target, mode.Perm())
	}

	if _, err := io.Copy(out, contents); err != nil {
		return fmt.Errorf("failed to copy data to file %s: %w", target, err)
	}

	return nil
}

// relink replaces whatever sits at target with a symlink to linkname.
func relink(linkname, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", target, err)
	}

	return nil
}

func logdetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}
