// =============================================================================
// fac2csv - File Manager Utilities
// =============================================================================

// Package utils provides filesystem helpers shared by the CLI and the HTTP
// server: zip packing and unpacking, stale-file cleanup and filename
// sanitization for user-supplied names.
package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DeleteFile removes path, tolerating a file that is already gone.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// SanitizeFilename reduces a user-supplied name to a safe basename. Path
// separators and parent references are stripped so the result can be joined
// under a managed directory without escaping it.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = uuid.NewString()
	}
	return name
}

// CleanupOldFiles deletes regular files under dir whose modification time is
// older than maxAge. Subdirectories and .gitkeep markers are left alone. It
// returns the number of files removed.
func CleanupOldFiles(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ".gitkeep" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

// CreateZipArchive packs the given files into a zip at zipPath. Entries are
// stored under their basenames so the archive extracts flat.
func CreateZipArchive(paths []string, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, path := range paths {
		if err := addToZip(zw, path); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", zipPath, err)
	}
	return nil
}

func addToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for archiving: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", path, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s into archive: %w", path, err)
	}
	return nil
}

// ExtractXMLFromZip unpacks every .xml entry of zipPath into destDir and
// returns the extracted paths. Entry names are flattened and prefixed with a
// fresh UUID so colliding basenames from different folders both survive.
// macOS resource-fork folders are skipped. An archive without a single XML
// entry is an error.
func ExtractXMLFromZip(zipPath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	var extracted []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name, "__MACOSX/") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name), ".xml") {
			continue
		}

		name := uuid.NewString() + "_" + SanitizeFilename(entry.Name)
		dest := filepath.Join(destDir, name)
		if err := extractEntry(entry, dest); err != nil {
			return nil, err
		}
		extracted = append(extracted, dest)
	}

	if len(extracted) == 0 {
		return nil, fmt.Errorf("archive %s contains no XML files", zipPath)
	}
	return extracted, nil
}

func extractEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to read archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	return nil
}
