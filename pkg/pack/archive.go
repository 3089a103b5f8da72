// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Archive zips the resources of the directory pack at packDir into
// outputPath, the layout ZipPack serves. An empty outputPath writes
// DefaultArchive inside packDir. It returns the absolute archive path.
func Archive(packDir, outputPath string) (string, error) {
	opened, err := Open(packDir)
	if err != nil {
		return "", fmt.Errorf("invalid pack: %w", err)
	}
	dp, ok := opened.Pack.(*DirPack)
	if !ok {
		return "", fmt.Errorf("pack %s is already archived", opened.Dir)
	}

	if outputPath == "" {
		outputPath = filepath.Join(opened.Dir, DefaultArchive)
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err := writeArchive(dp.Root(), absOutputPath); err != nil {
		_ = os.Remove(absOutputPath)
		return "", err
	}
	return absOutputPath, nil
}

func writeArchive(root, outputPath string) (err error) {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(zipFile)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write file data: %w", err)
		}
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to archive pack: %w", walkErr)
	}
	return zw.Close()
}
