// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// GenerateChecksums writes checksums.txt into dir with one
// "<sha256>  <relative path>" line per file, in the given order.
func GenerateChecksums(ctx context.Context, dir string, files []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		sum, err := FileSum(file)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(rel)))
	}

	path := GetChecksumFilePath(dir)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)
	return path, nil
}

// FileSum returns the hex encoded SHA256 of the file at path.
func FileSum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Verify re-hashes every file listed in dir's checksums file and returns
// the relative paths that are missing or differ.
func Verify(ctx context.Context, dir string) ([]string, error) {
	data, err := os.ReadFile(GetChecksumFilePath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}

	var mismatched []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		want, rel, ok := strings.Cut(sc.Text(), "  ")
		if !ok {
			continue
		}
		got, err := FileSum(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil || got != want {
			mismatched = append(mismatched, rel)
		}
	}
	return mismatched, sc.Err()
}

// GetChecksumFilePath returns the full path to the checksums file in dir.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}
