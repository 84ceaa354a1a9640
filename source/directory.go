// Copyright 2025 Teambrief Systems
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


package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/teambrief/teambrief/core"
)

// textExtensions are the file types the directory connector ingests.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// DirectoryConnector reads exported documents from a directory tree. Each
// readable text file becomes one document; the relative path is its
// source ID.
type DirectoryConnector struct {
	root   string
	source core.Source
	logger *slog.Logger
}

// NewDirectoryConnector creates a connector over root, attributing every
// document to the given logical source.
func NewDirectoryConnector(root string, src core.Source) (*DirectoryConnector, error) {
	if err := core.ValidateSource(src); err != nil {
		return nil, err
	}
	return &DirectoryConnector{
		root:   root,
		source: src,
		logger: slog.Default().With("component", "directory_connector", "source", string(src)),
	}, nil
}

// Source returns the logical source this connector feeds.
func (c *DirectoryConnector) Source() core.Source {
	return c.source
}

// TestConnection verifies the root exists and is a directory.
func (c *DirectoryConnector) TestConnection(ctx context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("directory connector: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("directory connector: %s is not a directory", c.root)
	}
	return nil
}

// FetchDocuments walks the tree and returns one document per text file.
// Unreadable files are skipped with a log entry rather than failing the
// fetch.
func (c *DirectoryConnector) FetchDocuments(ctx context.Context) ([]core.Document, error) {
	var documents []core.Document

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			rel = path
		}

		info, err := d.Info()
		if err != nil {
			c.logger.Warn("skipping file without info", "path", path, "err", err)
			return nil
		}

		documents = append(documents, core.Document{
			Source:    c.source,
			SourceID:  filepath.ToSlash(rel),
			Title:     strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Timestamp: info.ModTime(),
			Content:   string(content),
			Metadata: map[string]any{
				"path": filepath.ToSlash(rel),
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("directory connector: %w", err)
	}

	c.logger.Info("documents fetched", "count", len(documents))
	return documents, nil
}
