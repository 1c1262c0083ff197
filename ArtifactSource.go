package dbmigrate

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RawArtifact is the unparsed content of a single migration or script file.
// Name is the file name without its directory or ".sql" extension.
type RawArtifact struct {
	Name string
	Path string
	Text string
}

// ArtifactSource provides the raw artifacts for a run.
type ArtifactSource interface {
	Load(ctx context.Context) ([]RawArtifact, error)
}

// DirectoryLoadConcurrency bounds the number of files DirectorySource reads at
// once.
const DirectoryLoadConcurrency = 8

// DirectorySource loads every "*.sql" file below a directory of a file system,
// descending into subdirectories.
type DirectorySource struct {
	fsys fs.FS
	dir  string
}

var _ ArtifactSource = &DirectorySource{}

// NewDirectorySource creates a new DirectorySource for dir inside fsys.
func NewDirectorySource(fsys fs.FS, dir string) *DirectorySource {
	return &DirectorySource{fsys: fsys, dir: dir}
}

// Load reads the files concurrently.  The result is sorted by path so that it
// does not depend on listing or completion order.
func (s *DirectorySource) Load(ctx context.Context) ([]RawArtifact, error) {
	var paths []string
	err := fs.WalkDir(s.fsys, s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	artifacts := make([]RawArtifact, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DirectoryLoadConcurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := fs.ReadFile(s.fsys, p)
			if err != nil {
				return err
			}

			artifacts[i] = RawArtifact{
				Name: strings.TrimSuffix(path.Base(p), ".sql"),
				Path: p,
				Text: string(content),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return artifacts, nil
}
