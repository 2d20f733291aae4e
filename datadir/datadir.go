// Package datadir resolves the locations of ontology and gene association
// files through an explicit source chain.
//
// The chain checks sources in priority order:
//  1. An explicitly provided path
//  2. The directory named by the OBOKIT_DATA environment variable
//  3. Any directories the caller appends
//
// There is no implicit current-directory fallback: a file is only found
// where a source explicitly points.
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvVar is the environment variable naming the default data directory.
const EnvVar = "OBOKIT_DATA"

// ErrNoSource is returned when no source in the chain yields a matching file.
var ErrNoSource = errors.New("no data source provides the requested file")

// Source can provide the path of a data file matching a name prefix.
type Source interface {
	// Find returns the path of a file matching the prefix, or empty string
	// if this source has none.
	Find(prefix string) (string, error)

	// Name returns a human-readable name for this source.
	Name() string
}

// pathSource resolves to one explicitly given file path.
type pathSource struct {
	path string
}

// PathSource creates a Source that always yields the given path if the file
// exists. An empty path yields nothing.
func PathSource(path string) Source {
	return &pathSource{path: path}
}

func (s *pathSource) Find(prefix string) (string, error) {
	if s.path == "" {
		return "", nil
	}
	if _, err := os.Stat(s.path); err != nil {
		return "", fmt.Errorf("explicit path %s: %w", s.path, err)
	}
	return s.path, nil
}

func (s *pathSource) Name() string {
	return fmt.Sprintf("explicit path %s", s.path)
}

// dirSource scans a directory for files matching the prefix.
type dirSource struct {
	dir string
}

// DirSource creates a Source that scans the given directory.
func DirSource(dir string) Source {
	return &dirSource{dir: dir}
}

func (s *dirSource) Find(prefix string) (string, error) {
	if s.dir == "" {
		return "", nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("scanning %s: %w", s.dir, err)
	}
	var matches []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			matches = append(matches, e.Name())
		}
	}
	if len(matches) == 0 {
		return "", nil
	}
	// Deterministic pick: lexically last, so dated revisions prefer the
	// newest name.
	sort.Strings(matches)
	return filepath.Join(s.dir, matches[len(matches)-1]), nil
}

func (s *dirSource) Name() string {
	return fmt.Sprintf("directory %s", s.dir)
}

// envSource scans the directory named by an environment variable.
type envSource struct {
	varName string
}

// EnvSource creates a Source that scans the directory named by the given
// environment variable.
func EnvSource(varName string) Source {
	return &envSource{varName: varName}
}

func (s *envSource) Find(prefix string) (string, error) {
	dir := os.Getenv(s.varName)
	if dir == "" {
		return "", nil
	}
	return DirSource(dir).Find(prefix)
}

func (s *envSource) Name() string {
	return fmt.Sprintf("environment variable %s", s.varName)
}

// DefaultSources returns the default source chain: the explicit path (if
// any) followed by the OBOKIT_DATA directory.
func DefaultSources(explicit string) []Source {
	sources := []Source{}
	if explicit != "" {
		sources = append(sources, PathSource(explicit))
	}
	return append(sources, EnvSource(EnvVar))
}

// Resolve walks the source chain and returns the first matching path.
// ErrNoSource if every source comes up empty.
func Resolve(sources []Source, prefix string) (string, error) {
	for _, source := range sources {
		path, err := source.Find(prefix)
		if err != nil {
			return "", fmt.Errorf("resolving from %s: %w", source.Name(), err)
		}
		if path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%q: %w", prefix, ErrNoSource)
}

// OntologyPath resolves an ontology file: the explicit path if given,
// otherwise a file with the gene_ontology prefix in the data directory.
func OntologyPath(explicit string) (string, error) {
	return Resolve(DefaultSources(explicit), "gene_ontology")
}

// AnnotationsPath resolves a gene association file for the given organism
// code: the explicit path if given, otherwise a gene_association.<org> file
// in the data directory.
func AnnotationsPath(explicit, org string) (string, error) {
	prefix := "gene_association"
	if org != "" {
		prefix += "." + org
	}
	return Resolve(DefaultSources(explicit), prefix)
}
