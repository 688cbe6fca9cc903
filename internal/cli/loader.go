package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/simuforge/simuforge/spec"
)

// LoadSpec reads and parses a single experiment file. It does not validate;
// callers decide whether validation errors should stop the command.
func LoadSpec(path string) (*spec.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: reading %s: %w", path, err)
	}
	doc, err := spec.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cli: parsing %s: %w", path, err)
	}
	return doc, nil
}

// LoadSpecsDir reads every .yaml/.yml file directly under dir, in sorted
// filename order, returning each document alongside the base filename it
// came from.
func LoadSpecsDir(dir string) ([]*spec.Document, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("cli: reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]*spec.Document, 0, len(names))
	for _, name := range names {
		doc, err := LoadSpec(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	return docs, names, nil
}
