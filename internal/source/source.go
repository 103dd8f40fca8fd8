// Package source reads adjacency-list records from files and databases.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	appErrors "treekit/internal/errors"
	"treekit/internal/tree"
)

// Format names a supported input encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DefaultTable is the table read from SQLite sources when none is named.
const DefaultTable = "nodes"

// ParseFormat accepts a format name. Empty input yields "" so the caller can
// fall back to DetectFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", appErrors.New(appErrors.CodeUnsupportedFormat, fmt.Sprintf("unsupported format %q", s), nil)
	}
}

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", appErrors.New(appErrors.CodeUnsupportedFormat,
			fmt.Sprintf("cannot detect format of %s; pass --format", path), nil)
	}
}

// Spec describes one input.
type Spec struct {
	Path   string
	Format Format // detected from Path when empty
	Table  string // SQLite only
	Fields tree.FieldMapper
}

func (s Spec) resolve() (Spec, error) {
	s.Path = strings.TrimSpace(s.Path)
	if s.Path == "" {
		return s, appErrors.New(appErrors.CodeInvalidInput, "source path is empty", nil)
	}
	if s.Format == "" {
		f, err := DetectFormat(s.Path)
		if err != nil {
			return s, err
		}
		s.Format = f
	}
	if s.Table == "" {
		s.Table = DefaultTable
	}
	s.Fields = s.Fields.WithDefaults()
	return s, nil
}

// Load reads every record of spec. Nested children, when present, are
// flattened into parent-pointer records.
func Load(ctx context.Context, spec Spec) ([]tree.RawNode, error) {
	spec, err := spec.resolve()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if spec.Format == FormatSQLite {
		return loadSQLite(ctx, spec)
	}

	//nolint:gosec // G304: reading the user supplied source file is the point
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		code := appErrors.CodeSourceFailed
		if os.IsNotExist(err) {
			code = appErrors.CodeNotFound
		}
		return nil, appErrors.New(code, fmt.Sprintf("read %s: %v", spec.Path, err), err)
	}

	var records []tree.RawNode
	switch spec.Format {
	case FormatJSON:
		records, err = decodeJSON(data, spec.Fields)
	case FormatYAML:
		records, err = decodeYAML(data, spec.Fields)
	default:
		return nil, appErrors.New(appErrors.CodeUnsupportedFormat, fmt.Sprintf("unsupported format %q", spec.Format), nil)
	}
	if err != nil {
		return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("parse %s: %v", spec.Path, err), err)
	}
	return records, nil
}

// LoadAll loads specs concurrently and concatenates the records in spec
// order. The first failure cancels the rest and is returned.
func LoadAll(ctx context.Context, specs []Spec) ([]tree.RawNode, error) {
	results := make([][]tree.RawNode, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, spec := range specs {
		g.Go(func() error {
			records, err := Load(ctx, spec)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]tree.RawNode, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// flatten expands records carrying a children list into a flat list. A child
// without a parent field inherits the id of the record holding it.
func flatten(records []map[string]any, fields tree.FieldMapper) []tree.RawNode {
	out := make([]tree.RawNode, 0, len(records))

	type item struct {
		rec    map[string]any
		parent any
	}
	stack := make([]item, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		stack = append(stack, item{rec: records[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.rec == nil {
			continue
		}

		raw := make(tree.RawNode, len(top.rec))
		for k, v := range top.rec {
			if k != fields.Children {
				raw[k] = v
			}
		}
		if top.parent != nil {
			if p, ok := raw[fields.ParentID]; !ok || p == nil {
				raw[fields.ParentID] = top.parent
			}
		}
		out = append(out, raw)

		kids := childRecords(top.rec[fields.Children])
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{rec: kids[i], parent: raw[fields.ID]})
		}
	}
	return out
}

func childRecords(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		if m, ok := c.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
