package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"

	_ "modernc.org/sqlite" // register "sqlite" driver

	appErrors "treekit/internal/errors"
	"treekit/internal/tree"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultParentColumn is read in place of the default "parentId" field, since
// SQL schemas name the column in snake case.
const DefaultParentColumn = "parent_id"

// parentColumn maps the configured parent field to its SQLite column. Records
// are still keyed by the field name so the tree builder sees one mapping.
func parentColumn(fields tree.FieldMapper) string {
	if fields.ParentID == tree.DefaultFieldMapper().ParentID {
		return DefaultParentColumn
	}
	return fields.ParentID
}

// buildSQLiteDSN opens the database read-only so a running writer is never
// blocked for long.
func buildSQLiteDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Set("mode", "ro")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "3000")
	q.Set("cache", "shared")
	u.RawQuery = q.Encode()
	return u.String()
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// selectQuery builds the record query. Table and column names come from
// configuration, so each must be a plain identifier.
func selectQuery(table string, fields tree.FieldMapper) (string, error) {
	parent := parentColumn(fields)
	for _, ident := range []string{table, fields.ID, parent, fields.Name} {
		if !identPattern.MatchString(ident) {
			return "", appErrors.New(appErrors.CodeInvalidInput, fmt.Sprintf("invalid sql identifier %q", ident), nil)
		}
	}
	return fmt.Sprintf(`SELECT "%s", "%s", "%s" FROM "%s" ORDER BY rowid`,
		fields.ID, parent, fields.Name, table), nil
}

func loadSQLite(ctx context.Context, spec Spec) ([]tree.RawNode, error) {
	query, err := selectQuery(spec.Table, spec.Fields)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, buildSQLiteDSN(spec.Path))
	if err != nil {
		return nil, appErrors.New(appErrors.CodeSourceFailed, err.Error(), err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeSourceFailed, fmt.Sprintf("query %s: %v", spec.Table, err), err)
	}
	defer func() { _ = rows.Close() }()

	var records []tree.RawNode
	for rows.Next() {
		var id, parent, name sql.NullString
		if err := rows.Scan(&id, &parent, &name); err != nil {
			return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("scan %s: %v", spec.Table, err), err)
		}
		raw := tree.RawNode{
			spec.Fields.ID:       nil,
			spec.Fields.ParentID: nil,
			spec.Fields.Name:     name.String,
		}
		if id.Valid {
			raw[spec.Fields.ID] = id.String
		}
		if parent.Valid && parent.String != "" {
			raw[spec.Fields.ParentID] = parent.String
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.New(appErrors.CodeSourceFailed, fmt.Sprintf("read %s: %v", spec.Table, err), err)
	}
	return records, nil
}
