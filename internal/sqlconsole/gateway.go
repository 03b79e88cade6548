// Package sqlconsole runs free-form operator statements against the database
// behind a static keyword filter. The filter is textual, not a parser; it is
// a guard rail for an admin tool, not a security boundary.
package sqlconsole

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyStatement = errors.New("sql statement is empty")
	ErrMultiStatement = errors.New("multi-statement not supported")
	ErrUnknownKeyword = errors.New("unrecognized sql keyword")
)

// ForbiddenError names the deny-listed keyword that was rejected.
type ForbiddenError struct {
	Keyword string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("statement keyword %s is not allowed", e.Keyword)
}

var vocabulary = map[string]bool{
	"SELECT":   true,
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"DROP":     true,
	"ALTER":    true,
	"TRUNCATE": true,
	"CREATE":   true,
	"GRANT":    true,
	"REVOKE":   true,
}

var denied = map[string]bool{
	"DROP":     true,
	"ALTER":    true,
	"TRUNCATE": true,
	"CREATE":   true,
	"GRANT":    true,
	"REVOKE":   true,
}

// Vet applies the console policy to a statement and returns its leading
// keyword. A semicolon is only tolerated as the final character; the check
// does not see into string literals or comments.
func Vet(stmt string) (string, error) {
	trimmed := strings.TrimSpace(stmt)
	if trimmed == "" {
		return "", ErrEmptyStatement
	}

	if i := strings.Index(trimmed, ";"); i >= 0 && i != len(trimmed)-1 {
		return "", ErrMultiStatement
	}

	kw := strings.ToUpper(strings.Fields(trimmed)[0])
	kw = strings.TrimSuffix(kw, ";")
	if !vocabulary[kw] {
		return "", ErrUnknownKeyword
	}
	if denied[kw] {
		return "", &ForbiddenError{Keyword: kw}
	}
	return kw, nil
}

// Result is the tagged union returned by Run: RowResult for reads,
// MutationResult for writes. Consumers branch on Kind.
type Result interface {
	isResult()
}

type RowResult struct {
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (*RowResult) isResult() {}

// MutationResult mirrors the driver's mutation summary. PostgreSQL reports
// only affected rows, so ChangedRows repeats it and InsertID is always 0;
// both fields stay for response-shape compatibility.
type MutationResult struct {
	Kind         string `json:"kind"`
	AffectedRows int64  `json:"affected_rows"`
	ChangedRows  int64  `json:"changed_rows"`
	InsertID     int64  `json:"insert_id"`
}

func (*MutationResult) isResult() {}

// Execer is the slice of the pgx pool the console needs.
type Execer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Gateway struct {
	db Execer
}

func New(db Execer) *Gateway {
	return &Gateway{db: db}
}

// Run vets the statement and executes it verbatim. No parameter binding and
// no result size limit; this is an operator tool.
func (g *Gateway) Run(ctx context.Context, stmt string) (Result, error) {
	kw, err := Vet(stmt)
	if err != nil {
		return nil, err
	}

	if kw == "SELECT" {
		rows, err := g.db.Query(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("run query: %w", err)
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		columns := make([]string, len(fields))
		for i, f := range fields {
			columns[i] = f.Name
		}

		result := make([][]any, 0)
		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return nil, fmt.Errorf("read row: %w", err)
			}
			result = append(result, vals)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}

		return &RowResult{Kind: "rows", Columns: columns, Rows: result}, nil
	}

	tag, err := g.db.Exec(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("run statement: %w", err)
	}

	affected := tag.RowsAffected()
	return &MutationResult{
		Kind:         strings.ToLower(kw),
		AffectedRows: affected,
		ChangedRows:  affected,
	}, nil
}
