package sqlconsole

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVetAllowsReadsAndWrites(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{"SELECT * FROM appointment", "SELECT"},
		{"SELECT * FROM appointment;", "SELECT"},
		{"select 1", "SELECT"},
		{"  \n\tSELECT 1", "SELECT"},
		{"INSERT INTO dept (dept_id, dept_name) VALUES ('DE09', 'ENT')", "INSERT"},
		{"UPDATE appointment SET status = 'cancelled' WHERE appt_id = 'A001'", "UPDATE"},
		{"delete from appointment where appt_id = 'A001';", "DELETE"},
	}

	for _, tt := range tests {
		kw, err := Vet(tt.stmt)
		require.NoError(t, err, tt.stmt)
		assert.Equal(t, tt.want, kw, tt.stmt)
	}
}

func TestVetRejectsDeniedKeywords(t *testing.T) {
	tests := []struct {
		stmt    string
		keyword string
	}{
		{"DROP TABLE appointment", "DROP"},
		{"drop table appointment", "DROP"},
		{"ALTER TABLE patient ADD COLUMN note text", "ALTER"},
		{"TRUNCATE appointment", "TRUNCATE"},
		{"CREATE TABLE t (id int)", "CREATE"},
		{"GRANT ALL ON appointment TO intern", "GRANT"},
		{"REVOKE ALL ON appointment FROM intern", "REVOKE"},
	}

	for _, tt := range tests {
		_, err := Vet(tt.stmt)
		var fe *ForbiddenError
		require.ErrorAs(t, err, &fe, tt.stmt)
		assert.Equal(t, tt.keyword, fe.Keyword)
	}
}

func TestVetRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		want error
	}{
		{"empty", "", ErrEmptyStatement},
		{"whitespace only", "  \n ", ErrEmptyStatement},
		{"multi statement", "SELECT 1; SELECT 2", ErrMultiStatement},
		{"semicolon mid statement", "SELECT 1; --", ErrMultiStatement},
		{"unknown keyword", "EXPLAIN SELECT 1", ErrUnknownKeyword},
		{"not sql at all", "hello world", ErrUnknownKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vet(tt.stmt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// -- Run over a fake executor --

type fakeExecer struct {
	rows    pgx.Rows
	tag     pgconn.CommandTag
	gotSQL  string
	queried bool
	execed  bool
}

func (f *fakeExecer) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.gotSQL = sql
	f.queried = true
	return f.rows, nil
}

func (f *fakeExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.gotSQL = sql
	f.execed = true
	return f.tag, nil
}

type fakeRows struct {
	fields []pgconn.FieldDescription
	rows   [][]any
	idx    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}
func (r *fakeRows) Scan(_ ...any) error    { return nil }
func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

func TestRunSelectReturnsRowResult(t *testing.T) {
	db := &fakeExecer{
		rows: &fakeRows{
			fields: []pgconn.FieldDescription{{Name: "appt_id"}, {Name: "status"}},
			rows: [][]any{
				{"A001", "booked"},
				{"A002", "cancelled"},
			},
		},
	}
	gw := New(db)

	result, err := gw.Run(context.Background(), "SELECT appt_id, status FROM appointment")
	require.NoError(t, err)

	rowRes, ok := result.(*RowResult)
	require.True(t, ok)
	assert.Equal(t, "rows", rowRes.Kind)
	assert.Equal(t, []string{"appt_id", "status"}, rowRes.Columns)
	require.Len(t, rowRes.Rows, 2)
	assert.Equal(t, []any{"A001", "booked"}, rowRes.Rows[0])

	// The statement runs verbatim, no rewriting.
	assert.Equal(t, "SELECT appt_id, status FROM appointment", db.gotSQL)
	assert.False(t, db.execed)
}

func TestRunMutationReturnsMutationResult(t *testing.T) {
	db := &fakeExecer{tag: pgconn.NewCommandTag("UPDATE 3")}
	gw := New(db)

	result, err := gw.Run(context.Background(), "UPDATE appointment SET status = 'cancelled'")
	require.NoError(t, err)

	mutRes, ok := result.(*MutationResult)
	require.True(t, ok)
	assert.Equal(t, "update", mutRes.Kind)
	assert.Equal(t, int64(3), mutRes.AffectedRows)
	assert.Equal(t, int64(3), mutRes.ChangedRows)
	assert.Equal(t, int64(0), mutRes.InsertID)
	assert.False(t, db.queried)
}

func TestRunRejectsBeforeTouchingDB(t *testing.T) {
	db := &fakeExecer{}
	gw := New(db)

	_, err := gw.Run(context.Background(), "DROP TABLE appointment")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.False(t, db.queried)
	assert.False(t, db.execed)
}
