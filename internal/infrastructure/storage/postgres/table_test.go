package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

func newSampleTable() *Table[sampleDocument, *sampleDocument] {
	return NewTable[sampleDocument](nil, "docs", "doc")
}

func TestTable_UpdateQueryChecksVersion(t *testing.T) {
	tbl := newSampleTable()
	doc := &sampleDocument{Document: entity.NewDocument(id.New(), types.NewDay(2024, 3, 5), "admin")}
	doc.Version = 3
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	sql, args, err := tbl.UpdateQuery(doc, now).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE docs SET number = $1, day = $2, moderator_id = $3, created_by = $4, comment = $5, "+
		"filled_bottles = $6, empty_bottles = $7, damaged_bottles = $8, foc = $9, payment = $10, customer_id = $11, "+
		"version = version + 1, updated_at = $12 WHERE id = $13 AND version = $14", sql)
	require.Len(t, args, 14)
	assert.Equal(t, now, args[11])
	assert.Equal(t, doc.ID.String(), args[12])
	assert.Equal(t, 3, args[13])
}

func TestTable_InsertQueryWritesEveryColumn(t *testing.T) {
	tbl := newSampleTable()
	doc := &sampleDocument{Document: entity.NewDocument(id.New(), types.NewDay(2024, 3, 5), "admin")}

	sql, args, err := tbl.InsertQuery(doc).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "INSERT INTO docs (comment,created_at,created_by,customer_id,"), sql)
	assert.Len(t, args, len(tbl.Columns()))
}

func TestTable_SelectForUpdateSuffix(t *testing.T) {
	tbl := newSampleTable()

	sql, _, err := tbl.Select().Where(squirrel.Eq{"id": id.New()}).Limit(1).Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT id, version, created_at, updated_at, number, day"), sql)
	assert.True(t, strings.HasSuffix(sql, "FROM docs WHERE id = $1 LIMIT 1 FOR UPDATE"), sql)
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	assert.Equal(t, time.Minute, Backoff(0))
	assert.Equal(t, time.Minute, Backoff(1))
	assert.Equal(t, 4*time.Minute, Backoff(3))
	assert.Equal(t, time.Hour, Backoff(10))
	assert.Equal(t, time.Hour, Backoff(80))
}
