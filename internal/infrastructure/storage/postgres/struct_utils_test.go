package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
)

type sampleDocument struct {
	entity.Document
	reconcile.Counts
	CustomerID id.ID  `db:"customer_id"`
	Internal   string `db:"-"`
	untagged   int
}

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[sampleDocument]()

	assert.Equal(t, []string{
		"id", "version", "created_at", "updated_at",
		"number", "day", "moderator_id", "created_by", "comment",
		"filled_bottles", "empty_bottles", "damaged_bottles", "foc", "payment",
		"customer_id",
	}, cols)
}

func TestStructToMap_ReadsEmbeddedValues(t *testing.T) {
	day := types.NewDay(2024, 3, 5)
	doc := sampleDocument{
		Document: entity.NewDocument(id.New(), day, "admin"),
		Counts: reconcile.Counts{
			Filled:  10,
			Empty:   4,
			FOC:     1,
			Payment: types.MoneyFromInt(250),
		},
		CustomerID: id.New(),
		Internal:   "skip",
		untagged:   7,
	}

	m := StructToMap(&doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, day, m["day"])
	assert.Equal(t, int64(10), m["filled_bottles"])
	assert.Equal(t, int64(4), m["empty_bottles"])
	assert.Equal(t, doc.CustomerID, m["customer_id"])
	assert.NotContains(t, m, "Internal")
	assert.Len(t, m, 15)
}

func TestStructToMap_NilAndNonStruct(t *testing.T) {
	var p *sampleDocument
	assert.Nil(t, StructToMap(p))
	assert.Nil(t, StructToMap(42))
}
