package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryRecordMatchesItem(t *testing.T) {
	itemRec := DeliveryRecord{Reference: "CN100", ItemNbr: "IT1"}
	connoteRec := DeliveryRecord{Reference: "CN100"}

	t.Run("empty request matches any record", func(t *testing.T) {
		assert.True(t, itemRec.MatchesItem(""))
		assert.True(t, connoteRec.MatchesItem(""))
	})

	t.Run("connote-level record matches any item", func(t *testing.T) {
		assert.True(t, connoteRec.MatchesItem("IT9"))
	})

	t.Run("item-level record matches only its item", func(t *testing.T) {
		assert.True(t, itemRec.MatchesItem("IT1"))
		assert.True(t, itemRec.MatchesItem("it1"))
		assert.False(t, itemRec.MatchesItem("IT2"))
	})
}

func TestTerminalMatch(t *testing.T) {
	tm := NewTerminalMatch(
		[]string{"DELIVERED", " collected ", ""},
		[]string{"Collected by Customer", ""},
	)

	t.Run("matches configured action case-insensitively", func(t *testing.T) {
		assert.True(t, tm.IsTerminal(&DeliveryRecord{ScanAction: "delivered"}))
		assert.True(t, tm.IsTerminal(&DeliveryRecord{ScanAction: "COLLECTED"}))
	})

	t.Run("matches description substring", func(t *testing.T) {
		rec := DeliveryRecord{
			ScanAction:      "POD",
			ScanDescription: "Parcel collected by customer at counter",
		}
		assert.True(t, tm.IsTerminal(&rec))
	})

	t.Run("non-terminal scan", func(t *testing.T) {
		rec := DeliveryRecord{ScanAction: "IN_TRANSIT", ScanDescription: "On vehicle"}
		assert.False(t, tm.IsTerminal(&rec))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.False(t, tm.IsTerminal(nil))
	})

	t.Run("any terminal scoped to item", func(t *testing.T) {
		recs := []DeliveryRecord{
			{Reference: "CN1", ItemNbr: "IT1", ScanAction: "IN_TRANSIT"},
			{Reference: "CN1", ItemNbr: "IT2", ScanAction: "DELIVERED"},
		}
		assert.True(t, tm.AnyTerminal(recs, "IT2"))
		assert.False(t, tm.AnyTerminal(recs, "IT1"))
		assert.True(t, tm.AnyTerminal(recs, ""))
	})
}
