package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobItemState(t *testing.T) {
	now := time.Now()

	t.Run("collected and notified follow the timestamps", func(t *testing.T) {
		item := JobItem{ID: 1}
		assert.False(t, item.Collected())
		assert.False(t, item.Notified())

		item.PickupTS = &now
		item.NotifyTS = &now
		assert.True(t, item.Collected())
		assert.True(t, item.Notified())
	})

	t.Run("has reference", func(t *testing.T) {
		assert.False(t, (&JobItem{}).HasReference())
		assert.False(t, (&JobItem{ConnoteNbr: "  "}).HasReference())
		assert.True(t, (&JobItem{ConnoteNbr: "CN1"}).HasReference())
		assert.True(t, (&JobItem{ItemNbr: "IT1"}).HasReference())
	})

	t.Run("usable contact needs one valid channel", func(t *testing.T) {
		assert.False(t, (&JobItem{}).HasUsableContact())
		assert.False(t, (&JobItem{EmailAddr: "not-an-email", PhoneNbr: "12345"}).HasUsableContact())
		assert.True(t, (&JobItem{EmailAddr: "jan@example.com"}).HasUsableContact())
		assert.True(t, (&JobItem{PhoneNbr: "412345678"}).HasUsableContact())
	})
}

func TestCandidateValidate(t *testing.T) {
	t.Run("valid with connote only", func(t *testing.T) {
		c := Candidate{JobItemID: 1, ConnoteNbr: "CN1"}
		c.Normalize()
		assert.NoError(t, c.Validate())
	})

	t.Run("valid with item only", func(t *testing.T) {
		c := Candidate{JobItemID: 1, ItemNbr: "IT1"}
		c.Normalize()
		assert.NoError(t, c.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		c := Candidate{ConnoteNbr: "CN1"}
		assert.Error(t, c.Validate())
	})

	t.Run("whitespace references normalize to invalid", func(t *testing.T) {
		c := Candidate{JobItemID: 1, ConnoteNbr: "  ", ItemNbr: " "}
		c.Normalize()
		assert.Error(t, c.Validate())
	})
}
