package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeforeCreateAssignsID(t *testing.T) {
	item := &Item{Name: "Milk"}
	assert.NoError(t, item.BeforeCreate())
	assert.NotEmpty(t, item.ID)

	// An existing id must stay stable for the item's lifetime.
	existing := &Item{ID: "fixed-id", Name: "Milk"}
	assert.NoError(t, existing.BeforeCreate())
	assert.Equal(t, "fixed-id", existing.ID)
}

func TestBeforeSaveDerivesLowercaseName(t *testing.T) {
	item := &Item{Name: "Milk Chocolate", NameLowercase: "stale value"}
	assert.NoError(t, item.BeforeSave())
	assert.Equal(t, "milk chocolate", item.NameLowercase)
}
