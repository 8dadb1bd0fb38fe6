package models

import (
	"strings"

	"github.com/google/uuid"
)

// Item represents a single pantry record stored in the inventory collection.
// NameLowercase is a derived copy of Name kept purely to support
// case-insensitive equality search; it is never set independently.
type Item struct {
	ID            string `gorm:"primary_key" json:"id"`
	Name          string `json:"name"`
	NameLowercase string `gorm:"index" json:"nameLowercase"`
	Count         int    `json:"count"`
	Date          string `json:"date"`
}

// TableName sets the table name for Item
func (Item) TableName() string {
	return "inventory"
}

// BeforeCreate assigns an opaque id when none is present. The id is stable
// for the item's lifetime.
func (i *Item) BeforeCreate() error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave recomputes NameLowercase from Name so the two can never
// diverge, whatever write path reached the database.
func (i *Item) BeforeSave() error {
	i.NameLowercase = strings.ToLower(i.Name)
	return nil
}
