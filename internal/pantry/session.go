package pantry

import (
	"pantrygo/internal/auth"
	"pantrygo/internal/models"
)

// State represents where the workflow is in its lifecycle.
type State string

const (
	// Workflow states
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateReady           State = "ready"
)

// FormInput holds the raw add/edit form fields as the user entered them.
// Count stays a string until validated so a blank field is distinguishable
// from zero.
type FormInput struct {
	Name  string `json:"name"`
	Count string `json:"count"`
	Date  string `json:"date"`
}

// Session is the transient, process-local view the presentation layer
// renders. Inventory is always a full-replace snapshot of the remote
// collection, never a partial merge.
type Session struct {
	State         State         `json:"state"`
	User          *auth.User    `json:"user,omitempty"`
	Inventory     []models.Item `json:"inventory"`
	EditingItemID string        `json:"editingItemId,omitempty"`
	SearchTerm    string        `json:"searchTerm,omitempty"`
	RecipeText    string        `json:"recipeText,omitempty"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
	Form          FormInput     `json:"form"`
}

func (s Session) clone() Session {
	out := s
	out.Inventory = make([]models.Item, len(s.Inventory))
	copy(out.Inventory, s.Inventory)
	return out
}
