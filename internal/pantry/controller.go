package pantry

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"pantrygo/internal/auth"
	"pantrygo/internal/models"
	"pantrygo/internal/monitoring"
	"pantrygo/internal/store"
)

// User-visible messages for validation and remote failures.
const (
	msgMissingFields = "Name and quantity are required."
	msgBadQuantity   = "Quantity must be a non-negative whole number."
	msgBadDate       = "Expiration date must be a valid date (YYYY-MM-DD)."
	msgPastDate      = "The expiration date cannot be in the past."
	msgActionFailed  = "Action failed, please try again."
)

// RecipeRequester generates a recipe from a list of item names. It never
// fails: fallback text comes back in place of a recipe.
type RecipeRequester interface {
	RequestRecipe(ctx context.Context, itemNames []string) string
}

// Controller orchestrates the pantry workflow: it reacts to identity
// changes by loading inventory, mediates add/edit/delete/search actions
// against the item store, and triggers recipe generation from the latest
// loaded inventory.
//
// The remote collection is the single source of truth; every mutating
// action ends by re-fetching the full list. Search and recipe requests are
// tagged with sequence numbers so a stale response never overwrites a newer
// one.
type Controller struct {
	store   store.ItemStore
	recipes RecipeRequester
	metrics *monitoring.Metrics

	now func() time.Time

	mu        sync.Mutex
	session   Session
	loadSeq   uint64
	recipeSeq uint64
	onChange  func(Session)
}

// NewController creates a controller over the given store and requester.
func NewController(itemStore store.ItemStore, recipes RecipeRequester, metrics *monitoring.Metrics) *Controller {
	return &Controller{
		store:   itemStore,
		recipes: recipes,
		metrics: metrics,
		now:     time.Now,
		session: Session{State: StateUnauthenticated, Inventory: []models.Item{}},
	}
}

// SetOnChange registers a listener invoked with a session snapshot after
// every state change. Used by the websocket push layer.
func (c *Controller) SetOnChange(fn func(Session)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current session for rendering.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// HandleAuthState is the gateway observer callback. An identity present
// loads the inventory; an identity absent clears it. RecipeText survives
// sign-out so the last result stays visible on the next sign-in.
func (c *Controller) HandleAuthState(user *auth.User) {
	ctx := context.Background()

	c.mu.Lock()
	if user == nil {
		c.session.User = nil
		c.session.State = StateUnauthenticated
		c.session.Inventory = []models.Item{}
		c.session.EditingItemID = ""
		c.session.ErrorMessage = ""
		c.loadSeq++ // invalidate any in-flight load
		c.mu.Unlock()
		c.publish()
		return
	}
	c.session.User = user
	c.session.State = StateLoading
	c.mu.Unlock()

	if err := c.reload(ctx); err != nil {
		log.Printf("Error loading inventory: %v", err)
	}

	c.mu.Lock()
	if c.session.User != nil {
		c.session.State = StateReady
	}
	c.mu.Unlock()
	c.publish()
}

// AddItem validates the form and either creates a new item or, when an edit
// is in progress, updates the existing one in place. Success clears the form
// and error message and reloads the inventory so local state reflects the
// remote collection exactly.
func (c *Controller) AddItem(ctx context.Context, input FormInput) {
	c.mu.Lock()
	c.session.Form = input

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Count) == "" {
		c.session.ErrorMessage = msgMissingFields
		c.mu.Unlock()
		c.metrics.RecordAction("add", "rejected")
		c.publish()
		return
	}

	count, err := strconv.Atoi(strings.TrimSpace(input.Count))
	if err != nil || count < 0 {
		c.session.ErrorMessage = msgBadQuantity
		c.mu.Unlock()
		c.metrics.RecordAction("add", "rejected")
		c.publish()
		return
	}

	expiry, err := time.ParseInLocation("2006-01-02", input.Date, c.now().Location())
	if err != nil {
		c.session.ErrorMessage = msgBadDate
		c.mu.Unlock()
		c.metrics.RecordAction("add", "rejected")
		c.publish()
		return
	}

	// Calendar-date comparison: an item expiring today is still valid.
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if expiry.Before(today) {
		c.session.ErrorMessage = msgPastDate
		c.mu.Unlock()
		c.metrics.RecordAction("add", "rejected")
		c.publish()
		return
	}

	c.session.ErrorMessage = ""
	editingID := c.session.EditingItemID
	c.mu.Unlock()

	item := models.Item{
		Name:          input.Name,
		NameLowercase: strings.ToLower(input.Name),
		Count:         count,
		Date:          input.Date,
	}

	action := "add"
	if editingID != "" {
		action = "edit"
		err = c.store.Update(ctx, editingID, item)
	} else {
		err = c.store.Create(ctx, &item)
	}

	if err != nil {
		log.Printf("Error saving item: %v", err)
		c.mu.Lock()
		c.session.ErrorMessage = msgActionFailed
		c.mu.Unlock()
		c.metrics.RecordAction(action, "error")
		c.publish()
		return
	}

	c.mu.Lock()
	c.session.EditingItemID = ""
	c.session.Form = FormInput{}
	c.session.ErrorMessage = ""
	c.mu.Unlock()
	c.metrics.RecordAction(action, "ok")

	if err := c.reload(ctx); err != nil {
		log.Printf("Error reloading inventory: %v", err)
	}
	c.publish()
}

// StartEdit copies the item's fields into the form and marks it as the item
// being edited. The edit is committed by the next AddItem.
func (c *Controller) StartEdit(id string) {
	c.mu.Lock()
	for _, item := range c.session.Inventory {
		if item.ID == id {
			c.session.Form = FormInput{
				Name:  item.Name,
				Count: strconv.Itoa(item.Count),
				Date:  item.Date,
			}
			c.session.EditingItemID = id
			break
		}
	}
	c.mu.Unlock()
	c.publish()
}

// DeleteItem removes the item and reloads. No confirmation step, no undo.
func (c *Controller) DeleteItem(ctx context.Context, id string) {
	if err := c.store.Delete(ctx, id); err != nil {
		log.Printf("Error deleting item %s: %v", id, err)
		c.mu.Lock()
		c.session.ErrorMessage = msgActionFailed
		c.mu.Unlock()
		c.metrics.RecordAction("delete", "error")
		c.publish()
		return
	}

	c.metrics.RecordAction("delete", "ok")
	if err := c.reload(ctx); err != nil {
		log.Printf("Error reloading inventory: %v", err)
	}
	c.publish()
}

// SearchItems replaces the inventory with the equality-search result set for
// the term, or falls back to a full reload when the term is blank. Matching
// is exact on the lowercased name, never substring.
func (c *Controller) SearchItems(ctx context.Context, term string) {
	c.mu.Lock()
	c.session.SearchTerm = term
	c.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		if err := c.reload(ctx); err != nil {
			log.Printf("Error reloading inventory: %v", err)
		}
		c.metrics.RecordAction("search", "ok")
		c.publish()
		return
	}

	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	items, err := c.store.FindByExactLowercaseName(ctx, term)

	c.mu.Lock()
	if seq != c.loadSeq {
		// A newer load has been issued; drop this result.
		c.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("Error searching inventory: %v", err)
		c.session.ErrorMessage = msgActionFailed
		c.mu.Unlock()
		c.metrics.RecordAction("search", "error")
		c.publish()
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.session.Inventory = items
	c.session.ErrorMessage = ""
	c.mu.Unlock()
	c.metrics.RecordAction("search", "ok")
	c.metrics.SetInventorySize(len(items))
	c.publish()
}

// RequestRecipe gathers the name of every currently loaded item, in
// inventory order, and stores whatever the requester returns (fallback
// strings included) in RecipeText.
func (c *Controller) RequestRecipe(ctx context.Context) string {
	c.mu.Lock()
	names := make([]string, 0, len(c.session.Inventory))
	for _, item := range c.session.Inventory {
		names = append(names, item.Name)
	}
	c.mu.Unlock()

	return c.RequestRecipeFor(ctx, names)
}

// RequestRecipeFor requests a recipe for an explicit ingredient list.
// Overlapping requests are resolved by sequence number: only the latest
// issued response is applied to the session, though each caller still
// receives its own result.
func (c *Controller) RequestRecipeFor(ctx context.Context, names []string) string {
	c.mu.Lock()
	c.recipeSeq++
	seq := c.recipeSeq
	c.mu.Unlock()

	start := c.now()
	text := c.recipes.RequestRecipe(ctx, names)
	c.metrics.ObserveRecipeDuration(time.Since(start))

	c.mu.Lock()
	if seq != c.recipeSeq {
		c.mu.Unlock()
		return text
	}
	c.session.RecipeText = text
	c.mu.Unlock()
	c.metrics.RecordAction("recipe", "ok")
	c.publish()
	return text
}

// reload replaces the inventory snapshot with a full fetch. Stale fetches
// are discarded by sequence number.
func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	items, err := c.store.ListAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		return nil
	}
	if err != nil {
		c.session.ErrorMessage = msgActionFailed
		return err
	}
	if items == nil {
		items = []models.Item{}
	}
	c.session.Inventory = items
	c.session.ErrorMessage = ""
	c.metrics.SetInventorySize(len(items))
	return nil
}

func (c *Controller) publish() {
	c.mu.Lock()
	fn := c.onChange
	snapshot := c.session.clone()
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
