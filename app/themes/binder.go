// Package themes binds stored themes to theme browser grid rows.
package themes

import (
	"fmt"

	"blogreader/app/models"
	"blogreader/app/repositories"
)

// DefaultWidth is the screenshot width requested when the grid has none.
const DefaultWidth = 500

// GridItem is one cell of the theme browser grid. Items are recycled across
// binds, so RequestURL remembers which screenshot the cell last asked for.
type GridItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`

	RequestURL string `json:"-"`
	// ImageCleared reports that the last bind dropped a stale screenshot.
	ImageCleared bool `json:"-"`
}

// Binder fills grid items from themes.
type Binder struct {
	Width int
}

// NewBinder creates a new Binder, falling back to DefaultWidth
func NewBinder(width int) Binder {
	if width <= 0 {
		width = DefaultWidth
	}
	return Binder{Width: width}
}

// Bind fills item from theme. A screenshot different from the one the item
// last requested clears the image before the new one is set.
func (b Binder) Bind(item *GridItem, theme *models.Theme) {
	if item == nil || theme == nil {
		return
	}
	item.Name = theme.Name
	item.Price = theme.Price
	item.ImageCleared = false

	if item.RequestURL != theme.Screenshot {
		if item.RequestURL != "" || item.ImageURL != "" {
			item.ImageURL = ""
			item.ImageCleared = true
		}
		item.RequestURL = theme.Screenshot
	}
	if theme.Screenshot == "" {
		item.ImageURL = ""
		return
	}
	item.ImageURL = fmt.Sprintf("%s?w=%d", theme.Screenshot, b.width())
}

// BindAll binds themes to rows, reusing recycled items in order and
// allocating new ones past their end.
func (b Binder) BindAll(themes []*models.Theme, recycled []*GridItem) []*GridItem {
	rows := make([]*GridItem, 0, len(themes))
	for i, theme := range themes {
		var item *GridItem
		if i < len(recycled) && recycled[i] != nil {
			item = recycled[i]
		} else {
			item = &GridItem{}
		}
		b.Bind(item, theme)
		rows = append(rows, item)
	}
	return rows
}

func (b Binder) width() int {
	if b.Width <= 0 {
		return DefaultWidth
	}
	return b.Width
}

// Browser serves bound rows for the stored themes.
type Browser struct {
	store  repositories.ThemeStore
	binder Binder
}

// NewBrowser creates a new Browser over store
func NewBrowser(store repositories.ThemeStore, binder Binder) *Browser {
	return &Browser{store: store, binder: binder}
}

// Rows lists stored themes bound to fresh grid items.
func (b *Browser) Rows() ([]*GridItem, error) {
	list, err := b.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return b.binder.BindAll(list, nil), nil
}

// Import validates and stores themes.
func (b *Browser) Import(list []*models.Theme) error {
	for _, t := range list {
		if err := b.store.AddOrUpdate(t); err != nil {
			return fmt.Errorf("failed to import theme: %w", err)
		}
	}
	return nil
}
