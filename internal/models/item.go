package models

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const (
	// DefaultName marks an item that has not been successfully fetched yet
	DefaultName = "noname"

	// ButtonLabelMax is the display length limit for item names on inline buttons
	ButtonLabelMax = 25
)

// Item represents a tracked product. Identity is the URL alone: two items
// with the same URL are the same tracked entry regardless of name, price
// or quantity.
type Item struct {
	URL      string  `json:"url"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// NewItem creates an item for a URL with not-yet-fetched defaults
func NewItem(url string) Item {
	return Item{
		URL:  url,
		Name: DefaultName,
	}
}

// ButtonLabel renders the item for an inline button, truncating long names.
// The limit counts runes so multi-byte names are never cut mid-character.
func (i Item) ButtonLabel() string {
	name := i.Name
	if utf8.RuneCountInString(name) > ButtonLabelMax {
		name = string([]rune(name)[:ButtonLabelMax])
	}
	return fmt.Sprintf("%s - %.2f", name, i.Price)
}

// WishList is a chat's collection of tracked items, deduplicated by URL.
// Insertion replaces any existing entry with the same URL.
type WishList struct {
	byURL map[string]Item
}

// NewWishList creates an empty wish list
func NewWishList() *WishList {
	return &WishList{byURL: make(map[string]Item)}
}

// Put inserts an item, replacing any existing item with the same URL
func (w *WishList) Put(item Item) {
	if w.byURL == nil {
		w.byURL = make(map[string]Item)
	}
	w.byURL[item.URL] = item
}

// Get looks up an item by URL
func (w *WishList) Get(url string) (Item, bool) {
	item, ok := w.byURL[url]
	return item, ok
}

// Remove deletes the item with the given URL. Removing an absent URL is a no-op.
func (w *WishList) Remove(url string) {
	delete(w.byURL, url)
}

// Len returns the number of tracked items
func (w *WishList) Len() int {
	return len(w.byURL)
}

// Items returns the tracked items ordered by URL for stable rendering
func (w *WishList) Items() []Item {
	items := make([]Item, 0, len(w.byURL))
	for _, item := range w.byURL {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].URL < items[b].URL
	})
	return items
}
