package model

import "encoding/json"

// Irasutoya groups post stubs by category name.
// Category names are unique keys and keep the order in which they were added.
type Irasutoya struct {
	names  []string
	byName map[string][]IrasutoLink
}

// NewIrasutoya returns an empty aggregate.
func NewIrasutoya() *Irasutoya {
	return &Irasutoya{
		names:  make([]string, 0),
		byName: make(map[string][]IrasutoLink),
	}
}

// Set stores the posts of a category. Setting an existing category replaces
// its posts but keeps its original position.
func (i *Irasutoya) Set(category string, links []IrasutoLink) {
	if _, ok := i.byName[category]; !ok {
		i.names = append(i.names, category)
	}
	i.byName[category] = links
}

// Get returns the posts of a category.
func (i *Irasutoya) Get(category string) ([]IrasutoLink, bool) {
	links, ok := i.byName[category]
	return links, ok
}

// Names returns the category names in insertion order.
func (i *Irasutoya) Names() []string {
	names := make([]string, len(i.names))
	copy(names, i.names)
	return names
}

// Len returns the number of categories.
func (i *Irasutoya) Len() int {
	return len(i.names)
}

// TotalLinks returns the number of post stubs across all categories.
func (i *Irasutoya) TotalLinks() int {
	total := 0
	for _, links := range i.byName {
		total += len(links)
	}
	return total
}

// categoryEntry is the JSON form of one category in the aggregate.
type categoryEntry struct {
	Category string        `json:"category"`
	Irasuto  []IrasutoLink `json:"irasuto"`
}

// MarshalJSON encodes the aggregate as an ordered list of categories,
// since a JSON object would lose the insertion order.
func (i *Irasutoya) MarshalJSON() ([]byte, error) {
	entries := make([]categoryEntry, 0, len(i.names))
	for _, name := range i.names {
		entries = append(entries, categoryEntry{Category: name, Irasuto: i.byName[name]})
	}
	return json.Marshal(entries)
}
