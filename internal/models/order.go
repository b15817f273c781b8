package models

import (
	"sort"
	"strings"
)

// Items is a multiset of food. Order within the slice carries no meaning.
type Items []Food

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusClaimed   OrderStatus = "claimed"
	OrderStatusCompleted OrderStatus = "completed"
)

// Clone returns an independent copy. A nil receiver yields an empty, non-nil slice.
func (it Items) Clone() Items {
	out := make(Items, len(it))
	copy(out, it)
	return out
}

// Counts returns the number of each food name in the multiset
func (it Items) Counts() map[string]int {
	counts := make(map[string]int, len(Menu))
	for _, f := range it {
		counts[f.Name]++
	}
	return counts
}

// Count returns how many of food the multiset holds
func (it Items) Count(food Food) int {
	n := 0
	for _, f := range it {
		if f.Name == food.Name {
			n++
		}
	}
	return n
}

// Remove removes one instance of food and reports whether it was present
func (it *Items) Remove(food Food) bool {
	for i, f := range *it {
		if f.Name == food.Name {
			last := len(*it) - 1
			(*it)[i] = (*it)[last]
			*it = (*it)[:last]
			return true
		}
	}
	return false
}

// Equal reports multiset equality
func (it Items) Equal(other Items) bool {
	if len(it) != len(other) {
		return false
	}
	a, b := it.Counts(), other.Counts()
	for name, n := range a {
		if b[name] != n {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every food in it appears at least as often in other
func (it Items) SubsetOf(other Items) bool {
	b := other.Counts()
	for name, n := range it.Counts() {
		if b[name] < n {
			return false
		}
	}
	return true
}

// String renders the multiset sorted by name, e.g. [pizza, soda, wings]
func (it Items) String() string {
	names := make([]string, len(it))
	for i, f := range it {
		names[i] = f.Name
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}
