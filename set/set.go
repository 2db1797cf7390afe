// Package set provides primitives for inserting distinct values into ordered sets.
package set

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Slice must be sorted in ascending order.
type Slice[T constraints.Ordered] []T

// Insert x in place if not exists; returns x index and true if inserted.
// The slice must be sorted in ascending order.
func (a *Slice[T]) Insert(x T) (i int, ok bool) {
	i = a.search(x)
	if ok = i == len(*a) || (*a)[i] != x; ok {
		*a = append(*a, *new(T))
		copy((*a)[i+1:], (*a)[i:])
		(*a)[i] = x
	}
	return
}

// Remove x in place if exists; returns true if removed.
func (a *Slice[T]) Remove(x T) bool {
	i := a.search(x)
	if i == len(*a) || (*a)[i] != x {
		return false
	}
	*a = append((*a)[:i], (*a)[i+1:]...)
	return true
}

// Replace old with x; returns false and leaves a unchanged if old does not exist.
func (a *Slice[T]) Replace(old, x T) bool {
	if !a.Remove(old) {
		return false
	}
	a.Insert(x)
	return true
}

func (a Slice[T]) Has(x T) bool {
	i := a.search(x)
	return !(i == len(a) || a[i] != x)
}

func (a Slice[T]) search(x T) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// Of returns a set holding the distinct values of xs.
func Of[T constraints.Ordered](xs ...T) Slice[T] {
	a := make(Slice[T], 0, len(xs))
	for _, x := range xs {
		a.Insert(x)
	}
	return a
}
