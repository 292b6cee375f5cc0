// Package stablevec provides an index-stable collection.
//
// Removing an element leaves a tombstone in its slot instead of shifting
// later elements, so indices handed out by Push stay valid until that exact
// element is removed. Freed slots are never reused.
package stablevec

import "iter"

type slot[T any] struct {
	value T
	live  bool
}

// Vec is an append-only arena with tombstoned removal.
// The zero value is an empty Vec ready to use.
type Vec[T any] struct {
	slots []slot[T]
	live  int
}

// New creates an empty Vec.
func New[T any]() *Vec[T] {
	return &Vec[T]{}
}

// Push appends v and returns its index.
func (v *Vec[T]) Push(value T) int {
	v.slots = append(v.slots, slot[T]{value: value, live: true})
	v.live++
	return len(v.slots) - 1
}

// Get returns the element at i.
func (v *Vec[T]) Get(i int) (T, bool) {
	if !v.Contains(i) {
		var zero T
		return zero, false
	}
	return v.slots[i].value, true
}

// Set replaces the element at a live index.
func (v *Vec[T]) Set(i int, value T) bool {
	if !v.Contains(i) {
		return false
	}
	v.slots[i].value = value
	return true
}

// Contains reports whether i refers to a live element.
func (v *Vec[T]) Contains(i int) bool {
	return i >= 0 && i < len(v.slots) && v.slots[i].live
}

// Remove tombstones the element at i and returns it.
func (v *Vec[T]) Remove(i int) (T, bool) {
	var zero T
	if !v.Contains(i) {
		return zero, false
	}
	value := v.slots[i].value
	v.slots[i] = slot[T]{}
	v.live--
	return value, true
}

// Retain removes every element for which keep returns false and returns the
// removed indices in ascending order.
func (v *Vec[T]) Retain(keep func(i int, value T) bool) []int {
	var removed []int
	for i := range v.slots {
		if v.slots[i].live && !keep(i, v.slots[i].value) {
			v.slots[i] = slot[T]{}
			v.live--
			removed = append(removed, i)
		}
	}
	return removed
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int {
	return v.live
}

// Cap returns the number of slots ever handed out, live or not.
func (v *Vec[T]) Cap() int {
	return len(v.slots)
}

// Indices returns the live indices in ascending order.
func (v *Vec[T]) Indices() []int {
	out := make([]int, 0, v.live)
	for i := range v.slots {
		if v.slots[i].live {
			out = append(out, i)
		}
	}
	return out
}

// All iterates over live elements in index order.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range v.slots {
			if !v.slots[i].live {
				continue
			}
			if !yield(i, v.slots[i].value) {
				return
			}
		}
	}
}
