// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"sync"
	"sync/atomic"
)

// elemCache memoizes the materialized elements of a collection view. Racing
// loaders may both decode an element, the first one to publish wins.
type elemCache struct {
	items sync.Map // uint64 -> Value
}

func (c *elemCache) load(i uint64, fill func() (Value, error)) (Value, error) {
	if v, ok := c.items.Load(i); ok {
		return v.(Value), nil
	}
	v, err := fill()
	if err != nil {
		return nil, err
	}
	actual, _ := c.items.LoadOrStore(i, v)
	return actual.(Value), nil
}

// fieldCache memoizes the materialized fields of a container view, with one
// write-once slot per field.
type fieldCache []atomic.Pointer[Value]

func (c fieldCache) load(i int, fill func() (Value, error)) (Value, error) {
	if v := c[i].Load(); v != nil {
		return *v, nil
	}
	v, err := fill()
	if err != nil {
		return nil, err
	}
	if !c[i].CompareAndSwap(nil, &v) {
		return *c[i].Load(), nil
	}
	return v, nil
}

// with returns a copy of the cache in which field i is set to v.
func (c fieldCache) with(i int, v Value) fieldCache {
	next := make(fieldCache, len(c))
	for j := range c {
		if j == i {
			next[j].Store(&v)
		} else if old := c[j].Load(); old != nil {
			next[j].Store(old)
		}
	}
	return next
}

// indexed is a view with positional element access.
type indexed interface {
	Get(i uint64) (Value, error)
}

// elements materializes the first n elements of a view.
func elements(v indexed, n uint64) ([]Value, error) {
	values := make([]Value, 0, n)
	for i := uint64(0); i < n; i++ {
		elem, err := v.Get(i)
		if err != nil {
			return nil, err
		}
		values = append(values, elem)
	}
	return values, nil
}
