package adapter

import (
	"net/http"
	"sort"
)

// HeaderPair holds the name and value of a single HTTP header.
//
// The zero value is an empty pair. Pairs are compared by value.
type HeaderPair struct {
	name  string
	value string
}

// NewHeaderPair creates a HeaderPair.
func NewHeaderPair(name, value string) HeaderPair {
	return HeaderPair{name: name, value: value}
}

// Name returns the header name.
func (h HeaderPair) Name() string {
	return h.name
}

// Value returns the header value.
func (h HeaderPair) Value() string {
	return h.value
}

func (h HeaderPair) String() string {
	return h.name + ": " + h.value
}

// HeadersFromHTTP flattens h into one pair per value.
//
// http.Header does not remember insertion order, so names are enumerated in
// sorted order; the values of each name keep their order.
func HeadersFromHTTP(h http.Header) []HeaderPair {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]HeaderPair, 0, len(h))
	for _, name := range names {
		for _, v := range h[name] {
			pairs = append(pairs, NewHeaderPair(name, v))
		}
	}
	return pairs
}

// HeadersToHTTP appends every pair to a new http.Header in slice order.
// Names are stored as given, without canonicalization, so they survive a
// round trip through HeadersFromHTTP unchanged.
func HeadersToHTTP(pairs []HeaderPair) http.Header {
	h := make(http.Header, len(pairs))
	for _, p := range pairs {
		h[p.name] = append(h[p.name], p.value)
	}
	return h
}

// EqualHeaderSets reports whether a and b hold the same pairs, ignoring how
// different names interleave but requiring the values of each name to appear
// in the same order.
func EqualHeaderSets(a, b []HeaderPair) bool {
	if len(a) != len(b) {
		return false
	}
	ga, gb := groupByName(a), groupByName(b)
	if len(ga) != len(gb) {
		return false
	}
	for name, va := range ga {
		vb, ok := gb[name]
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if va[i] != vb[i] {
				return false
			}
		}
	}
	return true
}

func groupByName(pairs []HeaderPair) map[string][]string {
	m := make(map[string][]string)
	for _, p := range pairs {
		m[p.name] = append(m[p.name], p.value)
	}
	return m
}
