package hookless

import "strings"

// Headers is a case-insensitive mapping from header name to a single fused
// value. Multiple input values for the same name are joined with ", " by
// whoever populates the map (see Request conversion in request.go); Headers
// itself only guarantees case-insensitive lookup and iteration with
// case-insensitive key uniqueness.
//
// The zero value is an empty map: Get and Len are safe on it, and Set/Add
// initialize it on first use. NewHeaders returns an initialized one.
type Headers struct {
	// canon maps the lower-cased key to the key as it was first stored,
	// so Keys() and iteration can return a stable (if arbitrary) case.
	canon map[string]string
	vals  map[string]string
}

// NewHeaders returns an empty, ready-to-use Headers map.
func NewHeaders() Headers {
	return Headers{
		canon: make(map[string]string),
		vals:  make(map[string]string),
	}
}

func foldKey(key string) string {
	return strings.ToLower(key)
}

// Get returns the value stored for key, case-insensitively, and whether it
// was present.
func (h Headers) Get(key string) (string, bool) {
	if h.vals == nil {
		return "", false
	}
	v, ok := h.vals[foldKey(key)]
	return v, ok
}

// Set stores value for key, replacing any existing value under any case
// variant of key. The first-seen case of key is what Keys()/Range() expose.
func (h *Headers) Set(key, value string) {
	if h.vals == nil {
		*h = NewHeaders()
	}
	fk := foldKey(key)
	if _, exists := h.canon[fk]; !exists {
		h.canon[fk] = key
	}
	h.vals[fk] = value
}

// Add appends value to any existing value for key, fusing repeated header
// lines the way a single combined header line would read.
func (h *Headers) Add(key, value string) {
	if h.vals == nil {
		*h = NewHeaders()
	}
	if existing, ok := h.Get(key); ok {
		h.Set(key, existing+", "+value)
		return
	}
	h.Set(key, value)
}

// Len returns the number of distinct header names stored.
func (h Headers) Len() int {
	return len(h.vals)
}

// Range calls fn for every header pair in an unspecified but stable-per-call
// order, preserving the case each name was first stored under. Task's
// response-production path (task.go) relies on that stability so header
// writes are deterministic within a single response.
func (h Headers) Range(fn func(key, value string)) {
	for fk, name := range h.canon {
		fn(name, h.vals[fk])
	}
}
