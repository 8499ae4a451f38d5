package vibrant

import (
	"slices"
	"strings"
)

// FilterFunc reports whether a pixel is acceptable.
type FilterFunc func(r, g, b, a uint8) bool

// Filter is a named pixel predicate. The ID identifies the filter for
// removal from a FilterSet.
type Filter struct {
	ID     string
	Accept FilterFunc
}

// NewFilter creates a filter with the given identifier and predicate.
func NewFilter(id string, fn FilterFunc) Filter {
	return Filter{ID: id, Accept: fn}
}

// Allows reports whether the pixel passes the filter.
// A filter without a predicate accepts everything.
func (f Filter) Allows(r, g, b, a uint8) bool {
	if f.Accept == nil {
		return true
	}
	return f.Accept(r, g, b, a)
}

// Built-in filter identifiers.
const (
	DefaultFilterID = "default"
	WhiteFilterID   = "white"
	BlackFilterID   = "black"
)

var (
	// DefaultFilter rejects near-transparent pixels.
	DefaultFilter = NewFilter(DefaultFilterID, func(_, _, _, a uint8) bool {
		return a >= 125
	})

	// WhiteFilter rejects near-white pixels.
	WhiteFilter = NewFilter(WhiteFilterID, func(r, g, b, _ uint8) bool {
		return !(r > 250 && g > 250 && b > 250)
	})

	// BlackFilter rejects near-black pixels.
	BlackFilter = NewFilter(BlackFilterID, func(r, g, b, _ uint8) bool {
		return !(r < 5 && g < 5 && b < 5)
	})
)

// BuiltinFilters returns the named filters shipped with the package.
func BuiltinFilters() map[string]Filter {
	return map[string]Filter{
		DefaultFilterID: DefaultFilter,
		WhiteFilterID:   WhiteFilter,
		BlackFilterID:   BlackFilter,
	}
}

// CombineFilters returns a filter equal to the logical AND of filters,
// evaluated in order and stopping at the first rejection. The composite holds
// its own copy of the list. An empty list accepts every pixel.
func CombineFilters(filters ...Filter) Filter {
	snapshot := make([]Filter, 0, len(filters))
	ids := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Accept == nil {
			continue
		}
		snapshot = append(snapshot, f)
		ids = append(ids, f.ID)
	}

	return Filter{
		ID: strings.Join(ids, "+"),
		Accept: func(r, g, b, a uint8) bool {
			for _, f := range snapshot {
				if !f.Accept(r, g, b, a) {
					return false
				}
			}
			return true
		},
	}
}

// FilterSet is an ordered list of filters that can be edited before being
// combined. Combining takes a snapshot; later edits do not affect it.
type FilterSet struct {
	filters []Filter
}

// NewFilterSet creates a filter set holding the given filters.
func NewFilterSet(filters ...Filter) *FilterSet {
	return &FilterSet{filters: slices.Clone(filters)}
}

// Add appends a filter to the set.
func (fs *FilterSet) Add(f Filter) *FilterSet {
	fs.filters = append(fs.filters, f)
	return fs
}

// Remove deletes every filter with the given ID.
// Returns true if at least one filter was removed.
func (fs *FilterSet) Remove(id string) bool {
	n := len(fs.filters)
	fs.filters = slices.DeleteFunc(fs.filters, func(f Filter) bool {
		return f.ID == id
	})
	return len(fs.filters) != n
}

// Has reports whether a filter with the given ID is in the set.
func (fs *FilterSet) Has(id string) bool {
	return slices.ContainsFunc(fs.filters, func(f Filter) bool {
		return f.ID == id
	})
}

// Len returns the number of filters in the set.
func (fs *FilterSet) Len() int {
	return len(fs.filters)
}

// Filters returns a copy of the filters in order.
func (fs *FilterSet) Filters() []Filter {
	return slices.Clone(fs.filters)
}

// Combine returns the AND of the current filters.
func (fs *FilterSet) Combine() Filter {
	return CombineFilters(fs.filters...)
}

// ApplyFilter returns a copy of an RGBA buffer in which every pixel that
// fails the filter has its alpha set to zero. RGB values are untouched and
// the output has the same length as the input.
func ApplyFilter(pixels []byte, f Filter) []byte {
	out := slices.Clone(pixels)
	if out == nil {
		return []byte{}
	}
	for i := 0; i+4 <= len(out); i += 4 {
		if !f.Allows(out[i], out[i+1], out[i+2], out[i+3]) {
			out[i+3] = 0
		}
	}
	return out
}

// FilterSwatches drops swatches whose colour fails the filter. Swatches have
// no alpha, so the filter sees them as fully opaque. Order is preserved.
func FilterSwatches(swatches []Swatch, f Filter) []Swatch {
	kept := make([]Swatch, 0, len(swatches))
	for _, s := range swatches {
		if f.Allows(s.rgb.R, s.rgb.G, s.rgb.B, 255) {
			kept = append(kept, s)
		}
	}
	return kept
}
