package mathscroll

import "sort"

// ColorMap assigns colors to TeX fragments: every occurrence of a key in an
// expression is painted with its color.
type ColorMap map[string]RGBA

// needles returns the keys shortest first, ties broken lexically, so the
// application order is deterministic.
func (cm ColorMap) needles() []string {
	keys := make([]string, 0, len(cm))
	for k := range cm {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Merge returns a new map holding cm overridden by other.
func (cm ColorMap) Merge(other ColorMap) ColorMap {
	out := make(ColorMap, len(cm)+len(other))
	for k, v := range cm {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
