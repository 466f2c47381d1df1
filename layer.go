package cellmap

import "fmt"

// Layer identifies one named 2D array of a map. Its integer value is the
// layer's storage index within the owning LayerSet.
type Layer int

// Index returns the storage index of the layer.
func (l Layer) Index() int { return int(l) }

// LayerSet is the registry of layers a map is built over: a fixed, totally
// ordered set of layer names with bidirectional index mapping. A LayerSet is
// immutable after construction, and every map built from it stores exactly
// one array per registered layer.
type LayerSet struct {
	names  []string
	byName map[string]Layer
}

// NewLayerSet builds a registry from the given layer names in index order.
// It fails if no names are given or a name repeats.
func NewLayerSet(names ...string) (*LayerSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("layer set needs at least one layer")
	}
	byName := make(map[string]Layer, len(names))
	for i, n := range names {
		if _, dup := byName[n]; dup {
			return nil, fmt.Errorf("duplicate layer name %q", n)
		}
		byName[n] = Layer(i)
	}
	return &LayerSet{names: append([]string(nil), names...), byName: byName}, nil
}

// MustLayerSet is like NewLayerSet but panics on error. Intended for
// registries declared as package variables.
func MustLayerSet(names ...string) *LayerSet {
	s, err := NewLayerSet(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// NumLayers returns the number of layers in the set.
func (s *LayerSet) NumLayers() int { return len(s.names) }

// First returns the first layer in index order.
func (s *LayerSet) First() Layer { return 0 }

// All returns every layer exactly once, in index order.
func (s *LayerSet) All() []Layer {
	all := make([]Layer, len(s.names))
	for i := range all {
		all[i] = Layer(i)
	}
	return all
}

// FromIndex returns the layer with the given storage index. It panics if
// the index is outside [0, NumLayers), which is a programmer error.
func (s *LayerSet) FromIndex(index int) Layer {
	if index < 0 || index >= len(s.names) {
		panic(fmt.Sprintf("layer index %d out of range, set has %d layers", index, len(s.names)))
	}
	return Layer(index)
}

// Contains reports whether l is a layer of this set.
func (s *LayerSet) Contains(l Layer) bool {
	return l >= 0 && int(l) < len(s.names)
}

// Name returns the name of the given layer. It panics if l is not in the
// set.
func (s *LayerSet) Name(l Layer) string {
	if !s.Contains(l) {
		panic(fmt.Sprintf("layer index %d out of range, set has %d layers", l, len(s.names)))
	}
	return s.names[l]
}

// Names returns the layer names in index order.
func (s *LayerSet) Names() []string {
	return append([]string(nil), s.names...)
}

// FromName looks a layer up by name.
func (s *LayerSet) FromName(name string) (Layer, bool) {
	l, ok := s.byName[name]
	return l, ok
}
