package cellmap

// Layerer controls which layer(s) an iterator visits and in what order.
type Layerer interface {
	// Current returns the layer being traversed, or ok false once every
	// layer has been exhausted.
	Current() (Layer, bool)

	// Advance moves to the next layer.
	Advance()
}

// singleLayerer visits one fixed layer.
type singleLayerer struct {
	layer Layer
	done  bool
}

func (l *singleLayerer) Current() (Layer, bool) {
	if l.done {
		return 0, false
	}
	return l.layer, true
}

func (l *singleLayerer) Advance() { l.done = true }

// manyLayerer visits an ordered queue of layers, by default the whole
// registry in index order.
type manyLayerer struct {
	layers []Layer
	pos    int
}

func (l *manyLayerer) Current() (Layer, bool) {
	if l.pos >= len(l.layers) {
		return 0, false
	}
	return l.layers[l.pos], true
}

func (l *manyLayerer) Advance() { l.pos++ }
