package tracker

// Sampler reports which application currently holds input focus. A false
// ok value means there is no signal this tick (no focusable window, or the
// active process could not be resolved) and is not an error.
type Sampler interface {
	Sample() (app, title string, ok bool)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func() (app, title string, ok bool)

func (f SamplerFunc) Sample() (app, title string, ok bool) {
	return f()
}
