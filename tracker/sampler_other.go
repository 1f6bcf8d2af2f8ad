//go:build !windows

package tracker

// OSSampler is a stub on platforms without a foreground-window query.
// Every sample reports no signal, so the tracker stays idle.
type OSSampler struct{}

// NewOSSampler returns the platform focus sampler.
func NewOSSampler() Sampler {
	return OSSampler{}
}

func (OSSampler) Sample() (app, title string, ok bool) {
	return "", "", false
}
