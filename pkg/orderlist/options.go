package orderlist

const (
	defaultTagBits        = 64
	defaultGroupSize      = 16
	defaultMergeThreshold = 8

	minTagBits = 8
	maxTagBits = 64
)

type options struct {
	tagBits        int
	groupSize      int
	mergeThreshold int
}

// Option tunes the order oracle of a list.
type Option func(*options)

func defaultOptions() options {
	return options{
		tagBits:        defaultTagBits,
		groupSize:      defaultGroupSize,
		mergeThreshold: defaultMergeThreshold,
	}
}

// WithTagBits sets the width of the label space. Values outside [8, 64] are
// clamped. Narrow label spaces are mostly useful to exercise redistribution.
func WithTagBits(bits int) Option {
	return func(o *options) {
		o.tagBits = min(max(bits, minTagBits), maxTagBits)
	}
}

// WithGroupSize sets the target number of nodes per tag group after a split.
func WithGroupSize(n int) Option {
	return func(o *options) {
		o.groupSize = max(n, 2)
	}
}

// WithMergeThreshold sets the low-water mark below which two adjacent tag
// groups are merged on removal. Zero disables merging.
func WithMergeThreshold(n int) Option {
	return func(o *options) {
		o.mergeThreshold = max(n, 0)
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	// A merged group must still fit comfortably in the fine label space.
	if limit := 1 << (min(o.tagBits, 30) - 2); o.groupSize > limit {
		o.groupSize = limit
	}
	if o.mergeThreshold > o.groupSize {
		o.mergeThreshold = o.groupSize
	}
	return o
}
