package engine

// Options represents configuration options for the Engine.
type Options struct {
	// HistoryDepth is how many past book versions the engine retains for
	// point-in-time queries. Zero disables history.
	HistoryDepth int
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		HistoryDepth: 16,
	}
}
