package cmd

// Options holds the shared command-line options for the maintkit CLI.
type Options struct {
	Repo      string
	Token     string
	Verbosity int

	// Contributors options
	Since            string
	ContributorsFile string
	Workers          int

	// Reviews options
	Format       string
	IncludeOwner bool

	// Suggest options
	Manifest string
	IndexURL string
	NoCache  bool

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRepo sets the target repository (owner/repo).
func WithRepo(repo string) Option {
	return func(o *Options) {
		o.Repo = repo
	}
}

// WithToken sets the GitHub API token.
func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

// WithSince sets the activity cutoff (e.g., "2023-01-01", "30d").
func WithSince(since string) Option {
	return func(o *Options) {
		o.Since = since
	}
}

// WithFormat sets the review output format (yaml, text, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets the number of concurrent comment fetches.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithNoCache disables the package index cache.
func WithNoCache(noCache bool) Option {
	return func(o *Options) {
		o.NoCache = noCache
	}
}
