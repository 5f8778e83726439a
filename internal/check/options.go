package check

// Options configure the name tails and result tags the rule matches on.
// Zero values mean the defaults; see DefaultOptions.
type Options struct {
	// BuilderTail is the path segment identifying the transaction builder
	// module (Ecto.Multi and aliases thereof).
	BuilderTail string
	// ExecutorTail is the path segment identifying the transaction executor.
	// Matched case-sensitively, plus the literal lowercase "repo" for
	// dynamic-repo variables.
	ExecutorTail string
	// FrameworkTail is the `use` argument segment that opts a module in.
	FrameworkTail string
	// FailureTag and SuccessTag are the canonical result-tuple tags.
	FailureTag string
	SuccessTag string
}

// DefaultOptions returns the canonical Ecto/Oban configuration.
func DefaultOptions() Options {
	return Options{
		BuilderTail:   "Multi",
		ExecutorTail:  "Repo",
		FrameworkTail: "Oban",
		FailureTag:    "error",
		SuccessTag:    "ok",
	}
}

// normalized fills empty fields with their defaults so partially built
// Options behave sanely.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.BuilderTail == "" {
		o.BuilderTail = def.BuilderTail
	}
	if o.ExecutorTail == "" {
		o.ExecutorTail = def.ExecutorTail
	}
	if o.FrameworkTail == "" {
		o.FrameworkTail = def.FrameworkTail
	}
	if o.FailureTag == "" {
		o.FailureTag = def.FailureTag
	}
	if o.SuccessTag == "" {
		o.SuccessTag = def.SuccessTag
	}
	return o
}
