package core

// Step is the interface representing a single unit of provisioning work.
// Lives in the core package to avoid import cycles between the runner
// and the step implementations.
type Step interface {
	// Check is the precondition: it reports whether the desired state
	// already holds. A satisfied step is skipped, not an error.
	Check(ctx *RunContext) (bool, error)
	// Apply performs the actual work.
	Apply(ctx *RunContext) (Result, error)
	Name() string
	Kind() string
}

// Verifier is implemented by steps that carry a postcondition,
// typically a version probe after an install.
type Verifier interface {
	Verify(ctx *RunContext) error
}

// Conditional is implemented by steps gated by an expression.
// An empty string means the step always runs.
type Conditional interface {
	When() string
}

// Validator is implemented by steps that can reject a bad configuration
// before the pipeline starts.
type Validator interface {
	Validate() error
}

// BaseStep ortak alanları tutar.
type BaseStep struct {
	StepName string `yaml:"name"`
	StepKind string `yaml:"kind"`
}

func (b *BaseStep) Name() string {
	return b.StepName
}

func (b *BaseStep) Kind() string {
	return b.StepKind
}
