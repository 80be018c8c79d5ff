package tool

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/zero-day-ai/youtube-mcp/schema"
)

// ErrInvalidDescriptor is wrapped by every error returned from Descriptor.Validate.
var ErrInvalidDescriptor = errors.New("invalid tool descriptor")

// namePattern matches the tool names MCP clients accept.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Descriptor describes a tool's metadata.
// It provides a snapshot of a tool's configuration without the execution logic.
type Descriptor struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`

	// Description is a human-readable description of what the tool does.
	Description string `json:"description"`

	// InputSchema describes the accepted arguments.
	InputSchema schema.JSON `json:"inputSchema"`

	// Version is the semantic version of the tool, if any.
	Version string `json:"version,omitempty"`

	// QuotaCost estimates the upstream quota units one call consumes.
	// It is carried as result metadata and never enforced.
	QuotaCost *int `json:"quotaCost,omitempty"`

	// Chainable marks tools that invoke other tools. It must agree with the
	// kind of the tool's factory.
	Chainable bool `json:"chainable,omitempty"`
}

// Validate checks the descriptor invariants and reports every violation.
func (d Descriptor) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if !namePattern.MatchString(d.Name) {
		errs = append(errs, fmt.Errorf("name %q must match %s", d.Name, namePattern))
	}
	if d.Description == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if d.InputSchema.Type == "" {
		errs = append(errs, errors.New("input schema must declare a type"))
	}
	if err := d.InputSchema.CompilePatterns(); err != nil {
		errs = append(errs, fmt.Errorf("input schema: %w", err))
	}
	if d.QuotaCost != nil && *d.QuotaCost < 0 {
		errs = append(errs, fmt.Errorf("quota cost must be non-negative, got %d", *d.QuotaCost))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, d.Name, errors.Join(errs...))
}

// CheckFactory verifies that the descriptor's Chainable flag matches the factory kind.
func (d Descriptor) CheckFactory(f Factory) error {
	if f.IsZero() {
		return fmt.Errorf("%w %q: factory is required", ErrInvalidDescriptor, d.Name)
	}
	want := KindSimple
	if d.Chainable {
		want = KindChainable
	}
	if f.Kind() != want {
		return fmt.Errorf("%w %q: descriptor declares a %s tool but factory is %s", ErrInvalidDescriptor, d.Name, want, f.Kind())
	}
	return nil
}

// Cost returns a pointer to n, for descriptor and metadata literals.
func Cost(n int) *int {
	return &n
}
