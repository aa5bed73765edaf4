package variantschema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// Unknown selects the unknown-key policy. The default, UnknownStrict,
	// rejects keys outside the document layout to catch typos.
	Unknown UnknownPolicy
}
