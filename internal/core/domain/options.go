package domain

// OptionSet is the structured form of an option line.
type OptionSet struct {
	// Verbosity is accumulated by repeated -v flags.
	Verbosity int
	// Bools holds boolean flags that were given, keyed by long name.
	Bools map[string]bool
	// Strings holds string flags that were given, keyed by long name.
	Strings map[string]string
	// Links are resources the extension is linked against.
	Links []string
	// Extras are free-form driver arguments.
	Extras []string
	// AddHash are salt strings that only perturb the fingerprint.
	AddHash []string
}

// NewOptionSet returns an empty OptionSet.
func NewOptionSet() *OptionSet {
	return &OptionSet{
		Bools:   make(map[string]bool),
		Strings: make(map[string]string),
	}
}

// String returns the value of a string flag and whether it was given.
func (o *OptionSet) String(name string) (string, bool) {
	v, ok := o.Strings[name]
	return v, ok
}

// Translation is the driver-facing form of a merged OptionSet.
type Translation struct {
	// Args are the driver arguments in order.
	Args []string
	// Suffix is the source file suffix the driver should see.
	Suffix string
	// FFlags are compiler flags passed through FlagsEnvVar.
	FFlags string
	// HasFFlags reports whether a flags family was given at all.
	HasFFlags bool
	// Warnings are non-fatal diagnostics produced during translation.
	Warnings []string
}

// Env returns the extra environment for the driver invocation.
// inherited is the current value of FlagsEnvVar.
func (t Translation) Env(inherited string) map[string]string {
	if !t.HasFFlags {
		return nil
	}
	return map[string]string{FlagsEnvVar: inherited + " " + t.FFlags}
}
