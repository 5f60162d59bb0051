package cli

import "github.com/spf13/cobra"

// TargetMode distinguishes the three states of a dual-purpose output
// flag: absent, present as a bare switch, or present with a value.
type TargetMode int

const (
	TargetOff TargetMode = iota
	TargetDefaultName
	TargetNamed
)

// OutputTarget is the normalized form of a dual-purpose flag like
// --archive[=FILE]. It is decided once at flag-parsing time; nothing
// downstream re-inspects raw flag state.
type OutputTarget struct {
	Mode TargetMode
	Path string
}

// Active reports whether the target was requested at all.
func (t OutputTarget) Active() bool {
	return t.Mode != TargetOff
}

// Name resolves the target path, falling back to def for bare
// switches.
func (t OutputTarget) Name(def string) string {
	if t.Mode == TargetNamed {
		return t.Path
	}
	return def
}

// noOptValue is the sentinel pflag substitutes when a dual-purpose
// flag is given without a value.
const noOptValue = "{default}"

// targetFromFlag normalizes one dual-purpose flag.
func targetFromFlag(cmd *cobra.Command, name, value string) OutputTarget {
	if !cmd.Flags().Changed(name) {
		return OutputTarget{Mode: TargetOff}
	}
	if value == noOptValue || value == "" {
		return OutputTarget{Mode: TargetDefaultName}
	}
	return OutputTarget{Mode: TargetNamed, Path: value}
}
