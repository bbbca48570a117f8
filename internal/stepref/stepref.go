// Package stepref parses raw step reference strings from the pipeline
// configuration into structured descriptors. A reference is a dot separated
// identifier path with an optional trailing parenthesized literal argument
// list, for example "_find_files" or "abi_filter.ABIFilter.filter('arm64-v8a')".
package stepref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/All1eexx/ApkForge/internal/literal"
)

// Descriptor is the parsed, immutable form of one configured step reference.
type Descriptor struct {
	// Raw is the trimmed source text of the reference.
	Raw string
	// Path holds the dot separated identifier segments, at least one.
	Path []string
	// Args holds the parsed argument list when HasArgs is true.
	Args []literal.Value
	// HasArgs distinguishes "name(...)" from a bare "name". A bare reference
	// leaves the invocation arguments to the engine's auto-resolution.
	HasArgs bool
}

// DisplayName is the reference without its argument list, used in logs and
// reports.
func (d Descriptor) DisplayName() string {
	if i := strings.IndexByte(d.Raw, '('); i >= 0 {
		return strings.TrimSpace(d.Raw[:i])
	}
	return d.Raw
}

// MalformedStepError reports a step reference that could not be parsed.
type MalformedStepError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *MalformedStepError) Error() string {
	return fmt.Sprintf("malformed step reference %q: %s", e.Raw, e.Reason)
}

func (e *MalformedStepError) Unwrap() error { return e.Err }

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse turns a raw step reference into a Descriptor. It is a pure function;
// the same input always yields the same descriptor.
func Parse(raw string) (Descriptor, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Descriptor{}, &MalformedStepError{Raw: raw, Reason: "empty reference"}
	}

	name := trimmed
	var args []literal.Value
	hasArgs := false

	if i := strings.IndexByte(trimmed, '('); i >= 0 {
		if !strings.HasSuffix(trimmed, ")") {
			return Descriptor{}, &MalformedStepError{Raw: trimmed, Reason: "unbalanced parentheses"}
		}
		name = strings.TrimSpace(trimmed[:i])
		argSrc := trimmed[i+1 : len(trimmed)-1]
		parsed, err := literal.ParseArgs(argSrc)
		if err != nil {
			return Descriptor{}, &MalformedStepError{Raw: trimmed, Reason: err.Error(), Err: err}
		}
		args = parsed
		hasArgs = true
	} else if strings.ContainsRune(trimmed, ')') {
		return Descriptor{}, &MalformedStepError{Raw: trimmed, Reason: "unbalanced parentheses"}
	}

	if name == "" {
		return Descriptor{}, &MalformedStepError{Raw: trimmed, Reason: "missing target name"}
	}

	segments := strings.Split(name, ".")
	for _, seg := range segments {
		if !identPattern.MatchString(seg) {
			return Descriptor{}, &MalformedStepError{
				Raw:    trimmed,
				Reason: fmt.Sprintf("%q is not a valid identifier segment", seg),
			}
		}
	}

	return Descriptor{Raw: trimmed, Path: segments, Args: args, HasArgs: hasArgs}, nil
}
