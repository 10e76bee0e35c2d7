package prompt

import (
	"fmt"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

// Build returns the question handed to an AI assistant about upgrading
// pkg from currentRange to latest.
func Build(pkg, currentRange, latest string) string {
	return fmt.Sprintf(
		"I am working on a JS project using %s version %s. The latest version is %s. "+
			"What are the breaking changes and potential risks of upgrading? Please list them step-by-step.",
		pkg, currentRange, latest,
	)
}

// IsOutdated strips a single leading ^ or ~ from current and compares it
// textually with latest. It does not evaluate range satisfaction.
func IsOutdated(current, latest string) bool {
	clean := current
	if i := strings.IndexAny(clean, "^~"); i >= 0 {
		clean = clean[:i] + clean[i+1:]
	}
	return clean != latest
}

// Change is the size of the jump from the declared version to latest.
type Change int

const (
	ChangeUnknown Change = iota
	ChangeNone
	ChangePatch
	ChangeMinor
	ChangeMajor
	ChangeDowngrade
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangePatch:
		return "patch"
	case ChangeMinor:
		return "minor"
	case ChangeMajor:
		return "major"
	case ChangeDowngrade:
		return "older"
	default:
		return "unknown"
	}
}

// baseVersion pulls the version out of a simple range such as "^1.2.0",
// "~1.2", ">=1.0.0" or "1.x". Compound ranges and non-registry specs
// (git, file, workspace, urls, tags) yield nil.
func baseVersion(rng string) *masterminds.Version {
	rng = strings.TrimSpace(rng)
	if rng == "" || strings.ContainsAny(rng, " |") || strings.Contains(rng, ":") {
		return nil
	}
	for _, prefix := range []string{">=", "<=", "^", "~", ">", "<", "=", "v"} {
		if strings.HasPrefix(rng, prefix) {
			rng = strings.TrimPrefix(rng, prefix)
			break
		}
	}
	rng = strings.TrimRight(rng, ".x*X")
	if rng == "" {
		return nil
	}
	v, err := masterminds.NewVersion(rng)
	if err != nil {
		return nil
	}
	return v
}

// Classify compares the version written in currentRange with latest.
func Classify(currentRange, latest string) Change {
	cur := baseVersion(currentRange)
	if cur == nil {
		return ChangeUnknown
	}
	lat, err := masterminds.NewVersion(latest)
	if err != nil {
		return ChangeUnknown
	}
	switch {
	case lat.Equal(cur):
		return ChangeNone
	case lat.LessThan(cur):
		return ChangeDowngrade
	case lat.Major() != cur.Major():
		return ChangeMajor
	case lat.Minor() != cur.Minor():
		return ChangeMinor
	default:
		return ChangePatch
	}
}

// Satisfies reports whether the declared range already admits latest,
// i.e. a fresh install would pick it up without editing the manifest.
// ok is false when either side cannot be parsed.
func Satisfies(currentRange, latest string) (satisfied, ok bool) {
	c, err := masterminds.NewConstraint(currentRange)
	if err != nil {
		return false, false
	}
	v, err := masterminds.NewVersion(latest)
	if err != nil {
		return false, false
	}
	return c.Check(v), true
}

// Markdown renders the prompt with a short context block for the preview
// pane.
func Markdown(pkg, currentRange, latest string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Upgrade %s\n\n", pkg)
	fmt.Fprintf(&b, "- **Current:** `%s`\n", currentRange)
	fmt.Fprintf(&b, "- **Latest:** `%s`\n", latest)
	if ch := Classify(currentRange, latest); ch != ChangeUnknown && ch != ChangeNone {
		fmt.Fprintf(&b, "- **Change:** %s\n", ch)
	}
	b.WriteString("\n> ")
	b.WriteString(Build(pkg, currentRange, latest))
	b.WriteString("\n")
	return b.String()
}
