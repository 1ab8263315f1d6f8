package runtime

import (
	"regexp"
	"strings"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

var (
	// DefaultSignature matches "error" or "warning" as a standalone word.
	DefaultSignature = regexp.MustCompile(`(?i)\b(error|warning)\b`)

	// DefaultSuppress matches flag-shaped tokens such as --error or -Werror,
	// including quoted ones and ones following '='. They are blanked out
	// before the signature is tested.
	DefaultSuppress = regexp.MustCompile(`(^|[^\w-])--?[A-Za-z0-9][\w=-]*`)
)

// Classifier decides the Outcome of an execution from its exit code and
// output. Both patterns are data so callers can swap them.
type Classifier struct {
	Signature *regexp.Regexp
	Suppress  *regexp.Regexp
}

// DefaultClassifier returns the classifier used by the pipeline.
func DefaultClassifier() Classifier {
	return Classifier{Signature: DefaultSignature, Suppress: DefaultSuppress}
}

// Classify returns Failed for a non-zero exit code, Tainted for a zero exit
// code whose output carries the signature, and Clean otherwise.
func (c Classifier) Classify(result ExecutionResult) schema.Outcome {
	if result.ExitCode != 0 {
		return schema.Failed
	}
	if _, ok := c.Match(result.Output); ok {
		return schema.Tainted
	}
	return schema.Clean
}

// Match returns the first output line carrying the signature.
func (c Classifier) Match(output string) (string, bool) {
	if c.Signature == nil {
		return "", false
	}
	for _, line := range strings.Split(output, "\n") {
		probe := line
		if c.Suppress != nil {
			probe = c.Suppress.ReplaceAllString(probe, " ")
		}
		if c.Signature.MatchString(probe) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}
