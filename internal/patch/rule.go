package patch

import (
	"regexp"
	"strings"
)

// Rule is one substitution applied to the entry file source.
type Rule struct {
	Name string
	// LocalOnly rules run only against an installation nested under the
	// wrapper's own install root.
	LocalOnly bool
	// Anchored rules depend on an exact fragment of one upstream build and
	// are expected to go missing when upstream changes.
	Anchored bool
	apply    func(src string, e *Engine) (string, int)
}

// Apply runs the rule and returns the new text and the number of
// replacements made.
func (r Rule) Apply(src string, e *Engine) (string, int) {
	return r.apply(src, e)
}

// RegexRule replaces every match of each pattern with replacement. The
// replacement is literal; $ has no special meaning.
func RegexRule(name, replacement string, patterns ...string) Rule {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return Rule{
		Name: name,
		apply: func(src string, _ *Engine) (string, int) {
			n := 0
			for _, re := range res {
				src = re.ReplaceAllStringFunc(src, func(string) string {
					n++
					return replacement
				})
			}
			return src, n
		},
	}
}

// LiteralRule replaces every occurrence of old with replacement.
func LiteralRule(name, old, replacement string) Rule {
	return Rule{
		Name: name,
		apply: func(src string, _ *Engine) (string, int) {
			n := strings.Count(src, old)
			if n == 0 {
				return src, 0
			}
			return strings.ReplaceAll(src, old, replacement), n
		},
	}
}

// AnchorRule replaces the first occurrence of anchor with the output of
// gen(anchor). It reports zero replacements when the anchor is absent.
func AnchorRule(name, anchor string, gen func(anchor string, e *Engine) string) Rule {
	return Rule{
		Name:     name,
		Anchored: true,
		apply: func(src string, e *Engine) (string, int) {
			i := strings.Index(src, anchor)
			if i < 0 {
				return src, 0
			}
			return src[:i] + gen(anchor, e) + src[i+len(anchor):], 1
		},
	}
}
