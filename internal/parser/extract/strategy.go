package extract

import (
	"regexp"
	"strings"

	"github.com/moznion/go-optional"
)

var strategyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[([^\]]+)\]`),
	regexp.MustCompile(`\{([^}]+)\}`),
	regexp.MustCompile(`^([A-Z][A-Za-z0-9_]+)`),
}

// ExtractStrategy resolves a strategy name from an order or position comment.
// The first match wins: "[Name]", "{Name}", a leading capitalised token.
// A comment matching none of them is used as is; an empty comment yields None.
func ExtractStrategy(comment string) optional.Option[string] {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return optional.None[string]()
	}

	for _, pattern := range strategyPatterns {
		if match := pattern.FindStringSubmatch(comment); match != nil {
			if name := strings.TrimSpace(match[1]); name != "" {
				return optional.Some(name)
			}
		}
	}

	return optional.Some(comment)
}
