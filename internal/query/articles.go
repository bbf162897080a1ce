package query

import (
	"fmt"
	"strings"
)

// Article is a leading Spanish article. The government feed stores some
// localities with the article moved to a parenthesised suffix, so
// "A CORUÑA" may be recorded as "CORUÑA (A)".
type Article struct {
	Token         string
	TrailingSpace bool
}

// Articles is the fixed set of article tokens recognised in queries, in
// match order. Every token needs a trailing space to count as a prefix so
// that "Asturias" is never read as "As" + "turias".
var Articles = []Article{
	{Token: "A", TrailingSpace: true},
	{Token: "O", TrailingSpace: true},
	{Token: "LA", TrailingSpace: true},
	{Token: "EL", TrailingSpace: true},
	{Token: "LOS", TrailingSpace: true},
	{Token: "LAS", TrailingSpace: true},
	{Token: "AS", TrailingSpace: true},
	{Token: "OS", TrailingSpace: true},
}

func (a Article) prefix() string {
	if a.TrailingSpace {
		return a.Token + " "
	}
	return a.Token
}

// StripPrefix returns what follows the article when q starts with it.
// The match ignores case. An empty remainder is not a match.
func (a Article) StripPrefix(q string) (string, bool) {
	p := a.prefix()
	if len(q) < len(p) || !strings.EqualFold(q[:len(p)], p) {
		return "", false
	}
	rest := strings.TrimSpace(q[len(p):])
	return rest, rest != ""
}

// Suffixed renders name in the parenthesised suffix convention.
func (a Article) Suffixed(name string) string {
	return fmt.Sprintf("%s (%s)", name, a.Token)
}

// Prefixed renders name with the article in front.
func (a Article) Prefixed(name string) string {
	return a.Token + " " + name
}

// LookupArticle finds the article whose token equals s, ignoring case.
func LookupArticle(s string) (Article, bool) {
	s = strings.TrimSpace(s)
	for _, a := range Articles {
		if strings.EqualFold(a.Token, s) {
			return a, true
		}
	}
	return Article{}, false
}
