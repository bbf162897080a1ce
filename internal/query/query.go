// Package query turns free-text location searches into substring conditions
// over the station locality and postal code fields. The conditions are meant
// to be combined with a logical OR by whatever store evaluates them.
package query

import (
	"regexp"
	"strings"
)

// Field names a searchable station column.
type Field string

const (
	Locality   Field = "localidad"
	PostalCode Field = "cp"
)

// Condition holds when Field contains Value, ignoring case.
type Condition struct {
	Field Field
	Value string
}

// Conditions is a set of independent conditions combined with OR.
type Conditions []Condition

var (
	parenGroup    = regexp.MustCompile(`\s*\([^()]*\)`)
	trailingGroup = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)
)

// Normalize builds the condition set for a search or statistics query.
//
// The result always starts with the two base conditions (locality and postal
// code contain the query). Article and parenthesis variants follow, so that
// "A CORUÑA" also finds "CORUÑA (A)" and "CORUÑA (A)" also finds "CORUÑA".
// An empty query yields base conditions that match every station.
func Normalize(raw string) Conditions {
	q := strings.TrimSpace(raw)

	var b builder
	b.add(Locality, q)
	b.add(PostalCode, q)

	if parenGroup.MatchString(q) {
		stripped := strings.Join(strings.Fields(parenGroup.ReplaceAllString(q, " ")), " ")
		if stripped != q && stripped != "" {
			b.add(Locality, stripped)
		}
	}

	b.addArticleVariants(q)

	if m := trailingGroup.FindStringSubmatch(q); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" {
			b.add(Locality, name)
			if a, ok := LookupArticle(m[2]); ok {
				b.add(Locality, a.Prefixed(name))
			}
		}
	}

	return b.list
}

// Suggestions builds the lighter condition set used for locality
// completion: the prefix itself plus the suffixed article form.
func Suggestions(prefix string) Conditions {
	q := strings.TrimSpace(prefix)

	var b builder
	b.add(Locality, q)
	b.addArticleVariants(q)
	return b.list
}

type builder struct {
	list Conditions
	seen map[Condition]struct{}
}

func (b *builder) add(f Field, v string) {
	key := Condition{Field: f, Value: strings.ToUpper(v)}
	if b.seen == nil {
		b.seen = make(map[Condition]struct{})
	}
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}
	b.list = append(b.list, Condition{Field: f, Value: v})
}

// Only one leading article is stripped.
func (b *builder) addArticleVariants(q string) {
	for _, a := range Articles {
		if rest, ok := a.StripPrefix(q); ok {
			b.add(Locality, a.Suffixed(rest))
			return
		}
	}
}
