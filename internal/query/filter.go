package query

import "strings"

// likeEscape is the escape character declared in every rendered LIKE clause.
const likeEscape = `\`

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// EscapeLike escapes the LIKE wildcards in s so it is matched literally.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// SQL renders the set as a parenthesised OR expression for a WHERE clause,
// with one bound argument per condition. An empty set matches nothing.
func (cs Conditions) SQL() (string, []any) {
	if len(cs) == 0 {
		return "(1 = 0)", nil
	}

	parts := make([]string, 0, len(cs))
	args := make([]any, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, string(c.Field)+` LIKE ? ESCAPE '`+likeEscape+`'`)
		args = append(args, "%"+EscapeLike(c.Value)+"%")
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Match evaluates the set in memory against a record's field values.
func (cs Conditions) Match(values map[Field]string) bool {
	for _, c := range cs {
		if strings.Contains(strings.ToUpper(values[c.Field]), strings.ToUpper(c.Value)) {
			return true
		}
	}
	return false
}

// Values returns the condition values for field f, in order.
func (cs Conditions) Values(f Field) []string {
	var out []string
	for _, c := range cs {
		if c.Field == f {
			out = append(out, c.Value)
		}
	}
	return out
}
