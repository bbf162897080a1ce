package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\x`, EscapeLike(`c:\x`))
	assert.Equal(t, "CORUÑA (A)", EscapeLike("CORUÑA (A)"))
}

func TestConditionsSQL(t *testing.T) {
	where, args := Normalize("A CORUÑA").SQL()
	assert.Equal(t, `(localidad LIKE ? ESCAPE '\' OR cp LIKE ? ESCAPE '\' OR localidad LIKE ? ESCAPE '\')`, where)
	assert.Equal(t, []any{"%A CORUÑA%", "%A CORUÑA%", "%CORUÑA (A)%"}, args)
}

func TestConditionsSQL_Empty(t *testing.T) {
	where, args := Conditions(nil).SQL()
	assert.Equal(t, "(1 = 0)", where)
	assert.Empty(t, args)
}

func TestConditionsMatch(t *testing.T) {
	rows := []map[Field]string{
		{Locality: "CORUÑA (A)", PostalCode: "15001"},
		{Locality: "ARTEIXO", PostalCode: "15142"},
		{Locality: "OLEIROS", PostalCode: "15173"},
	}

	var matched []string
	cs := Normalize("a coruña")
	for _, r := range rows {
		if cs.Match(r) {
			matched = append(matched, r[Locality])
		}
	}
	assert.Equal(t, []string{"CORUÑA (A)"}, matched)

	assert.True(t, Normalize("1514").Match(rows[1]))
	assert.False(t, Conditions(nil).Match(rows[0]))
}

func TestConditionsValues(t *testing.T) {
	cs := Normalize("CORUÑA (A)")
	assert.Equal(t, []string{"CORUÑA (A)", "CORUÑA", "A CORUÑA"}, cs.Values(Locality))
	assert.Equal(t, []string{"CORUÑA (A)"}, cs.Values(PostalCode))
}
