package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PlainQueryHasOnlyBaseConditions(t *testing.T) {
	for _, q := range []string{"Madrid", "28001", "Asturias", "Oviedo", "Elche", "Lasarte", "Osuna", "", "santiago de compostela"} {
		got := Normalize(q)
		assert.Equal(t, Conditions{
			{Field: Locality, Value: q},
			{Field: PostalCode, Value: q},
		}, got, "query %q", q)
	}
}

func TestNormalize_LeadingArticle(t *testing.T) {
	got := Normalize("A CORUÑA")
	require.Len(t, got, 3)
	assert.Equal(t, Condition{Field: Locality, Value: "A CORUÑA"}, got[0])
	assert.Equal(t, Condition{Field: PostalCode, Value: "A CORUÑA"}, got[1])
	assert.Equal(t, Condition{Field: Locality, Value: "CORUÑA (A)"}, got[2])
}

func TestNormalize_ArticleIsCaseInsensitive(t *testing.T) {
	got := Normalize("la línea de la concepción")
	assert.Contains(t, got, Condition{Field: Locality, Value: "línea de la concepción (LA)"})
}

func TestNormalize_EveryArticle(t *testing.T) {
	for _, a := range Articles {
		got := Normalize(a.Token + " PUEBLA")
		assert.Contains(t, got, Condition{Field: Locality, Value: "PUEBLA (" + a.Token + ")"}, "article %s", a.Token)
		assert.Len(t, got, 3, "article %s", a.Token)
	}
}

func TestNormalize_ArticleWithoutTrailingSpaceIsNotStripped(t *testing.T) {
	got := Normalize("Asturias")
	for _, c := range got {
		assert.NotContains(t, c.Value, "(")
		assert.NotEqual(t, "turias", c.Value)
	}

	got = Normalize("A")
	assert.Len(t, got, 2)
}

func TestNormalize_ArticleAloneIsNotStripped(t *testing.T) {
	assert.Len(t, Normalize("LA "), 2)
}

func TestNormalize_TrailingParenthesis(t *testing.T) {
	got := Normalize("CORUÑA (A)")
	assert.Equal(t, Conditions{
		{Field: Locality, Value: "CORUÑA (A)"},
		{Field: PostalCode, Value: "CORUÑA (A)"},
		{Field: Locality, Value: "CORUÑA"},
		{Field: Locality, Value: "A CORUÑA"},
	}, got)
}

func TestNormalize_TrailingParenthesisNotAnArticle(t *testing.T) {
	got := Normalize("Palma (Mallorca)")
	assert.Equal(t, Conditions{
		{Field: Locality, Value: "Palma (Mallorca)"},
		{Field: PostalCode, Value: "Palma (Mallorca)"},
		{Field: Locality, Value: "Palma"},
	}, got)
}

func TestNormalize_InnerParenthesis(t *testing.T) {
	got := Normalize("ROZAS (LAS) DE MADRID")
	assert.Contains(t, got, Condition{Field: Locality, Value: "ROZAS DE MADRID"})
	assert.Len(t, got, 3)
}

func TestNormalize_OnlyParenthesis(t *testing.T) {
	assert.Len(t, Normalize("(A)"), 2)
}

func TestNormalize_UnbalancedParenthesis(t *testing.T) {
	got := Normalize("CORUÑA (A")
	assert.Len(t, got, 2)
}

func TestNormalize_TrimsInput(t *testing.T) {
	got := Normalize("  EL EJIDO  ")
	assert.Equal(t, Conditions{
		{Field: Locality, Value: "EL EJIDO"},
		{Field: PostalCode, Value: "EL EJIDO"},
		{Field: Locality, Value: "EJIDO (EL)"},
	}, got)
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t, Conditions{{Field: Locality, Value: "Ma"}}, Suggestions("Ma"))
	assert.Equal(t, Conditions{
		{Field: Locality, Value: "O Porriño"},
		{Field: Locality, Value: "Porriño (O)"},
	}, Suggestions("O Porriño"))
}

func TestLookupArticle(t *testing.T) {
	a, ok := LookupArticle(" las ")
	require.True(t, ok)
	assert.Equal(t, "LAS", a.Token)

	_, ok = LookupArticle("LE")
	assert.False(t, ok)
}
