package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
)

func testRoster() roster.Roster {
	return roster.Slice{
		{FullName: "María Fernanda Quispe Huamán", Grade: "1er Grado", Code: "10000001"},
		{FullName: "José Luis Quispe Mamani", Grade: "2do Grado", Code: "10000002"},
		{FullName: "Ana Sofía Torres Vega", Grade: "3er Grado", Code: "10000003"},
		{FullName: "Pedro Pablo Castillo Rojas", Grade: "4to Grado", Code: "10000004"},
	}
}

func TestFindByNameSubstring(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.FindByName("ana sofia torres")
	assert.Equal(t, MatchSingle, res.Kind)
	assert.Equal(t, "10000003", res.Single().Code)

	// Diacritics in the fragment fold away.
	res = r.FindByName("José Luis")
	assert.Equal(t, MatchSingle, res.Kind)
	assert.Equal(t, "10000002", res.Single().Code)
}

func TestFindByNameTokenOverlap(t *testing.T) {
	r := NewResolver(testRoster())

	// Non-contiguous tokens still resolve when two of them hit.
	res := r.FindByName("quispe maria")
	assert.Equal(t, MatchSingle, res.Kind)
	assert.Equal(t, "10000001", res.Single().Code)
}

func TestFindByNameAmbiguous(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.FindByName("quispe")
	assert.Equal(t, MatchAmbiguous, res.Kind)
	assert.Len(t, res.Students, 2)
	// Roster order is preserved.
	assert.Equal(t, "10000001", res.Students[0].Code)
	assert.Equal(t, "10000002", res.Students[1].Code)
}

func TestFindByNameNone(t *testing.T) {
	r := NewResolver(testRoster())

	assert.Equal(t, MatchNone, r.FindByName("walter").Kind)
	assert.Equal(t, MatchNone, r.FindByName("").Kind)
	assert.Equal(t, MatchNone, r.FindByName("   ").Kind)
	// A single stray token never reaches the fuzzy tier.
	assert.Equal(t, MatchNone, r.FindByName("qvispe").Kind)
}

func TestFindInText(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.FindInText("mi hija se llama Maria Fernanda Quispe y quiero verificar")
	assert.Equal(t, MatchSingle, res.Kind)
	assert.Equal(t, "10000001", res.Single().Code)

	// Shorter windows pick up lone surnames.
	res = r.FindInText("el apellido es Torres")
	assert.Equal(t, MatchSingle, res.Kind)
	assert.Equal(t, "10000003", res.Single().Code)

	assert.Equal(t, MatchNone, r.FindInText("no conozco a nadie aca").Kind)
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("abc", "abc"))
	assert.InDelta(t, 0.75, similarityRatio("abcd", "abcx"), 0.001)
	assert.Equal(t, 0.0, similarityRatio("", "abc"))
}
