package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifierGreeting(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	assert.True(t, c.IsGreeting("Hola, buenos días"))
	assert.True(t, c.IsGreeting("BUENAS TARDES"))
	assert.True(t, c.IsGreeting("qué tal"))
	assert.False(t, c.IsGreeting("quiero información de pagos"))
	assert.False(t, c.IsGreeting(""))
}

func TestClassifierEnrollmentTopic(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	assert.True(t, c.IsEnrollmentTopic("quiero matricular a mi hijo"))
	assert.True(t, c.IsEnrollmentTopic("información sobre la matrícula"))
	assert.True(t, c.IsEnrollmentTopic("hay vacantes?"))
	assert.True(t, c.IsEnrollmentTopic("quiero pagar la cuota de mi hijo"))
	assert.True(t, c.IsEnrollmentTopic("cuánto cuesta la pensión, el costo"))
	assert.True(t, c.IsEnrollmentTopic("mi hija es estudiante nueva"))
	assert.True(t, c.IsEnrollmentTopic("el alumno necesita registrarse"))
	assert.True(t, c.IsEnrollmentTopic("qué precio tiene"))
	assert.False(t, c.IsEnrollmentTopic("hola"))
}

func TestClassifierLacksCode(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	assert.True(t, c.LacksCode("no tengo el código"))
	assert.True(t, c.LacksCode("no recuerdo mi codigo"))
	assert.True(t, c.LacksCode("lo olvidé, no lo tengo"))
	assert.False(t, c.LacksCode("mi código es 12345678"))
}

func TestClassifierAffirmativeNegative(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	assert.True(t, c.IsAffirmative("sí"))
	assert.True(t, c.IsAffirmative("si, claro"))
	assert.True(t, c.IsAffirmative("OK"))
	// "si" inside a word must not count as a yes.
	assert.False(t, c.IsAffirmative("visita"))

	assert.True(t, c.IsNegative("no"))
	assert.True(t, c.IsNegative("no, gracias"))
	assert.False(t, c.IsNegative("claro"))
}

func TestMatchesOption(t *testing.T) {
	keywords := []string{"requisitos", "documentos"}

	assert.True(t, MatchesOption("quiero ver los requisitos", keywords, 2))
	assert.True(t, MatchesOption("REQUISITOS", keywords, 2))
	assert.True(t, MatchesOption("2", keywords, 2))
	assert.True(t, MatchesOption("la opción 2 por favor", keywords, 2))
	assert.False(t, MatchesOption("costos", keywords, 2))
}
