package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "HOLA", "hola"},
		{"strips diacritics", "Matrícula", "matricula"},
		{"strips enye tilde", "niño", "nino"},
		{"drops punctuation", "¿Cómo estás?", "como estas"},
		{"keeps digits", "1er grado", "1er grado"},
		{"keeps inner whitespace runs", "a  b", "a  b"},
		{"empty", "", ""},
		{"only punctuation", "¿¡!?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"¿Quién es María Fernanda Quispe?", "Teléfono: 999-123-456", "ASESOR"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
