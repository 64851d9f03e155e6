package nlp

import (
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════
// Vocabulary
// ══════════════════════════════════════════════════════════════

// Vocabulary is the phrase inventory the classifier matches against. The
// default set is Peruvian-Spanish; deployments for another locale swap the
// lists without touching matching logic. All phrases are compared in
// normalized form (see Normalize).
type Vocabulary struct {
	Greetings          []string
	EnrollmentKeywords []string
	MissingCodePhrases []string
	Affirmations       []string
	Negations          []string
}

// DefaultVocabulary returns the built-in Spanish phrase set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Greetings: []string{
			"hola", "buenas", "buenos dias", "buenas tardes", "buenas noches",
			"que tal", "saludos", "hey", "ola",
		},
		EnrollmentKeywords: []string{
			"matricula", "matricular", "inscripcion", "inscribir",
			"vacante", "admision", "enrolar", "registrar",
			"pago", "pagar", "cuota", "costo", "precio",
			"estudiante", "alumno", "alumna", "hijo", "hija",
		},
		MissingCodePhrases: []string{
			"no tengo el codigo", "no tengo codigo", "no se el codigo",
			"no se mi codigo", "no recuerdo el codigo", "no recuerdo mi codigo",
			"olvide el codigo", "olvide mi codigo", "perdi el codigo",
			"perdi mi codigo", "no cuento con el codigo", "sin codigo",
			"no lo tengo", "no lo se", "no lo recuerdo",
		},
		Affirmations: []string{"si", "sí", "yes", "ok", "claro", "dale", "acepto"},
		Negations:    []string{"no", "nop", "negativo"},
	}
}

// ══════════════════════════════════════════════════════════════
// Classifier
// ══════════════════════════════════════════════════════════════

// Classifier answers yes/no intent questions over a single user message.
// The zero value is unusable; build one with NewClassifier.
type Classifier struct {
	vocab Vocabulary
}

// NewClassifier builds a classifier over the given vocabulary.
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// IsGreeting reports whether the message contains any greeting phrase.
func (c *Classifier) IsGreeting(message string) bool {
	return containsAnyPhrase(message, c.vocab.Greetings)
}

// IsEnrollmentTopic reports whether the message mentions enrollment.
func (c *Classifier) IsEnrollmentTopic(message string) bool {
	return containsAnyPhrase(message, c.vocab.EnrollmentKeywords)
}

// LacksCode reports whether the message states the user has no SIAGE
// student code.
func (c *Classifier) LacksCode(message string) bool {
	return containsAnyPhrase(message, c.vocab.MissingCodePhrases)
}

// IsAffirmative reports whether the message carries an affirmation token.
// Matching is per whole token so that "si" does not fire inside words
// like "visita".
func (c *Classifier) IsAffirmative(message string) bool {
	return containsAnyToken(message, c.vocab.Affirmations)
}

// IsNegative reports whether the message carries a negation token.
func (c *Classifier) IsNegative(message string) bool {
	return containsAnyToken(message, c.vocab.Negations)
}

// MatchesOption reports whether the message selects a menu option, either
// by containing one of the option's keywords or by containing the literal
// digit of its 1-based position.
func MatchesOption(message string, keywords []string, position int) bool {
	nm := Normalize(message)
	for _, kw := range keywords {
		k := Normalize(kw)
		if k != "" && strings.Contains(nm, k) {
			return true
		}
	}
	return strings.Contains(nm, strconv.Itoa(position))
}

func containsAnyPhrase(message string, phrases []string) bool {
	nm := Normalize(message)
	if nm == "" {
		return false
	}
	for _, p := range phrases {
		np := Normalize(p)
		if np != "" && strings.Contains(nm, np) {
			return true
		}
	}
	return false
}

func containsAnyToken(message string, tokens []string) bool {
	fields := strings.Fields(Normalize(message))
	for _, f := range fields {
		for _, t := range tokens {
			if f == Normalize(t) {
				return true
			}
		}
	}
	return false
}
