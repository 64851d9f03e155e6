package engine

import (
	"fmt"
	"strings"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/nlp"
)

// ══════════════════════════════════════════════════════════════
// Greetings and entry points
// ══════════════════════════════════════════════════════════════

func (e *Engine) greet() dialogue.Reply {
	return dialogue.OptionsReply(msgGreeting, mainMenu())
}

func (e *Engine) startEnrollment(sess *dialogue.Session) dialogue.Reply {
	sess.State = dialogue.StateMenuEnrollment
	sess.Context = dialogue.NewContext()
	return dialogue.OptionsReply(msgEnrollmentStarted, enrollmentMenu())
}

// greetInState answers a mid-flow greeting without losing the user's place.
// States with nothing to resume fall back to a fresh start.
func (e *Engine) greetInState(sess *dialogue.Session) dialogue.Reply {
	switch sess.State {
	case dialogue.StateMenuEnrollment:
		return dialogue.OptionsReply(
			"¡Hola! 👋 ¿Te gustaría continuar con el proceso de matrícula?",
			enrollmentMenu())
	case dialogue.StateGradeRequirements:
		return dialogue.OptionsReply(
			"¡Hola! 👋 ¿Para qué grado necesitas información sobre los requisitos?",
			e.catalog.gradeMenu())
	case dialogue.StateUploadingDocuments:
		return dialogue.FileUploadReply(
			"¡Hola! 👋 ¿Te gustaría continuar subiendo los documentos para tu matrícula?")
	case dialogue.StateVerifyingEnrollment:
		return dialogue.TextReply(
			"¡Hola! 👋 ¿Podrías proporcionarme el código SIAGE para verificar el estado de la matrícula?")
	case dialogue.StateConnectingAdvisor:
		return e.greetAdvisor(sess)
	default:
		sess.State = dialogue.StateStart
		sess.Context = dialogue.NewContext()
		return e.greet()
	}
}

func (e *Engine) greetAdvisor(sess *dialogue.Session) dialogue.Reply {
	switch {
	case sess.Name != "" && sess.Phone != "":
		return dialogue.TextReply(fmt.Sprintf(
			"¡Hola! 👋 Ya tengo tu información registrada:\n\n👤 Nombre: %s\n📞 Teléfono: %s\n\nUn asesor especializado se pondrá en contacto contigo en los próximos 30 minutos. ¿Hay algo más en lo que pueda ayudarte?",
			sess.Name, sess.Phone))
	case sess.Name != "":
		return dialogue.TextReply(
			"¡Hola! 👋 Ya tengo tu nombre. ¿Podrías proporcionarme tu número de teléfono para completar la conexión con el asesor?")
	case sess.Phone != "":
		return dialogue.TextReply(fmt.Sprintf(
			"¡Hola! 👋 Ya tengo tu teléfono: %s. ¿Podrías proporcionarme tu nombre completo para completar la conexión con el asesor?",
			sess.Phone))
	default:
		return dialogue.TextReply(
			"¡Hola! 👋 ¿Podrías proporcionarme tu nombre y teléfono para conectar con el asesor?")
	}
}

// ══════════════════════════════════════════════════════════════
// start
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleStart(sess *dialogue.Session, message string) dialogue.Reply {
	switch {
	case nlp.MatchesOption(message, []string{"matricula"}, 1):
		return e.startEnrollment(sess)
	case nlp.MatchesOption(message, []string{"requisitos"}, 2):
		return e.toGradeRequirements(sess)
	case nlp.MatchesOption(message, []string{"subir", "documentos"}, 3):
		return e.toUploadGradeSelection(sess)
	case nlp.MatchesOption(message, []string{"verificar", "estado"}, 4):
		return e.toVerification(sess)
	case nlp.MatchesOption(message, []string{"asesor", "hablar"}, 5):
		return e.toAdvisor(sess)
	case e.classify.IsEnrollmentTopic(message):
		return e.startEnrollment(sess)
	}
	return dialogue.OptionsReply(msgStartFallback, mainMenu())
}

func (e *Engine) toGradeRequirements(sess *dialogue.Session) dialogue.Reply {
	sess.State = dialogue.StateGradeRequirements
	sess.Context = dialogue.NewContext()
	sess.Context.SetSelectedOption("requisitos")
	return dialogue.OptionsReply(msgAskGradeRequirements, e.catalog.gradeMenu())
}

func (e *Engine) toUploadGradeSelection(sess *dialogue.Session) dialogue.Reply {
	sess.State = dialogue.StateUploadingDocuments
	sess.Context = dialogue.NewContext()
	sess.Context.SetSelectedOption("subir_documentos")
	return dialogue.OptionsReply(msgAskGradeUpload, e.catalog.gradeMenu())
}

func (e *Engine) toVerification(sess *dialogue.Session) dialogue.Reply {
	sess.State = dialogue.StateVerifyingEnrollment
	sess.Context = dialogue.NewContext()
	sess.Context.SetSelectedOption("verificar")
	return dialogue.TextReply(msgAskCode)
}

func (e *Engine) toAdvisor(sess *dialogue.Session) dialogue.Reply {
	sess.State = dialogue.StateConnectingAdvisor
	sess.Context = dialogue.NewContext()
	sess.Context.SetSelectedOption("asesor")
	return dialogue.TextReply(msgAskContact)
}

// ══════════════════════════════════════════════════════════════
// menu_enrollment
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleMenuEnrollment(sess *dialogue.Session, message string) dialogue.Reply {
	switch {
	case nlp.MatchesOption(message, []string{"requisitos"}, 1):
		return e.toGradeRequirements(sess)
	case nlp.MatchesOption(message, []string{"subir", "documentos"}, 2):
		return e.toUploadGradeSelection(sess)
	case nlp.MatchesOption(message, []string{"verificar", "estado"}, 3):
		return e.toVerification(sess)
	case nlp.MatchesOption(message, []string{"costos", "precio"}, 4):
		// Costs are informational, the state does not move.
		return dialogue.OptionsReply(e.catalog.costsMessage(), []dialogue.Option{
			{Label: "📋 Ver requisitos", Value: "requisitos"},
			{Label: "📤 Subir documentos", Value: "subir_documentos"},
			{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
		})
	case nlp.MatchesOption(message, []string{"asesor", "hablar"}, 5):
		return e.toAdvisor(sess)
	}
	return dialogue.OptionsReply(msgUnknownMenuChoice, enrollmentMenu())
}

// ══════════════════════════════════════════════════════════════
// grade_requirements
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleGradeRequirements(sess *dialogue.Session, message string) dialogue.Reply {
	// A grade is already on record: the user is answering the
	// "subirlos ahora?" question.
	if sess.Context.SelectedGrade() != "" {
		if e.classify.IsAffirmative(message) {
			sess.State = dialogue.StateUploadingDocuments
			return dialogue.FileUploadReply(msgUploadPrompt)
		}
		// "gracias" declines the upload offer just like a plain "no".
		if e.classify.IsNegative(message) || containsAny(message, "gracias") {
			sess.State = dialogue.StateStart
			sess.Context = dialogue.NewContext()
			return dialogue.TextReply(msgBackToStart)
		}
	}

	if grade, ok := e.matchGrade(message); ok {
		if req, known := e.catalog.RequirementsFor(grade); known {
			sess.Context.SetSelectedGrade(grade)
			return dialogue.OptionsReply(
				e.catalog.requirementsMessage(grade, req), confirmUploadMenu())
		}
	}
	return dialogue.OptionsReply(msgUnknownGrade, e.catalog.gradeMenu())
}

// ══════════════════════════════════════════════════════════════
// uploading_documents
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleUploadingDocuments(sess *dialogue.Session, message string) dialogue.Reply {
	if e.classify.LacksCode(message) {
		sess.State = dialogue.StateInPersonRedirect
		return dialogue.OptionsReply(e.catalog.redirectMessage(), redirectMenu())
	}

	if grade, ok := e.matchGrade(message); ok {
		sess.Context = dialogue.NewContext()
		sess.Context.SetSelectedGrade(grade)
		sess.Context.SetSelectedOption("subir_documentos")
		req, _ := e.catalog.RequirementsFor(grade)
		return dialogue.OptionsReply(
			e.catalog.requirementsMessage(grade, req), []dialogue.Option{
				{Label: "✅ Sí, subir documentos", Value: "confirmar_subida"},
				{Label: "❌ No, más tarde", Value: "cancelar"},
			})
	}

	if e.classify.IsAffirmative(message) {
		return dialogue.FileUploadReply(msgUploadPrompt +
			"\n\nRecuerda: Necesitas el DNI del menor, código de SIAGE, libreta de notas del año anterior y recibo de agua/luz.")
	}
	if e.classify.IsNegative(message) || containsAny(message, "cancelar") {
		sess.State = dialogue.StateStart
		sess.Context = dialogue.NewContext()
		return dialogue.OptionsReply(msgBackToStart, mainMenu())
	}
	return dialogue.OptionsReply(
		"No entendí tu respuesta. ¿Podrías seleccionar una de las opciones disponibles?",
		e.catalog.gradeMenu())
}

// ══════════════════════════════════════════════════════════════
// verifying_enrollment
// ══════════════════════════════════════════════════════════════

// handleVerifyingEnrollment acknowledges the identifier and stays put. The
// roster lookup and fee totals belong to the verification endpoint, which
// owns the cost configuration; the dialogue only echoes what it received.
func (e *Engine) handleVerifyingEnrollment(sess *dialogue.Session, message string) dialogue.Reply {
	if e.classify.LacksCode(message) {
		sess.State = dialogue.StateInPersonRedirect
		return dialogue.OptionsReply(e.catalog.redirectMessage(), redirectMenu())
	}

	return dialogue.TextReply(fmt.Sprintf(
		"🔍 Estoy verificando el estado de la matrícula con el código: %s. Un momento por favor...",
		message))
}

// ══════════════════════════════════════════════════════════════
// connecting_advisor
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleConnectingAdvisor(sess *dialogue.Session, message string) dialogue.Reply {
	if sess.Name != "" && sess.Phone != "" {
		return dialogue.TextReply(fmt.Sprintf(
			"¡Perfecto! 👨‍💼 Ya tengo tu información registrada:\n\n👤 Nombre: %s\n📞 Teléfono: %s\n\nUn asesor especializado se pondrá en contacto contigo en los próximos 30 minutos. Tu solicitud ha sido registrada con prioridad.",
			sess.Name, sess.Phone))
	}

	setContact(sess, nlp.ExtractContactInfo(message))

	switch {
	case sess.Name != "" && sess.Phone != "":
		return dialogue.TextReply(fmt.Sprintf(
			"¡Perfecto! 👨‍💼 Gracias %s. Un asesor especializado se pondrá en contacto contigo al %s en los próximos 30 minutos. Tu solicitud ha sido registrada con prioridad.",
			sess.Name, sess.Phone))
	case sess.Name != "":
		return dialogue.TextReply(fmt.Sprintf(
			"¡Gracias %s! 👋 Ahora necesito tu número de teléfono para que el asesor pueda contactarte. ¿Podrías proporcionármelo?",
			sess.Name))
	case sess.Phone != "":
		return dialogue.TextReply(fmt.Sprintf(
			"¡Gracias! 📞 Ya tengo tu teléfono: %s. Ahora necesito tu nombre completo para que el asesor pueda contactarte. ¿Podrías proporcionármelo?",
			sess.Phone))
	}
	return dialogue.TextReply(msgAskContactExample)
}

// ══════════════════════════════════════════════════════════════
// data_collection
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleDataCollection(sess *dialogue.Session, message string) dialogue.Reply {
	setContact(sess, nlp.ExtractContactInfo(message))
	return dialogue.TextReply(msgDataCollected)
}

// ══════════════════════════════════════════════════════════════
// in_person_redirect
// ══════════════════════════════════════════════════════════════

func (e *Engine) handleInPersonRedirect(sess *dialogue.Session, message string) dialogue.Reply {
	switch {
	case nlp.MatchesOption(message, []string{"requisitos"}, 1):
		return e.toGradeRequirements(sess)
	case nlp.MatchesOption(message, []string{"costos", "precio"}, 2):
		return dialogue.OptionsReply(e.catalog.costsMessage(), []dialogue.Option{
			{Label: "📋 Ver requisitos", Value: "requisitos"},
			{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
			{Label: "🏫 Información de la institución", Value: "institucion"},
		})
	case nlp.MatchesOption(message, []string{"asesor"}, 3):
		return e.toAdvisor(sess)
	case nlp.MatchesOption(message, []string{"institucion"}, 4):
		return dialogue.OptionsReply(e.catalog.institutionMessage(), []dialogue.Option{
			{Label: "📋 Ver requisitos", Value: "requisitos"},
			{Label: "💰 Consultar costos", Value: "costos"},
			{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
			{Label: "🙏 Agradecer y terminar", Value: "agradecer"},
		})
	case containsAny(message, "agradecer", "gracias", "terminar"):
		sess.State = dialogue.StateStart
		sess.Context = dialogue.NewContext()
		return dialogue.TextReply(msgThanks)
	}

	return dialogue.OptionsReply(e.catalog.institutionMessage(), []dialogue.Option{
		{Label: "📋 Ver requisitos", Value: "requisitos"},
		{Label: "💰 Consultar costos", Value: "costos"},
		{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
		{Label: "🏫 Información de la institución", Value: "institucion"},
		{Label: "🙏 Agradecer y terminar", Value: "agradecer"},
	})
}

// ══════════════════════════════════════════════════════════════
// post_enrollment
// ══════════════════════════════════════════════════════════════

func (e *Engine) handlePostEnrollment(sess *dialogue.Session, message string) dialogue.Reply {
	switch {
	case containsAny(message, "costos", "precio", "pago"):
		return dialogue.OptionsReply(e.catalog.postCostsMessage(), []dialogue.Option{
			{Label: "📅 Información del calendario escolar", Value: "calendario"},
			{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
			{Label: "🏠 Finalizar conversación", Value: "finalizar"},
		})
	case containsAny(message, "calendario", "horarios", "fechas"):
		return dialogue.OptionsReply(e.catalog.calendarMessage(), []dialogue.Option{
			{Label: "💰 Consultar costos de matrícula", Value: "costos"},
			{Label: "👨‍💼 Hablar con asesor", Value: "asesor"},
			{Label: "🏠 Finalizar conversación", Value: "finalizar"},
		})
	case containsAny(message, "asesor", "hablar", "contacto"):
		sess.State = dialogue.StateConnectingAdvisor
		return dialogue.TextReply(msgAskContactExample)
	case containsAny(message, "finalizar", "terminar", "gracias", "adios"):
		sess.State = dialogue.StateStart
		sess.Context = dialogue.NewContext()
		return dialogue.TextReply(e.catalog.farewellMessage())
	}
	return dialogue.OptionsReply(msgUnknownMenuChoice, postEnrollmentMenu())
}

func containsAny(message string, keywords ...string) bool {
	nm := nlp.Normalize(message)
	for _, kw := range keywords {
		if strings.Contains(nm, kw) {
			return true
		}
	}
	return false
}
