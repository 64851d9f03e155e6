package engine

import (
	"fmt"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════
// Catalog
// ══════════════════════════════════════════════════════════════

// Institution is the school's contact card, rendered verbatim into the
// in-person redirect messages.
type Institution struct {
	Name    string
	Address string
	Phone   string
	Hours   string
}

// Catalog bundles the enrollment facts the engine quotes to users: offered
// grades, per-grade document requirements, fee amounts and the institution
// card. Loaded from configuration at startup; DefaultCatalog carries the
// built-in values.
type Catalog struct {
	Institution  Institution
	Year         int
	Grades       []string
	Requirements map[string]string
	Costs        roster.Costs
}

// DefaultCatalog returns the built-in enrollment catalog.
func DefaultCatalog() Catalog {
	const requirements = "DNI del menor, Código de SIAGE, Libreta de notas del año anterior, Recibo de agua/luz"
	return Catalog{
		Year: 2024,
		Institution: Institution{
			Name:    "I.E.P. Barton",
			Address: "Calle 13B 138, Comas 15311",
			Phone:   "(01) 551 8239",
			Hours:   "Lunes a Viernes de 8:00 AM a 4:00 PM",
		},
		Grades: []string{"1er grado", "2do grado", "3er grado", "4to grado"},
		Requirements: map[string]string{
			"1er grado": requirements,
			"2do grado": requirements,
			"3er grado": requirements,
			"4to grado": requirements,
		},
		Costs: roster.Costs{Enrollment: 300, MonthlyInstallment: 150},
	}
}

// RequirementsFor returns the document list for a grade.
func (c Catalog) RequirementsFor(grade string) (string, bool) {
	req, ok := c.Requirements[grade]
	return req, ok
}

// ══════════════════════════════════════════════════════════════
// Menus
// ══════════════════════════════════════════════════════════════

func mainMenu() []dialogue.Option {
	return []dialogue.Option{
		{Label: "📚 Información de Matrícula", Value: "matricula"},
		{Label: "📋 Ver Requisitos", Value: "requisitos"},
		{Label: "💰 Consultar Pagos", Value: "pagos"},
		{Label: "🔍 Verificar Estado de Matrícula", Value: "verificar"},
		{Label: "📞 Hablar con Asesor", Value: "asesor"},
	}
}

func enrollmentMenu() []dialogue.Option {
	return []dialogue.Option{
		{Label: "📋 Ver requisitos por grado", Value: "requisitos"},
		{Label: "📤 Subir documentos", Value: "subir_documentos"},
		{Label: "🔍 Verificar estado de matrícula", Value: "verificar"},
		{Label: "💰 Información de costos", Value: "costos"},
		{Label: "👨\u200d💼 Hablar con un asesor", Value: "asesor"},
	}
}

func (c Catalog) gradeMenu() []dialogue.Option {
	opts := make([]dialogue.Option, 0, len(c.Grades))
	for _, g := range c.Grades {
		value := nlpSlug(g)
		opts = append(opts, dialogue.Option{Label: g, Value: value})
	}
	return opts
}

func redirectMenu() []dialogue.Option {
	return []dialogue.Option{
		{Label: "📋 Ver requisitos de matrícula", Value: "requisitos"},
		{Label: "💰 Consultar costos", Value: "costos"},
		{Label: "👨\u200d💼 Hablar con asesor", Value: "asesor"},
		{Label: "🏫 Información de la institución", Value: "institucion"},
	}
}

func postEnrollmentMenu() []dialogue.Option {
	return []dialogue.Option{
		{Label: "💰 Consultar costos de matrícula", Value: "costos"},
		{Label: "📅 Información del calendario escolar", Value: "calendario"},
		{Label: "👨\u200d💼 Hablar con asesor", Value: "asesor"},
		{Label: "🏠 Finalizar conversación", Value: "finalizar"},
	}
}

func confirmUploadMenu() []dialogue.Option {
	return []dialogue.Option{
		{Label: "✅ Sí, subir documentos", Value: "subir_ahora"},
		{Label: "❌ No, gracias", Value: "no_subir"},
	}
}

// ══════════════════════════════════════════════════════════════
// Messages
// ══════════════════════════════════════════════════════════════

const (
	msgGreeting = "¡Hola! 👋 Soy el Asistente Virtual del I.E.P. Barton. Me alegra saludarte. ¿En qué puedo ayudarte hoy?"

	msgEnrollmentStarted = "¡Perfecto! 🎓 Te ayudo con el proceso de matrícula. El I.E.P. Barton ofrece una educación de calidad para primaria."

	msgAskGradeRequirements = "¡Excelente! 📋 Te ayudo con los requisitos. ¿Para qué grado necesitas la información?"

	msgAskGradeUpload = "¡Perfecto! 📤 Para subir documentos primero necesito saber el grado. ¿Para qué grado vas a matricular?"

	msgAskCode = "🔍 Para verificar el estado de tu matrícula, necesito el código SIAGE del estudiante. ¿Podrías proporcionármelo?"

	msgAskContact = "👨\u200d💼 Te voy a conectar con un asesor especializado. Para agilizar el proceso, ¿podrías proporcionarme tu nombre y número de teléfono?"

	msgAskContactExample = "👨\u200d💼 Te voy a conectar con un asesor especializado. Para agilizar el proceso, ¿podrías proporcionarme tu nombre completo y número de teléfono?\n\nPor ejemplo: 'Mi nombre es Juan Pérez y mi teléfono es 999123456'"

	msgUploadPrompt = "¡Perfecto! 📤 Ahora puedes enviarme una foto clara de cada documento. Te confirmaré si están correctos y te guiaré en el proceso 😊"

	msgUnknownMenuChoice = "No entendí tu selección. Por favor, elige una de las opciones disponibles:"

	msgUnknownGrade = "No entendí el grado. Por favor, selecciona uno de los grados disponibles:"

	msgBackToStart = "Entendido. Si necesitas ayuda en otro momento, no dudes en preguntarme. ¿Hay algo más en lo que pueda ayudarte?"

	msgThanks = "¡Muchas gracias por tu paciencia! 🙏 Esperamos verte pronto en el I.E.P. Barton. Si tienes alguna otra consulta, no dudes en preguntarme."

	msgGenericFallback = "No entendí tu mensaje. ¿Te gustaría información sobre el proceso de matrícula o hay algo específico en lo que pueda ayudarte?"

	msgStartFallback = "Entiendo tu consulta. ¿Te gustaría información sobre el proceso de matrícula o hay algo específico en lo que pueda ayudarte?"

	msgNoValidDocuments = "❌ No se recibieron documentos válidos. Por favor, intenta subir los documentos nuevamente."

	msgDataCollected = "Gracias por la información. ¿Hay algo más en lo que pueda ayudarte?"
)

func (c Catalog) costsMessage() string {
	return fmt.Sprintf(
		"💰 Los costos de matrícula para el %d son:\n\n• Matrícula: S/ %d\n• Pensión mensual: S/ %d\n\n¿Te gustaría proceder con la matrícula o tienes alguna pregunta sobre los costos?",
		c.Year, c.Costs.Enrollment, c.Costs.MonthlyInstallment)
}

func (c Catalog) requirementsMessage(grade, requirements string) string {
	return fmt.Sprintf(
		"📋 Para %s necesitas los siguientes documentos:\n\n• %s\n\n¿Te gustaría subirlos ahora para que los revise?",
		grade, requirements)
}

func (c Catalog) redirectMessage() string {
	return fmt.Sprintf(
		"📋 Entiendo que no tienes el código SIAGE. En este caso, lo más recomendable es que te atiendas de manera presencial con la secretaría para obtener tu código SIAGE y completar el proceso de matrícula.\n\n"+
			"🏫 Dirección: %s\n📞 Teléfono: %s\n🕒 Horario de atención: %s\n\n"+
			"En la secretaría podrás:\n"+
			"• 📋 Obtener tu código SIAGE\n"+
			"• 📝 Completar el proceso de matrícula\n"+
			"• 💰 Realizar los pagos correspondientes\n"+
			"• 📚 Recibir información sobre horarios y materiales\n\n"+
			"¿Te gustaría que te ayude con algo más mientras tanto?",
		c.Institution.Address, c.Institution.Phone, c.Institution.Hours)
}

func (c Catalog) institutionMessage() string {
	return fmt.Sprintf(
		"Para agilizar tu proceso de matrícula, te sugiero que visites nuestra institución. Nuestra secretaría te ayudará a:\n\n"+
			"• 📋 Obtener tu código SIAGE\n"+
			"• 📝 Completar el proceso de matrícula\n"+
			"• 💰 Realizar los pagos correspondientes\n"+
			"• 📚 Recibir información sobre horarios\n\n"+
			"🏫 Dirección: %s\n📞 Teléfono: %s\n🕒 Horario de atención: %s\n\n"+
			"¿Te gustaría que te ayude con algo más?",
		c.Institution.Address, c.Institution.Phone, c.Institution.Hours)
}

func (c Catalog) approvedMessage(grade string, received int) string {
	return fmt.Sprintf(
		"🎉 ¡FELICITACIONES! Tu matrícula para %s ha sido APROBADA exitosamente.\n\n"+
			"✅ Documentos recibidos: %d archivo(s)\n\n"+
			"📋 Próximos pasos:\n"+
			"• Recibirás un correo de confirmación en las próximas 24 horas\n"+
			"• Tu matrícula será procesada en 2-3 días hábiles\n"+
			"• Te contactaremos para coordinar el pago de la matrícula\n\n"+
			"🏫 ¡Bienvenido al %s! 🎓\n\n"+
			"¿Hay algo más en lo que pueda ayudarte?",
		grade, received, c.Institution.Name)
}

func (c Catalog) farewellMessage() string {
	return fmt.Sprintf(
		"¡Muchas gracias por confiar en el %s! 🎓\n\n"+
			"Tu matrícula ha sido procesada exitosamente. Recuerda:\n"+
			"• Revisar tu correo electrónico en las próximas 24 horas\n"+
			"• Estar atento a nuestras llamadas para coordinar el pago\n"+
			"• Preparar los materiales escolares para el inicio de clases\n\n"+
			"🏫 ¡Bienvenido a nuestra familia educativa! 🌟\n\n"+
			"Si tienes alguna consulta adicional, no dudes en contactarnos.\n"+
			"¡Que tengas un excelente día! 👋",
		c.Institution.Name)
}

func (c Catalog) calendarMessage() string {
	return fmt.Sprintf(
		"📅 Calendario Escolar %d - %s\n\n"+
			"📚 Inicio de clases: 1 de marzo\n"+
			"🏫 Horario de clases: 8:00 AM - 2:00 PM\n"+
			"🍽️ Recreo: 10:30 AM - 11:00 AM\n\n"+
			"📆 Fechas importantes:\n"+
			"• Matrícula: Hasta el 28 de febrero\n"+
			"• Vacaciones de julio: 15-31 de julio\n"+
			"• Fin de año: 20 de diciembre\n\n"+
			"📋 Uniforme escolar:\n"+
			"• Polo blanco con logo del colegio\n"+
			"• Pantalón azul marino\n"+
			"• Zapatos negros\n\n"+
			"¿Necesitas información sobre algo más?",
		c.Year, c.Institution.Name)
}

func (c Catalog) postCostsMessage() string {
	return fmt.Sprintf(
		"💰 Costos de matrícula para el %d:\n\n"+
			"• Matrícula: S/ %d\n"+
			"• Pensión mensual: S/ %d\n\n"+
			"📋 Formas de pago:\n"+
			"• Transferencia bancaria\n"+
			"• Depósito en efectivo\n"+
			"• Tarjeta de crédito/débito\n\n"+
			"¿Te gustaría que te ayude con algo más?",
		c.Year, c.Costs.Enrollment, c.Costs.MonthlyInstallment)
}
