package dialogue

// ReplyKind tells the transport layer how to render a reply.
type ReplyKind string

const (
	// KindOptions - the reply carries a choice menu.
	KindOptions ReplyKind = "options"
	// KindText - a plain text reply.
	KindText ReplyKind = "text"
	// KindFileUpload - the client should open its file-upload UI.
	KindFileUpload ReplyKind = "file-upload-prompt"
)

// Option is one entry of a choice menu.
type Option struct {
	// Label is the text shown to the user.
	Label string `json:"label"`

	// Value is the canonical keyword the option stands for.
	Value string `json:"value"`
}

// Reply is the structured outgoing message produced on every turn. It is
// built fresh each time and never persisted; only its conversational effects
// survive through the session. The field names are part of the wire contract
// with the transport layer and must not change.
type Reply struct {
	// Message is the text to show.
	Message string `json:"message"`

	// Kind selects the rendering: options, text or file-upload-prompt.
	Kind ReplyKind `json:"kind"`

	// Options is the ordered choice menu, present when Kind is options.
	Options []Option `json:"options,omitempty"`

	// SessionID echoes the session the reply belongs to.
	SessionID string `json:"session_id"`

	// Approved flags an accepted document intake.
	Approved bool `json:"approved,omitempty"`

	// Grade echoes the enrolled grade on an accepted intake.
	Grade string `json:"grade,omitempty"`

	// DocumentsReceived is the number of files stored on an accepted intake.
	DocumentsReceived int `json:"documents_received,omitempty"`
}

// TextReply builds a plain text reply. The engine stamps the session id.
func TextReply(message string) Reply {
	return Reply{Message: message, Kind: KindText}
}

// OptionsReply builds a menu reply.
func OptionsReply(message string, options []Option) Reply {
	return Reply{Message: message, Kind: KindOptions, Options: options}
}

// FileUploadReply builds a reply prompting the client to upload files.
func FileUploadReply(message string) Reply {
	return Reply{Message: message, Kind: KindFileUpload}
}
