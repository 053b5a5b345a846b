package form

// Messages shown in the result panel.
const (
	MsgLoading       = "Loading..."
	MsgNotFound      = "No information found for this combination."
	MsgInvalid       = "Please fill all required fields correctly."
	MsgRequestFailed = "Sorry, there was an error processing your request."
)

// PanelKind is the visual state of the result panel.
type PanelKind int

const (
	PanelHidden PanelKind = iota
	PanelLoading
	PanelSuccess
	PanelNotFound
	PanelError
)

func (k PanelKind) String() string {
	switch k {
	case PanelLoading:
		return "loading"
	case PanelSuccess:
		return "success"
	case PanelNotFound:
		return "not_found"
	case PanelError:
		return "error"
	default:
		return "hidden"
	}
}

// Card is the structured outcome of a successful result lookup.
type Card struct {
	EnglishName    string `json:"english_name"`
	ScientificName string `json:"scientific_name"`
	Sound          string `json:"sound"`
	EmotionLabel   string `json:"emotion_label"`
	ContextTrigger string `json:"context_trigger"`
}

// Panel is the result area below a form.
type Panel struct {
	Kind    PanelKind
	Message string
	Card    *Card
}

// Visible reports whether the panel is shown.
func (p Panel) Visible() bool {
	return p.Kind != PanelHidden
}

// Hidden returns a hidden panel.
func Hidden() Panel {
	return Panel{}
}

// Loading returns the panel shown while a lookup is in flight.
func Loading() Panel {
	return Panel{Kind: PanelLoading, Message: MsgLoading}
}

// Error returns an error panel with msg.
func Error(msg string) Panel {
	return Panel{Kind: PanelError, Message: msg}
}

// NotFound returns the panel for a lookup without a matching record.
func NotFound() Panel {
	return Panel{Kind: PanelNotFound, Message: MsgNotFound}
}

// Success returns a panel carrying a message and an optional card.
func Success(msg string, card *Card) Panel {
	return Panel{Kind: PanelSuccess, Message: msg, Card: card}
}
