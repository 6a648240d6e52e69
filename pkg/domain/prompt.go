package domain

// InputKind distinguishes the inbound events of the conversational interface.
type InputKind string

const (
	InputText   InputKind = "text"
	InputButton InputKind = "button"
	InputPhoto  InputKind = "photo"
)

// Input is one inbound event for a conversation.
// For photos, Value is the opaque reference of the stored image.
type Input struct {
	Kind  InputKind `json:"kind"`
	Value string    `json:"value"`
}

// TextInput builds a free-text input.
func TextInput(text string) Input { return Input{Kind: InputText, Value: text} }

// ButtonInput builds a button selection input.
func ButtonInput(token string) Input { return Input{Kind: InputButton, Value: token} }

// PhotoInput builds a photo attachment input.
func PhotoInput(ref string) Input { return Input{Kind: InputPhoto, Value: ref} }

// Prompt describes what the host should emit to the operator.
type Prompt struct {
	// State is the step the prompt belongs to.
	State StateID `json:"state"`

	// Text is the message body.
	Text string `json:"text"`

	// Choices is the ordered closed set of tokens when the next input is an
	// enumeration. Nil for free-text and photo states.
	Choices []string `json:"choices,omitempty"`

	// Reason carries the rejection reason when the prompt is a reprompt.
	Reason string `json:"reason,omitempty"`

	// Summary is set on the prompt that closes a finished dialogue.
	Summary *Summary `json:"summary,omitempty"`
}

// Summary aggregates the records of one client on one date.
type Summary struct {
	Date    string         `json:"date"`
	Client  string         `json:"client"`
	Records []RentalRecord `json:"records"`
	Total   Amount         `json:"total"`
}

// Choice tokens shared by the yes/no and continuation steps.
const (
	ChoiceYes        = "YES"
	ChoiceNo         = "NO"
	ChoiceAddAnother = "ADD_ANOTHER"
	ChoiceFinished   = "FINISHED"
)
