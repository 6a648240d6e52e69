package domain

// Transition is one edge of the registration dialogue, used for inspection
// and diagrams. Label names the input that selects the edge, if any.
type Transition struct {
	From   StateID `json:"from"`
	To     StateID `json:"to"`
	Label  string  `json:"label,omitempty"`
	Cancel bool    `json:"cancel,omitempty"`
}
