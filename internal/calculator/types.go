package calculator

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/evaluate. Keys are keypad runes: 0-9 . + - * / = C.
type KeysRequest struct {
	Keys string `json:"keys"`
}

// InputRequest is the JSON body for PUT /calculator/sessions/{id}/input.
type InputRequest struct {
	Input string `json:"input"`
}

// Display is what a calculator face shows. Numbers are rendered as text, so
// "inf" and "NaN" survive JSON encoding.
type Display struct {
	SessionID       string `json:"session_id,omitempty"`
	Input           string `json:"input"`
	Result          string `json:"result"`
	PendingOperator string `json:"pending_operator,omitempty"` // "+", "-", "*" or "/"
	Accumulator     string `json:"accumulator,omitempty"`      // operand held for the pending operator
}

// KeysResponse is the JSON response for key presses.
type KeysResponse struct {
	Display
	Applied int       `json:"applied"`
	Ignored int       `json:"ignored"`
	Steps   []KeyStep `json:"steps"`
}

// KeyStep records what one key press did.
type KeyStep struct {
	Key      string `json:"key"`
	Applied  bool   `json:"applied"`
	Computed bool   `json:"computed,omitempty"`
	Value    string `json:"value,omitempty"` // result text when computed
}
