package engine

// Kind identifies the type of a key event.
type Kind int

const (
	KindDigit Kind = iota + 1
	KindOperator
	KindEquals
	KindClear
	// KindInput replaces the input buffer with free text, as when the user
	// edits the display field directly.
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindInput:
		return "input"
	}
	return "unknown"
}

// Event is a single discrete input delivered to the engine.
type Event struct {
	Kind  Kind
	Digit rune     // set for KindDigit
	Op    Operator // set for KindOperator
	Text  string   // set for KindInput
}

func Digit(r rune) Event { return Event{Kind: KindDigit, Digit: r} }
func Op(op Operator) Event { return Event{Kind: KindOperator, Op: op} }
func Equals() Event { return Event{Kind: KindEquals} }
func Clear() Event { return Event{Kind: KindClear} }
func Input(text string) Event { return Event{Kind: KindInput, Text: text} }

// Key returns the keypad text for the event.
func (e Event) Key() string {
	switch e.Kind {
	case KindDigit:
		return string(e.Digit)
	case KindOperator:
		return e.Op.Symbol()
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	case KindInput:
		return e.Text
	}
	return ""
}

// Outcome describes what HandleEvent did with an event.
type Outcome struct {
	// Applied is false when the event was absorbed without changing state.
	Applied bool
	// Computed is true when a pending operation was resolved; Op and Value
	// then hold the resolved operator and its result.
	Computed bool
	Op       Operator
	Value    float64
}
