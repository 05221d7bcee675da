package engine

// Operator is one of the four binary operations on the keypad.
type Operator int

const (
	Add Operator = iota + 1
	Subtract
	Multiply
	Divide
)

// Apply computes a op b with plain IEEE-754 arithmetic. Division by zero
// yields an infinity or NaN, never an error.
func (o Operator) Apply(a, b float64) float64 {
	switch o {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	}
	return b
}

// Symbol returns the keypad glyph for the operator.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return ""
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	}
	return "unknown"
}

// Valid reports whether o is one of the four defined operators.
func (o Operator) Valid() bool {
	return o >= Add && o <= Divide
}
