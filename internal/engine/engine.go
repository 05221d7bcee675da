package engine

import "strings"

type pending struct {
	acc float64
	op  Operator
}

// Engine is the calculator state machine. It owns the operand being typed,
// at most one pending operation, the last result, and the clear-on-next-digit
// flag.
//
// An Engine performs no synchronization; callers sharing one across
// goroutines must serialize HandleEvent calls.
type Engine struct {
	input       string
	result      string
	pending     *pending
	clearOnNext bool
}

// New returns an engine in its empty state.
func New() *Engine {
	return &Engine{}
}

// HandleEvent applies one event. Events that cannot be applied, such as an
// operator pressed with nothing parseable in the input buffer, leave the
// state untouched and report Applied == false.
func (e *Engine) HandleEvent(ev Event) Outcome {
	switch ev.Kind {
	case KindDigit:
		return e.digit(ev.Digit)
	case KindOperator:
		return e.operator(ev.Op)
	case KindEquals:
		return e.equals()
	case KindClear:
		e.clear()
		return Outcome{Applied: true}
	case KindInput:
		e.input = ev.Text
		e.clearOnNext = false
		return Outcome{Applied: true}
	}
	return Outcome{}
}

func (e *Engine) digit(d rune) Outcome {
	if !isDigitKey(d) {
		return Outcome{}
	}

	buf := e.input
	if e.clearOnNext {
		buf = ""
	}
	if d == '.' && strings.ContainsRune(buf, '.') {
		return Outcome{}
	}

	e.input = buf + string(d)
	e.clearOnNext = false
	return Outcome{Applied: true}
}

func (e *Engine) operator(op Operator) Outcome {
	if !op.Valid() {
		return Outcome{}
	}

	v, ok := ParseOperand(e.input)
	if !ok {
		return Outcome{}
	}

	// A second operator before any new operand replaces the pending one.
	if e.pending != nil && e.clearOnNext {
		e.pending.op = op
		return Outcome{Applied: true}
	}

	out := Outcome{Applied: true}
	acc := v
	if e.pending != nil {
		acc = e.pending.op.Apply(e.pending.acc, v)
		out.Computed, out.Op, out.Value = true, e.pending.op, acc
		e.input = FormatValue(acc)
		e.result = e.input
	}

	e.pending = &pending{acc: acc, op: op}
	e.clearOnNext = true
	return out
}

func (e *Engine) equals() Outcome {
	if e.pending == nil {
		return Outcome{}
	}

	v, ok := ParseOperand(e.input)
	if !ok {
		return Outcome{}
	}

	p := e.pending
	res := p.op.Apply(p.acc, v)
	e.input = FormatValue(res)
	e.result = e.input
	e.pending = nil
	e.clearOnNext = true
	return Outcome{Applied: true, Computed: true, Op: p.op, Value: res}
}

func (e *Engine) clear() {
	e.input = ""
	e.result = ""
	e.pending = nil
	e.clearOnNext = false
}

// CurrentInput is the text the user is composing.
func (e *Engine) CurrentInput() string { return e.input }

// LastResult is the text of the last computed value, or "" if none.
func (e *Engine) LastResult() string { return e.result }

// Pending reports the pending operator and its accumulated operand.
func (e *Engine) Pending() (Operator, float64, bool) {
	if e.pending == nil {
		return 0, 0, false
	}
	return e.pending.op, e.pending.acc, true
}

// State is a point-in-time copy of the engine's fields.
type State struct {
	Input       string
	Result      string
	Operator    Operator // zero when nothing is pending
	Accumulator float64
	HasPending  bool
	ClearOnNext bool
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	s := State{
		Input:       e.input,
		Result:      e.result,
		ClearOnNext: e.clearOnNext,
	}
	if e.pending != nil {
		s.Operator = e.pending.op
		s.Accumulator = e.pending.acc
		s.HasPending = true
	}
	return s
}

func isDigitKey(r rune) bool {
	return r == '.' || (r >= '0' && r <= '9')
}
