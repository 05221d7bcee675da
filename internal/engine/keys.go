package engine

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrUnknownKey is returned for runes that are not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// ParseKey maps a keypad rune to its event. Digits and '.' are digit keys,
// "+-*/" (with 'x', '×' and '÷' as aliases) are operators, '=' is equals and
// 'C' or 'c' is clear.
func ParseKey(r rune) (Event, error) {
	switch {
	case isDigitKey(r):
		return Digit(r), nil
	case r == '+':
		return Op(Add), nil
	case r == '-':
		return Op(Subtract), nil
	case r == '*', r == 'x', r == '×':
		return Op(Multiply), nil
	case r == '/', r == '÷':
		return Op(Divide), nil
	case r == '=':
		return Equals(), nil
	case r == 'C', r == 'c':
		return Clear(), nil
	}
	return Event{}, fmt.Errorf("%w %q", ErrUnknownKey, r)
}

// ParseKeys converts a string of keypad runes into events, skipping
// whitespace.
func ParseKeys(s string) ([]Event, error) {
	events := make([]Event, 0, len(s))
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		ev, err := ParseKey(r)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
