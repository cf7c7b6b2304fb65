package easing

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads the text form of an easing:
//
//	linear, cubic-in, cubic-out, cubic-in-out, quad-in, quad-out, quad-in-out,
//	sine-in-out, back-out, back-out(1.5), bezier(0.25,0.1,0.25,1)
//
// An empty string is linear.
func Parse(s string) (Easing, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Easing{Kind: Linear}, nil
	}

	name, args, err := splitCall(s)
	if err != nil {
		return Easing{}, err
	}

	switch Kind(name) {
	case BackOut:
		switch len(args) {
		case 0:
			return NewBackOut(DefaultOvershoot)
		case 1:
			return NewBackOut(args[0])
		}
		return Easing{}, fmt.Errorf("%w: back-out takes one argument, got %d", ErrInvalidEasing, len(args))
	case Bezier:
		if len(args) != 4 {
			return Easing{}, fmt.Errorf("%w: bezier takes four arguments, got %d", ErrInvalidEasing, len(args))
		}
		return NewBezier(args[0], args[1], args[2], args[3])
	}

	if len(args) != 0 {
		return Easing{}, fmt.Errorf("%w: %s takes no arguments", ErrInvalidEasing, name)
	}
	return New(Kind(name))
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Easing {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func splitCall(s string) (string, []float64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("%w: unterminated argument list in %q", ErrInvalidEasing, s)
	}

	name := strings.TrimSpace(s[:open])
	body := strings.TrimSpace(s[open+1 : len(s)-1])
	if body == "" {
		return name, nil, nil
	}

	var args []float64
	for _, part := range strings.Split(body, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: argument %q: %v", ErrInvalidEasing, part, err)
		}
		args = append(args, v)
	}
	return name, args, nil
}

// String returns the text form accepted by Parse.
func (e Easing) String() string {
	switch e.kind() {
	case BackOut:
		return fmt.Sprintf("back-out(%s)", formatFloat(e.Overshoot))
	case Bezier:
		return fmt.Sprintf("bezier(%s,%s,%s,%s)",
			formatFloat(e.P1X), formatFloat(e.P1Y), formatFloat(e.P2X), formatFloat(e.P2Y))
	}
	return string(e.kind())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// UnmarshalYAML accepts the text form of an easing as a scalar.
func (e *Easing) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: line %d: expected a string", ErrInvalidEasing, value.Line)
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = parsed
	return nil
}

// MarshalYAML writes the text form of an easing.
func (e Easing) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}
