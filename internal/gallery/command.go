package gallery

import (
	"errors"
	"fmt"
)

// Op is a gallery button.
type Op string

const (
	OpReload  Op = "reload"
	OpFirst   Op = "first"
	OpNext    Op = "next"
	OpPrev    Op = "prev"
	OpLast    Op = "last"
	OpGoto    Op = "goto"
	OpCurrent Op = "current"
)

var ErrUnknownOp = errors.New("unknown gallery command")

// Command is one user action on the gallery. The browser posts it as JSON
// and the terminal gallery builds it from key presses.
type Command struct {
	Op     Op     `json:"op"`
	Target Target `json:"target,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Apply runs cmd and returns the resulting view. An unknown op leaves the
// state untouched.
func (m *Manager) Apply(cmd Command) (View, error) {
	switch cmd.Op {
	case OpReload:
		if cmd.Target != "" {
			t, err := ParseTarget(string(cmd.Target))
			if err != nil {
				return m.Current(), err
			}
			return m.Reload(t), nil
		}
		return m.Reload(""), nil
	case OpFirst:
		return m.First(), nil
	case OpNext:
		return m.Next(), nil
	case OpPrev:
		return m.Prev(), nil
	case OpLast:
		return m.Last(), nil
	case OpGoto:
		return m.Goto(cmd.Page), nil
	case OpCurrent, "":
		return m.Current(), nil
	}
	return m.Current(), fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
}
