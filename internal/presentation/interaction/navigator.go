package interaction

// ActionType is what a key asks the day view to do
type ActionType int

const (
	ActionNone ActionType = iota
	ActionToggle
	ActionMove
	ActionRefresh
	ActionQuit
)

// Action is the result of handling one key. Index is the task position
// for ActionToggle and the new selection for ActionMove.
type Action struct {
	Type  ActionType
	Index int
}

// Navigator tracks the selected row of a task list
type Navigator struct {
	selected int
	count    int
}

// NewNavigator starts at the first row
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Selected returns the highlighted row
func (n *Navigator) Selected() int {
	return n.selected
}

// SetCount updates the list length and keeps the selection in range
func (n *Navigator) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	n.count = count
	if n.selected >= count {
		n.selected = count - 1
	}
	if n.selected < 0 {
		n.selected = 0
	}
}

// Handle maps a key to an action. Digits 1-9 toggle that row, space and
// enter toggle the selection, arrows and j/k move, q/esc/ctrl+c quit.
func (n *Navigator) Handle(ev KeyEvent) Action {
	switch ev.Type {
	case KeyCtrlC, KeyEscape:
		return Action{Type: ActionQuit}
	case KeyEnter:
		return n.toggle(n.selected)
	case KeyUp:
		return n.move(-1)
	case KeyDown:
		return n.move(1)
	}

	switch k := ev.Key; {
	case k == 'q' || k == 'Q':
		return Action{Type: ActionQuit}
	case k == ' ':
		return n.toggle(n.selected)
	case k == 'k':
		return n.move(-1)
	case k == 'j':
		return n.move(1)
	case k == 'r':
		return Action{Type: ActionRefresh}
	case k >= '1' && k <= '9':
		idx := int(k - '1')
		if idx >= n.count {
			return Action{Type: ActionNone}
		}
		n.selected = idx
		return n.toggle(idx)
	}
	return Action{Type: ActionNone}
}

func (n *Navigator) toggle(idx int) Action {
	if n.count == 0 {
		return Action{Type: ActionNone}
	}
	return Action{Type: ActionToggle, Index: idx}
}

func (n *Navigator) move(delta int) Action {
	if n.count == 0 {
		return Action{Type: ActionNone}
	}
	next := n.selected + delta
	if next < 0 || next >= n.count {
		return Action{Type: ActionNone}
	}
	n.selected = next
	return Action{Type: ActionMove, Index: next}
}
