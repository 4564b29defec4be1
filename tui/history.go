package tui

// logLine is one entry of the on-screen log panel.
type logLine struct {
	text   string
	kind   lineKind
	system bool // front-end notice rather than a game log line
}

// History keeps the most recent log lines shown in the log panel. Older
// lines fall off the front once max is reached.
type History struct {
	lines []logLine
	max   int
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	return &History{
		lines: make([]logLine, 0, max),
		max:   max,
	}
}

// Push appends a game log line.
func (h *History) Push(text string) {
	h.push(logLine{text: text, kind: classifyLine(text)})
}

// PushSystem appends a front-end notice such as a save confirmation.
func (h *History) PushSystem(text string) {
	h.push(logLine{text: text, kind: kindSystem, system: true})
}

func (h *History) push(l logLine) {
	h.lines = append(h.lines, l)
	if len(h.lines) > h.max {
		h.lines = h.lines[len(h.lines)-h.max:]
	}
}

// Reset replaces the history with the given game log, keeping the newest
// lines when there are too many.
func (h *History) Reset(log []string) {
	h.lines = h.lines[:0]
	for _, text := range log {
		h.Push(text)
	}
}

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.lines) }

// entries returns the stored lines, oldest first.
func (h *History) entries() []logLine { return h.lines }
