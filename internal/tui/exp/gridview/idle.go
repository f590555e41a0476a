package gridview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/gridscroll/internal/csync"
)

const (
	idleDelay  = 30 * time.Millisecond
	idleBudget = 4 * time.Millisecond
)

type idleMsg struct{}

func idleTick() tea.Cmd {
	return tea.Tick(idleDelay, func(time.Time) tea.Msg {
		return idleMsg{}
	})
}

// idleQueue holds preload tasks posted during a layout pass until the
// program has a quiet moment.
type idleQueue struct {
	tasks *csync.Slice[func(time.Time)]
}

func newIdleQueue() *idleQueue {
	return &idleQueue{tasks: csync.NewSlice[func(time.Time)]()}
}

func (q *idleQueue) PostIdleTask(task func(deadline time.Time)) {
	q.tasks.Append(task)
}

func (q *idleQueue) pending() bool {
	return q.tasks.Len() > 0
}

// run runs the tasks queued so far within budget. Tasks posted while running
// wait for the next call.
func (q *idleQueue) run(budget time.Duration) {
	deadline := time.Now().Add(budget)
	for range q.tasks.Len() {
		task, ok := q.tasks.PopFront()
		if !ok {
			return
		}
		task(deadline)
	}
}
