package match

import "time"

// task is one deferred piece of work. The generation captured at schedule
// time fences it: round end and match reset bump the match generation, so
// tasks scheduled before the boundary are dropped instead of firing into a
// fresh round.
type task struct {
	id  uint64
	at  time.Time
	gen uint64
	fn  func(*Match)
}

// schedule queues fn to run after the given delay on the match goroutine.
// Returns the task id, usable with cancelTask.
func (m *Match) schedule(after time.Duration, fn func(*Match)) uint64 {
	m.taskID++
	m.tasks = append(m.tasks, &task{
		id:  m.taskID,
		at:  m.now().Add(after),
		gen: m.gen,
		fn:  fn,
	})
	return m.taskID
}

// cancelTask removes a pending task. No-op when already fired or dropped.
func (m *Match) cancelTask(id uint64) {
	for i, t := range m.tasks {
		if t.id == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// runDueTasks fires every due task from the current generation and prunes
// stale ones.
func (m *Match) runDueTasks(now time.Time) {
	var keep []*task
	var due []*task
	for _, t := range m.tasks {
		switch {
		case t.gen != m.gen:
			// stale, drop
		case !t.at.After(now):
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	m.tasks = keep
	for _, t := range due {
		t.fn(m)
	}
}

// bumpGeneration invalidates every pending task.
func (m *Match) bumpGeneration() {
	m.gen++
	m.tasks = nil
}
