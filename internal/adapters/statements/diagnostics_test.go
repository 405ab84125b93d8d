package statements

import (
	"fmt"
	"sync"
)

type event struct {
	level string
	msg   string
	args  []any
}

// recorder collects diagnostics for assertions.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{level: level, msg: msg, args: args})
}

func (r *recorder) Debug(msg string, args ...any) { r.add("debug", msg, args) }
func (r *recorder) Info(msg string, args ...any)  { r.add("info", msg, args) }
func (r *recorder) Warn(msg string, args ...any)  { r.add("warn", msg, args) }

func (r *recorder) count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.level == level {
			n++
		}
	}
	return n
}

func (r *recorder) messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.level == level {
			out = append(out, fmt.Sprint(e.msg))
		}
	}
	return out
}
