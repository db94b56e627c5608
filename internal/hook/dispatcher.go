package hook

import (
	"context"
	"log"
)

// Outcome is the result of running one hook.
type Outcome struct {
	Hook     string
	Response *Response
	Err      error
}

// Dispatcher runs every matching hook for a recognition event.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
}

// NewDispatcher creates a Dispatcher over discovered hooks.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	return &Dispatcher{manager: m, executor: e}
}

// Dispatch runs the hooks matching ev in name order and waits for them.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) []Outcome {
	hooks := d.manager.Match(ev.Template, ev.Score)
	outcomes := make([]Outcome, 0, len(hooks))
	for _, h := range hooks {
		hookEv := ev
		resp, err := d.executor.Execute(ctx, h, &hookEv)
		outcomes = append(outcomes, Outcome{Hook: h.Manifest.Name, Response: resp, Err: err})
	}
	return outcomes
}

// Notify dispatches ev in the background and logs the outcomes.
func (d *Dispatcher) Notify(ev Event) {
	go func() {
		for _, o := range d.Dispatch(context.Background(), ev) {
			switch {
			case o.Err != nil:
				log.Printf("Hook %s for %s failed: %v", o.Hook, ev.Template, o.Err)
			case !o.Response.Success:
				log.Printf("Hook %s for %s reported error: %s", o.Hook, ev.Template, o.Response.Error)
			default:
				log.Printf("Hook %s ran for %s", o.Hook, ev.Template)
			}
		}
	}()
}
