package view

import (
	"sync"

	"growbox_dashboard/internal/models"
)

// State is a copy of everything the dashboard displays.
type State struct {
	// Version increases by one on every change.
	Version uint64

	Sensors SensorReadout
	Status  StatusReadout
	Fields  [fieldCount]FieldState
}

// Field returns the state of f.
func (s State) Field(f Field) FieldState {
	if !f.valid() {
		return FieldState{}
	}
	return s.Fields[f]
}

// Renderer receives a copy of the state after every change. Calls may
// arrive from several goroutines; a renderer that cares about order should
// drop states whose Version is lower than one it already drew.
type Renderer interface {
	Render(State)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(State)

func (f RenderFunc) Render(s State) { f(s) }

// Reconciler owns the displayed state. It is the only writer of sensor and
// status readouts and of the editable field values.
//
// Snapshots of each kind replace the previous one wholesale, so any
// interleaving of bootstrap and push deliveries converges on the last
// snapshot applied per kind. Fields the operator has touched are never
// rewritten by a snapshot.
type Reconciler struct {
	mu       sync.Mutex
	state    State
	renderer Renderer
}

// NewReconciler returns a reconciler with every field untouched and empty.
// renderer may be nil.
func NewReconciler(renderer Renderer) *Reconciler {
	return &Reconciler{
		state: State{
			Sensors: emptySensorReadout(),
			Status:  emptyStatusReadout(),
		},
		renderer: renderer,
	}
}

// ApplySensorSnapshot replaces the rendered sensor values.
func (r *Reconciler) ApplySensorSnapshot(s models.SensorSnapshot) {
	r.update(func(st *State) {
		st.Sensors = renderSensors(s)
	})
}

// ApplyStatusSnapshot replaces the rendered status and prefills every
// untouched editable field from d.
func (r *Reconciler) ApplyStatusSnapshot(d models.DeviceStatusSnapshot) {
	values := statusFieldValues(d)
	r.update(func(st *State) {
		st.Status = renderStatus(d)
		for _, f := range Fields {
			if !st.Fields[f].Touched {
				st.Fields[f].Value = values[f]
			}
		}
	})
}

// Input records an operator edit. The first input into a field marks it
// touched for the rest of the session, including when value is empty.
func (r *Reconciler) Input(f Field, value string) {
	if !f.valid() {
		return
	}
	r.update(func(st *State) {
		st.Fields[f] = FieldState{Value: value, Touched: true}
	})
}

// View returns a copy of the current state.
func (r *Reconciler) View() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Field returns the current state of f.
func (r *Reconciler) Field(f Field) FieldState {
	return r.View().Field(f)
}

// Touched reports whether the operator has edited f.
func (r *Reconciler) Touched(f Field) bool {
	return r.Field(f).Touched
}

// FormValues returns the current contents of the editable fields.
func (r *Reconciler) FormValues() FormValues {
	st := r.View()
	return FormValues{
		TargetAirHumidity: st.Fields[FieldTargetAirHumidity].Value,
		LightOnTime:       st.Fields[FieldLightOnTime].Value,
		LightOffTime:      st.Fields[FieldLightOffTime].Value,
	}
}

// update applies mutate under the lock and renders when the state changed.
// The renderer runs outside the lock so it may read back from r.
func (r *Reconciler) update(mutate func(*State)) {
	r.mu.Lock()
	next := r.state
	mutate(&next)
	next.Version = r.state.Version
	if next == r.state {
		r.mu.Unlock()
		return
	}
	next.Version++
	r.state = next
	r.mu.Unlock()

	if r.renderer != nil {
		r.renderer.Render(next)
	}
}
