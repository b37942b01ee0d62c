// Package actor identifies the user performing an action. Mutating
// operations take an explicit Actor rather than reading ambient state, and
// audit entries record the actor's name.
package actor

import "context"

// SystemName is recorded when no authenticated user is present.
const SystemName = "System"

// Actor represents the entity performing an action in the system.
type Actor struct {
	// EmployeeNo is the employee number of the acting user, 0 for the system.
	EmployeeNo int `json:"employee_no"`

	// Username is the login name of the acting user.
	Username string `json:"username"`

	// Name is the actor's display name.
	Name string `json:"name"`
}

// DisplayName returns the name recorded in audit entries, falling back to
// the system label.
func (a *Actor) DisplayName() string {
	if a == nil || a.Username == "" {
		return SystemName
	}
	return a.Username
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a == nil || a.Username == ""
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context. Returns nil if no actor
// is present (system operations).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// System returns an Actor representing the system itself. Use this for the
// seeder and other system-initiated operations.
func System() *Actor {
	return &Actor{Name: SystemName}
}
