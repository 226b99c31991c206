package account

import "context"

// View is a place the user can be sent to.
type View string

const (
	ViewLanding   View = "/"
	ViewDashboard View = "/dashboard"
	ViewSettings  View = "/dashboard/settings"
	ViewDocs      View = "/docs"
)

// Navigator moves the user between views. Calls are fire-and-forget.
type Navigator interface {
	// Push performs a soft transition to v.
	Push(v View)
	// Refresh re-renders the current view from fresh state.
	Refresh()
	// Reload is a full navigation to v that also drops in-memory view state.
	Reload(v View)
}

// Storage is the device-local key/value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}
