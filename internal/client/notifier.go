package client

import "net/http"

// Notifier receives the session events the interceptor cannot resolve on its
// own. Implementations must be safe for concurrent use.
type Notifier interface {
	// LoggedOut is called after the local session was discarded.
	LoggedOut()
	PermissionDenied(req *http.Request)
	Unreachable(err error)
}

// NotifierFuncs adapts plain functions to Notifier; nil fields are ignored.
type NotifierFuncs struct {
	OnLoggedOut        func()
	OnPermissionDenied func(req *http.Request)
	OnUnreachable      func(err error)
}

func (n NotifierFuncs) LoggedOut() {
	if n.OnLoggedOut != nil {
		n.OnLoggedOut()
	}
}

func (n NotifierFuncs) PermissionDenied(req *http.Request) {
	if n.OnPermissionDenied != nil {
		n.OnPermissionDenied(req)
	}
}

func (n NotifierFuncs) Unreachable(err error) {
	if n.OnUnreachable != nil {
		n.OnUnreachable(err)
	}
}
