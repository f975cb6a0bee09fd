package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/logger"
)

// Channel identifies a class of interactive session.
type Channel int

const (
	ChannelPositioning Channel = iota
	ChannelScalarControl
)

func (c Channel) String() string {
	switch c {
	case ChannelPositioning:
		return "positioning"
	case ChannelScalarControl:
		return "scalar-control"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Session is an active interactive session as seen by the registry.
type Session interface {
	Channel() Channel
	// Mode names what the session is doing, e.g. "orbit" or "power".
	Mode() string
	// ClaimsPointer reports whether the session consumes pointer moves.
	ClaimsPointer() bool
	// Cancel ends the session and restores the state it started from.
	Cancel()
}

// Registry tracks at most one active session per channel. It is owned by
// the application context.
type Registry struct {
	active map[Channel]Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[Channel]Session)}
}

// Start registers s. Any session already on the same channel is cancelled,
// and so is any session on another channel that also claims the pointer.
func (r *Registry) Start(s Session) {
	for ch, other := range r.active {
		if other == s {
			continue
		}
		if ch == s.Channel() || (s.ClaimsPointer() && other.ClaimsPointer()) {
			delete(r.active, ch)
			logger.Debug("terminating conflicting session",
				zap.Stringer("channel", ch),
				zap.String("mode", other.Mode()),
				zap.String("by", s.Mode()))
			other.Cancel()
		}
	}
	r.active[s.Channel()] = s
}

// Finish unregisters s if it is the active session on its channel.
func (r *Registry) Finish(s Session) {
	if cur, ok := r.active[s.Channel()]; ok && cur == s {
		delete(r.active, s.Channel())
	}
}

// IsActive reports whether a session is running on ch.
func (r *Registry) IsActive(ch Channel) bool {
	_, ok := r.active[ch]
	return ok
}

// ActiveMode returns the mode of the session on ch.
func (r *Registry) ActiveMode(ch Channel) (string, bool) {
	s, ok := r.active[ch]
	if !ok {
		return "", false
	}
	return s.Mode(), true
}

// Active returns the session on ch, or nil.
func (r *Registry) Active(ch Channel) Session {
	return r.active[ch]
}

// CancelAll cancels every active session.
func (r *Registry) CancelAll() {
	for ch, s := range r.active {
		delete(r.active, ch)
		s.Cancel()
	}
}
