package domain

import "errors"

// SessionState is the authentication state of one client connection.
type SessionState int

const (
	// Anonymous means no credentials have been presented.
	Anonymous SessionState = iota
	// PendingSecondFactor means the primary credential check succeeded and a
	// one-time code is awaited. Reachable only via BeginPendingFactor.
	PendingSecondFactor
	// Authenticated means the second factor was verified. Reachable only
	// from PendingSecondFactor.
	Authenticated
)

func (s SessionState) String() string {
	switch s {
	case PendingSecondFactor:
		return "pending_second_factor"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Identity is the user data a session carries once the primary credential
// check has passed. It never includes the password hash.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Role     Role
}

// ErrNotPendingFactor reports an attempt to complete authentication on a
// session that has no pending second factor.
var ErrNotPendingFactor = errors.New("session: no pending second factor")

// ClientSession is the per-client authentication state machine:
//
//	Anonymous -> PendingSecondFactor -> Authenticated
//
// Invalidate returns any state to Anonymous. The tagged representation makes
// the invalid combinations of the original demo (pending and full identity
// set at once) unrepresentable.
type ClientSession struct {
	state    SessionState
	identity Identity
}

// BeginPendingFactor enters the pending state for the given identity. The
// caller must have verified the primary credentials already; this method does
// not re-check them. Any prior state, including a full authentication, is
// discarded first so a re-login always restarts the flow.
func (s *ClientSession) BeginPendingFactor(id Identity) {
	s.state = PendingSecondFactor
	s.identity = id
}

// CompleteAuthentication promotes a pending session to Authenticated,
// carrying over the identity captured at BeginPendingFactor. It fails from
// any other state.
func (s *ClientSession) CompleteAuthentication() error {
	if s.state != PendingSecondFactor {
		return ErrNotPendingFactor
	}
	s.state = Authenticated
	return nil
}

// Invalidate resets the session to Anonymous and discards the held identity.
func (s *ClientSession) Invalidate() {
	s.state = Anonymous
	s.identity = Identity{}
}

// Current returns a read-only snapshot for access guards.
func (s *ClientSession) Current() Snapshot {
	return Snapshot{State: s.state, Identity: s.identity}
}

// Snapshot is an immutable view of a session, consulted by access guards.
type Snapshot struct {
	State    SessionState
	Identity Identity
}

// IsAuthenticated allows iff the session completed the second factor.
func (s Snapshot) IsAuthenticated() bool { return s.State == Authenticated }

// IsPendingFactor allows iff the session is between the credential check and
// the code verification. Used to gate the code-entry step itself.
func (s Snapshot) IsPendingFactor() bool { return s.State == PendingSecondFactor }

// HasRole allows iff the session is authenticated and its role is one of the
// allowed roles.
func (s Snapshot) HasRole(roles ...Role) bool {
	if s.State != Authenticated {
		return false
	}
	for _, r := range roles {
		if s.Identity.Role == r {
			return true
		}
	}
	return false
}
