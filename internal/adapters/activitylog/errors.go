package activitylog

import "errors"

// Sentinel kinds for session lifecycle misuse. These are explicit errors
// rather than silent no-ops so callers cannot lose an unfinished session.
var (
	ErrSessionOpen   = errors.New("a session is already open")
	ErrNoOpenSession = errors.New("no open session")
	ErrSessionClosed = errors.New("session already ended")
	ErrUnknownModule = errors.New("unknown module")
)
