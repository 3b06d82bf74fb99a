package types

import "fmt"

// NamedSession is a well-known trading session recognized by string name in
// the strategy document (e.g. "regular", "pre_market", "post_market").
type NamedSession string

const (
	SessionRegular    NamedSession = "regular"
	SessionPreMarket  NamedSession = "pre_market"
	SessionPostMarket NamedSession = "post_market"
	SessionFullDay    NamedSession = "full_day"
)

var namedSessions = map[string]NamedSession{
	"regular":     SessionRegular,
	"pre_market":  SessionPreMarket,
	"post_market": SessionPostMarket,
	"full_day":    SessionFullDay,
}

// NamedSessionFromString resolves a strategy-document session string to a
// NamedSession, failing if the name is not recognized.
func NamedSessionFromString(s string) (NamedSession, error) {
	ns, ok := namedSessions[s]
	if !ok {
		return "", fmt.Errorf("types: unrecognized named session %q", s)
	}
	return ns, nil
}

// DayMinuteRange is a session expressed as an explicit start/end pair of
// minutes-since-midnight, used when the strategy document supplies a
// {start, end} map instead of a named session.
type DayMinuteRange struct {
	StartMinute int
	EndMinute   int
}

// sessionKind tags which variant a SessionVariant currently holds.
type sessionKind int

const (
	sessionKindNamed sessionKind = iota
	sessionKindRange
)

// SessionVariant is the tagged union a node's "session" field decodes to:
// either one of the well-known named sessions, or an explicit start/end
// minute range.
type SessionVariant struct {
	kind  sessionKind
	named NamedSession
	rng   DayMinuteRange
}

// NewNamedSessionVariant wraps a NamedSession.
func NewNamedSessionVariant(n NamedSession) SessionVariant {
	return SessionVariant{kind: sessionKindNamed, named: n}
}

// NewRangeSessionVariant wraps an explicit start/end minute range.
func NewRangeSessionVariant(r DayMinuteRange) SessionVariant {
	return SessionVariant{kind: sessionKindRange, rng: r}
}

// IsNamed reports whether this variant holds a NamedSession.
func (s SessionVariant) IsNamed() bool { return s.kind == sessionKindNamed }

// Named returns the NamedSession payload; callers must check IsNamed first.
func (s SessionVariant) Named() NamedSession { return s.named }

// Range returns the DayMinuteRange payload; callers must check !IsNamed first.
func (s SessionVariant) Range() DayMinuteRange { return s.rng }
