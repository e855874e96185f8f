package simulation

// Advance performs one tick on a running session and returns the updated
// session with the events the tick produced. Sessions in any other state
// are returned unchanged, so a rerouting session can never trigger a second
// reroute from a stray tick.
//
// The tick that visits the last point of the path also completes the
// session: a path of n points completes on tick n.
func Advance(s Session) (Session, []Event) {
	if s.Status != StatusRunning {
		return s, nil
	}

	if s.Index >= s.Path.Len() {
		_ = s.transition(StatusCompleted)
		return s, []Event{s.event(EventCompleted)}
	}

	point := s.Path.At(s.Index)
	pos := s.event(EventPosition)
	pos.Position = point
	events := []Event{pos}

	zone, blocked := BlockingZone(point, s.Zones)
	if blocked && !s.InBlockage {
		s.InBlockage = true
		s.BlockedAt = point
		s.BlockedZone = zone.ID
		_ = s.transition(StatusBlocked)
		_ = s.transition(StatusRerouting)

		ev := s.event(EventBlocked)
		ev.Position = point
		ev.ZoneID = zone.ID
		return s, append(events, ev)
	}
	if !blocked {
		s.InBlockage = false
	}

	s.Index++
	if s.Index >= s.Path.Len() {
		_ = s.transition(StatusCompleted)
		events = append(events, s.event(EventCompleted))
	}

	return s, events
}

// Resume applies a reroute result to a rerouting session. Results for
// another session, cancelled results, and results arriving when the session
// is no longer rerouting leave the session untouched.
func Resume(s Session, r RerouteResult) (Session, []Event) {
	if s.Status != StatusRerouting || r.Token != s.Token {
		return s, nil
	}

	switch r.Outcome {
	case OutcomeRerouted:
		s.Path = r.Path
		s.Index = 0
		s.Reroutes++
		_ = s.transition(StatusRunning)

		ev := s.event(EventRerouted)
		ev.Path = r.Path
		ev.Position = s.BlockedAt
		return s, []Event{ev}

	case OutcomeFallback:
		_ = s.transition(StatusFallback)
		s.Path = r.Path
		s.Index = 0
		s.Fallbacks++
		_ = s.transition(StatusRunning)

		ev := s.event(EventFellBack)
		ev.Path = r.Path
		ev.Position = s.BlockedAt
		ev.Reason = r.Reason
		return s, []Event{ev}

	case OutcomeFailed:
		_ = s.transition(StatusFallback)
		_ = s.transition(StatusIdle)

		ev := s.event(EventRerouteFailed)
		ev.Position = s.BlockedAt
		ev.Reason = r.Reason
		return s, []Event{ev}
	}

	return s, nil
}
