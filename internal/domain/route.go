package domain

// Represents a route returned by the routing service.
// Path carries the geometry; the summary metrics are informational only and
// are zero when the routing service did not report them.
type Route struct {
	Path            Path
	DistanceMeters  int
	DurationSeconds int
}
