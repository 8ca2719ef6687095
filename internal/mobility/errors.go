package mobility

import "errors"

// Configuration errors. They are fatal: no partial output is produced.
var (
	// ErrTooFewSites is returned when fewer than two distinct sites are available.
	ErrTooFewSites = errors.New("at least two distinct sites are required")
	// ErrDuplicateSite is returned when two sites share an id.
	ErrDuplicateSite = errors.New("duplicate site id")
	// ErrInvalidK is returned when k_nearest_neighbor is below 1.
	ErrInvalidK = errors.New("k_nearest_neighbor must be at least 1")
	// ErrNoSubscribers is returned when the subscriber set is empty.
	ErrNoSubscribers = errors.New("subscriber set is empty")
	// ErrDuplicateSubscriber is returned when two subscribers share an id.
	ErrDuplicateSubscriber = errors.New("duplicate subscriber id")
	// ErrInvalidCapStartHour is returned when cap_start_hr is outside [0, 24).
	ErrInvalidCapStartHour = errors.New("cap_start_hr must be within [0, 24)")
	// ErrInvalidDateRange is returned when the date range covers no day.
	ErrInvalidDateRange = errors.New("date range must cover at least one day")
	// ErrInvalidStayDistribution is returned for truncated-normal parameters with
	// low >= upp, a non-positive standard deviation or bounds outside [0, 1].
	ErrInvalidStayDistribution = errors.New("invalid stay probability distribution")
	// ErrNoOutgoingEdges is returned when a walk reaches a site with no retained destination.
	ErrNoOutgoingEdges = errors.New("site has no outgoing transition edges")
)
