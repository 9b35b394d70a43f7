package domain

import "fmt"

// StopKind says why a paginated collection stopped. Transport and HTTP
// failures are stopping conditions, not errors to propagate: partial results
// are still useful, and the aggregator never fails a request over them.
type StopKind int

const (
	// StopSatisfied means the item-count target was reached.
	StopSatisfied StopKind = iota
	// StopExhausted means the source ran out of items (empty page or no
	// next cursor).
	StopExhausted
	// StopPageCap means the page-count cap was hit first.
	StopPageCap
	// StopTransport covers connection failures and malformed responses.
	StopTransport
	// StopHTTP means the upstream returned a non-success status.
	StopHTTP
)

func (k StopKind) String() string {
	switch k {
	case StopSatisfied:
		return "satisfied"
	case StopExhausted:
		return "exhausted"
	case StopPageCap:
		return "page_cap"
	case StopTransport:
		return "transport_error"
	case StopHTTP:
		return "http_error"
	}
	return fmt.Sprintf("stop(%d)", int(k))
}

// FetchOutcome reports how a collection run ended, making the failure paths
// inspectable without ever propagating past the aggregator.
type FetchOutcome struct {
	Kind   StopKind
	Status int // HTTP status, set for StopHTTP
	Err    error
}

// Failed reports whether the run stopped on a transport or HTTP failure.
func (o FetchOutcome) Failed() bool {
	return o.Kind == StopTransport || o.Kind == StopHTTP
}

func (o FetchOutcome) String() string {
	if o.Kind == StopHTTP {
		return fmt.Sprintf("%s(%d)", o.Kind, o.Status)
	}
	return o.Kind.String()
}
