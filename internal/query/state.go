package query

// State is the lifecycle position of one cache entry:
// Empty -> Loading -> Fresh -> Stale -> Loading -> Fresh ...
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateFresh   State = "fresh"
	StateStale   State = "stale"
)

func (s State) String() string {
	return string(s)
}
