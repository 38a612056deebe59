package models

// UpdateResult is the outcome of refreshing a cached post.
type UpdateResult int

const (
	Unchanged UpdateResult = iota
	Changed
	Failed
)

func (r UpdateResult) String() string {
	switch r {
	case Changed:
		return "CHANGED"
	case Unchanged:
		return "UNCHANGED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the result by name so JSON responses read "CHANGED".
func (r UpdateResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
