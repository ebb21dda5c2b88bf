package model

// FetchStatus is the lifecycle of one region list fetch.
type FetchStatus string

const (
	FetchStatusIdle    FetchStatus = "idle"
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusReady   FetchStatus = "ready"
	FetchStatusError   FetchStatus = "error"
)

// RegionList is a selectable list of region names with its fetch status.
// Values is always non-nil and sorted when Status is ready.
type RegionList struct {
	Status  FetchStatus `json:"status"`
	Values  []string    `json:"values"`
	Message string      `json:"message,omitempty"`
}

// Contains reports whether name is one of the list's values.
func (l RegionList) Contains(name string) bool {
	for _, v := range l.Values {
		if v == name {
			return true
		}
	}
	return false
}

// CatalogSnapshot is a point-in-time copy of a view's region catalog.
type CatalogSnapshot struct {
	States    RegionList `json:"states"`
	Cities    RegionList `json:"cities"`
	Selection Selection  `json:"selection"`
}
