package models

// Side identifies which of the two compared directories an entry belongs to
type Side string

const (
	// SideLeft is the first directory
	SideLeft Side = "left"
	// SideRight is the second directory
	SideRight Side = "right"
)

// EntryError records a per-entry failure that did not abort the comparison
type EntryError struct {
	Name  string `json:"name"`
	Side  Side   `json:"side"`
	Error string `json:"error"`
}
