package models

// Change records a thumbnail rewrite made to a catalog record
type Change struct {
	Index int    // Position of the record in the catalog
	Game  string // Label of the record
	From  string
	To    string
}
