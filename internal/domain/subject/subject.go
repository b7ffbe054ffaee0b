package subject

// Subject is a read-only row of the subject table.
type Subject struct {
	ID   int64
	Name string
}
