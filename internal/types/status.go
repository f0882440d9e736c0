package types

// Status is a type for the lifecycle status of a database row. It tracks
// whether a record should be included in queries, independent of any
// domain-level status the record carries.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)
