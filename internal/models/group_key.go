package models

import "fmt"

// Granularity selects which dimensions identify a group.
type Granularity string

const (
	GranularityDatabase          Granularity = "database"
	GranularityDatabaseOperation Granularity = "database_operation"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDatabase, GranularityDatabaseOperation:
		return g, nil
	default:
		return "", fmt.Errorf("invalid granularity: %q", s)
	}
}

// KeyOf returns the group key of r under this granularity.
func (g Granularity) KeyOf(r *OperationRecord) GroupKey {
	if g == GranularityDatabase {
		return GroupKey{Database: r.Database}
	}
	return GroupKey{Database: r.Database, Operation: r.Operation}
}

// GroupKey identifies a group of records. Operation is empty for database-only grouping.
type GroupKey struct {
	Database  string `json:"database" yaml:"database"`
	Operation string `json:"operation,omitempty" yaml:"operation,omitempty"`
}

func (k GroupKey) Label() string {
	if k.Operation == "" {
		return k.Database
	}
	return k.Database + "/" + k.Operation
}
