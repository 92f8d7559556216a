package models

import (
	"encoding/json"
	"slices"
)

// FilterSelection is the set of databases and operations a caller wants to see.
// Empty sets are valid and select nothing.
type FilterSelection struct {
	Databases  []string `json:"databases" yaml:"databases" validate:"dive,required"`
	Operations []string `json:"operations" yaml:"operations" validate:"dive,required"`
}

// SelectAll returns the filter that selects every database and operation of the log.
func SelectAll(log *OperationLog) FilterSelection {
	return FilterSelection{
		Databases:  slices.Clone(log.Databases),
		Operations: slices.Clone(log.Operations),
	}
}

func (f FilterSelection) IsEmpty() bool {
	return len(f.Databases) == 0 || len(f.Operations) == 0
}

func (f FilterSelection) Matches(r *OperationRecord) bool {
	return slices.Contains(f.Databases, r.Database) && slices.Contains(f.Operations, r.Operation)
}

// Apply returns the matching records in their original order.
func (f FilterSelection) Apply(records []*OperationRecord) []*OperationRecord {
	if f.IsEmpty() {
		return nil
	}
	dbs := toSet(f.Databases)
	ops := toSet(f.Operations)

	out := make([]*OperationRecord, 0, len(records))
	for _, r := range records {
		if _, ok := dbs[r.Database]; !ok {
			continue
		}
		if _, ok := ops[r.Operation]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Key returns a canonical string for the selection. Two selections with the same
// members in any order and with any duplicates share a key.
func (f FilterSelection) Key() string {
	canonical := struct {
		D []string `json:"d"`
		O []string `json:"o"`
	}{D: canonicalSet(f.Databases), O: canonicalSet(f.Operations)}

	// marshalling two string slices cannot fail
	b, _ := json.Marshal(canonical)
	return string(b)
}

func canonicalSet(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
