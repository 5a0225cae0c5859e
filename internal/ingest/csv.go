package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// SandwichSet is the fold of the flat (sandwich, ingredient) relation:
// ingredient names grouped by sandwich label, labels kept in first-seen
// order for deterministic runs.
type SandwichSet struct {
	Labels      []string
	Ingredients map[string][]string
}

// FoldSandwichCSV reads a two-column CSV (Sandwich Label, Ingredient Label)
// with a header row and folds it by sandwich label, deduplicating
// ingredients within a label.
func FoldSandwichCSV(r io.Reader) (*SandwichSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sandwich csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sandwich csv is empty")
	}

	set := &SandwichSet{Ingredients: map[string][]string{}}
	seen := map[string]map[string]bool{}

	for _, record := range records[1:] { // skip header
		label, ingredient := record[0], record[1]
		if label == "" || ingredient == "" {
			continue
		}

		if _, ok := set.Ingredients[label]; !ok {
			set.Labels = append(set.Labels, label)
			set.Ingredients[label] = nil
			seen[label] = map[string]bool{}
		}
		if seen[label][ingredient] {
			continue
		}
		seen[label][ingredient] = true
		set.Ingredients[label] = append(set.Ingredients[label], ingredient)
	}

	return set, nil
}
