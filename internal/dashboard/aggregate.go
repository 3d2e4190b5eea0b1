package dashboard

import (
	"fmt"
	"strings"

	"github.com/yt-dashboard/internal/models"
)

// Labels splits a delimited category value into trimmed, non-empty labels.
// Labels cannot contain the delimiter itself.
func Labels(value string) []string {
	var labels []string
	for _, part := range strings.Split(value, models.CategoryDelimiter) {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// CategoryStat accumulates the videos carrying one label
type CategoryStat struct {
	Name      string `json:"name"`
	Views     int64  `json:"views"`
	Frequency int    `json:"frequency"`
}

// Effectiveness is the average views per occurrence of the label
func (c CategoryStat) Effectiveness() float64 {
	if c.Frequency == 0 {
		return 0
	}
	return float64(c.Views) / float64(c.Frequency)
}

// AggregateTable maps category labels to their totals, remembering the order
// in which labels were first seen
type AggregateTable struct {
	Field Field
	stats []CategoryStat
	index map[string]int
}

// Len returns the number of distinct labels
func (t *AggregateTable) Len() int {
	return len(t.stats)
}

// Get returns the totals for one label
func (t *AggregateTable) Get(name string) (CategoryStat, bool) {
	i, ok := t.index[name]
	if !ok {
		return CategoryStat{}, false
	}
	return t.stats[i], true
}

// Stats returns a copy of all totals in first-seen order
func (t *AggregateTable) Stats() []CategoryStat {
	return append([]CategoryStat(nil), t.stats...)
}

func (t *AggregateTable) add(name string, views int64) {
	i, ok := t.index[name]
	if !ok {
		i = len(t.stats)
		t.index[name] = i
		t.stats = append(t.stats, CategoryStat{Name: name})
	}
	t.stats[i].Views += views
	t.stats[i].Frequency++
}

// Aggregate groups records by the labels of a category field. A record with
// several labels counts fully towards each of them.
func Aggregate(records []models.VideoRecord, field Field) (*AggregateTable, error) {
	if !field.IsCategory() {
		return nil, fmt.Errorf("%w: %q", ErrNotCategoryField, field)
	}

	table := &AggregateTable{Field: field, index: make(map[string]int)}
	for i := range records {
		for _, label := range Labels(field.Text(&records[i])) {
			table.add(label, records[i].Views)
		}
	}
	return table, nil
}

// AggregateAll builds one table per category field
func AggregateAll(records []models.VideoRecord) map[Field]*AggregateTable {
	tables := make(map[Field]*AggregateTable, len(CategoryFields))
	for _, field := range CategoryFields {
		// category fields never fail
		table, _ := Aggregate(records, field)
		tables[field] = table
	}
	return tables
}
