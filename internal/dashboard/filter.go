package dashboard

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yt-dashboard/internal/models"
)

// FilterCriteria holds the table filters. Empty values do not constrain.
type FilterCriteria struct {
	Title       string `json:"title,omitempty" form:"title"`
	Description string `json:"description,omitempty" form:"description"`
	Topics      string `json:"topics,omitempty" form:"topics"`
	Tags        string `json:"tags,omitempty" form:"tags"`
	HashTags    string `json:"hash_tags,omitempty" form:"hash_tags"`
	StartDate   string `json:"startDate,omitempty" form:"startDate"`
	EndDate     string `json:"endDate,omitempty" form:"endDate"`
}

type textConstraint struct {
	field  Field
	needle string
}

func (c FilterCriteria) textConstraints() []textConstraint {
	all := []textConstraint{
		{FieldTitle, c.Title},
		{FieldDescription, c.Description},
		{FieldTopics, c.Topics},
		{FieldTags, c.Tags},
		{FieldHashTags, c.HashTags},
	}
	active := all[:0]
	for _, tc := range all {
		if tc.needle != "" {
			active = append(active, tc)
		}
	}
	return active
}

// Problems lists criteria values that cannot be applied. Such constraints are
// dropped rather than failing the filter pass.
func (c FilterCriteria) Problems() []string {
	var problems []string
	if _, err := parseBound(c.StartDate); err != nil {
		problems = append(problems, fmt.Sprintf("startDate ignored: %v", err))
	}
	if _, err := parseBound(c.EndDate); err != nil {
		problems = append(problems, fmt.Sprintf("endDate ignored: %v", err))
	}
	return problems
}

// parseBound parses a date criterion. An empty value yields the zero time and
// a calendar date is midnight UTC of that day.
func parseBound(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return models.ParseTimestamp(value)
}

type matcher struct {
	caser cases.Caser
	texts []textConstraint

	start, end       time.Time
	hasStart, hasEnd bool
}

func newMatcher(c FilterCriteria) *matcher {
	m := &matcher{caser: cases.Lower(language.Und)}
	for _, tc := range c.textConstraints() {
		m.texts = append(m.texts, textConstraint{tc.field, m.caser.String(tc.needle)})
	}
	if t, err := parseBound(c.StartDate); err == nil && !t.IsZero() {
		m.start, m.hasStart = t, true
	}
	if t, err := parseBound(c.EndDate); err == nil && !t.IsZero() {
		m.end, m.hasEnd = t, true
	}
	return m
}

func (m *matcher) match(v *models.VideoRecord) bool {
	for _, tc := range m.texts {
		if !strings.Contains(m.caser.String(tc.field.Text(v)), tc.needle) {
			return false
		}
	}
	if !m.hasStart && !m.hasEnd {
		return true
	}

	published, err := v.Published()
	if err != nil {
		return false
	}
	if m.hasStart && published.Before(m.start) {
		return false
	}
	if m.hasEnd && published.After(m.end) {
		return false
	}
	return true
}

// Filter returns the records satisfying every active criterion, in input
// order. The input slice is not modified.
func Filter(records []models.VideoRecord, criteria FilterCriteria) []models.VideoRecord {
	m := newMatcher(criteria)
	filtered := make([]models.VideoRecord, 0, len(records))
	for i := range records {
		if m.match(&records[i]) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}
