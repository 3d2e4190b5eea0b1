package dashboard

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// DefaultTopN is the number of categories shown per chart
const DefaultTopN = 10

// Metric is a per-category value categories can be ranked by
type Metric string

const (
	MetricViews         Metric = "views"
	MetricFrequency     Metric = "frequency"
	MetricEffectiveness Metric = "effectiveness"
)

// Metrics lists the metrics in chart order
var Metrics = []Metric{MetricViews, MetricFrequency, MetricEffectiveness}

var metricStyles = map[Metric]struct {
	label string
	color string
}{
	MetricViews:         {"Views", "rgba(75, 192, 192, 0.6)"},
	MetricFrequency:     {"Frequency", "rgba(255, 206, 86, 0.6)"},
	MetricEffectiveness: {"Effectiveness", "rgba(153, 102, 255, 0.6)"},
}

// ParseMetric resolves a metric name, defaulting to views
func ParseMetric(name string) (Metric, error) {
	if name == "" {
		return MetricViews, nil
	}
	m := Metric(name)
	if _, ok := metricStyles[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// Label is the dataset label of the metric
func (m Metric) Label() string {
	return metricStyles[m].label
}

// Color is the bar fill color of the metric
func (m Metric) Color() string {
	return metricStyles[m].color
}

// BorderColor is the fill color made opaque
func (m Metric) BorderColor() string {
	return strings.Replace(m.Color(), "0.6", "1", 1)
}

// RankedCategory is a category with its derived effectiveness
type RankedCategory struct {
	Name          string  `json:"name"`
	Views         int64   `json:"views"`
	Frequency     int     `json:"frequency"`
	Effectiveness float64 `json:"effectiveness"`
}

// Value returns the metric of the category
func (r RankedCategory) Value(m Metric) float64 {
	switch m {
	case MetricFrequency:
		return float64(r.Frequency)
	case MetricEffectiveness:
		return r.Effectiveness
	default:
		return float64(r.Views)
	}
}

// compare orders two categories on m. Counts compare as integers so large
// view totals never collapse into ties.
func (r RankedCategory) compare(o RankedCategory, m Metric) int {
	switch m {
	case MetricFrequency:
		return cmp.Compare(r.Frequency, o.Frequency)
	case MetricEffectiveness:
		return cmp.Compare(r.Effectiveness, o.Effectiveness)
	default:
		return cmp.Compare(r.Views, o.Views)
	}
}

// Rank orders the categories of a table by metric, highest first, and keeps
// the top N. Ties keep first-seen order. topN <= 0 keeps every category.
func Rank(table *AggregateTable, metric Metric, topN int) []RankedCategory {
	ranked := make([]RankedCategory, 0, table.Len())
	for _, stat := range table.stats {
		ranked = append(ranked, RankedCategory{
			Name:          stat.Name,
			Views:         stat.Views,
			Frequency:     stat.Frequency,
			Effectiveness: stat.Effectiveness(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].compare(ranked[j], metric) > 0
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Dataset is one bar series of a chart
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// ChartData is a bar chart: one label per category and a dataset of values
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Project shapes ranked categories into chart data for the metric
func Project(ranked []RankedCategory, metric Metric) ChartData {
	labels := make([]string, 0, len(ranked))
	values := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		labels = append(labels, r.Name)
		values = append(values, r.Value(metric))
	}
	return ChartData{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           metric.Label(),
			Data:            values,
			BackgroundColor: metric.Color(),
			BorderColor:     metric.BorderColor(),
			BorderWidth:     1,
		}},
	}
}

// Charts holds the projections of every category field and metric
type Charts map[Field]map[Metric]ChartData

// ProjectAll ranks and projects each table for each metric
func ProjectAll(tables map[Field]*AggregateTable, topN int) Charts {
	charts := make(Charts, len(tables))
	for field, table := range tables {
		byMetric := make(map[Metric]ChartData, len(Metrics))
		for _, metric := range Metrics {
			byMetric[metric] = Project(Rank(table, metric, topN), metric)
		}
		charts[field] = byMetric
	}
	return charts
}
