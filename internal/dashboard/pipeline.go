package dashboard

import (
	"sync"

	"github.com/yt-dashboard/internal/models"
)

// Query is the dashboard state the views are derived from
type Query struct {
	Criteria FilterCriteria
	Sort     *SortSpec
	Field    Field
	Metric   Metric
	TopN     int
}

// normalize fills defaults and rejects fields that cannot be charted
func (q Query) normalize() (Query, error) {
	if q.Field == "" {
		q.Field = FieldHashTags
	}
	if _, err := ParseCategoryField(string(q.Field)); err != nil {
		return q, err
	}
	if q.Metric == "" {
		q.Metric = MetricViews
	}
	if _, err := ParseMetric(string(q.Metric)); err != nil {
		return q, err
	}
	if q.TopN <= 0 {
		q.TopN = DefaultTopN
	}
	return q, nil
}

// Result holds the table view and the chart projections. Field, Metric and
// TopN are the effective selection after defaults.
type Result struct {
	Field    Field
	Metric   Metric
	TopN     int
	Total    int
	Table    []models.VideoRecord
	Charts   Charts
	Selected ChartData
	Warnings []string
}

// Run derives every view from the source records
func Run(records []models.VideoRecord, q Query) (Result, error) {
	q, err := q.normalize()
	if err != nil {
		return Result{}, err
	}

	table := Sort(Filter(records, q.Criteria), q.Sort)
	charts := ProjectAll(AggregateAll(table), q.TopN)
	return Result{
		Field:    q.Field,
		Metric:   q.Metric,
		TopN:     q.TopN,
		Total:    len(records),
		Table:    table,
		Charts:   charts,
		Selected: charts[q.Field][q.Metric],
		Warnings: q.Criteria.Problems(),
	}, nil
}

type filterKey struct {
	version  uint64
	criteria FilterCriteria
}

type sortKey struct {
	filter filterKey
	spec   SortSpec
	active bool
}

type chartsKey struct {
	sort sortKey
	topN int
}

// Pipeline runs the same stages as Run over a source collection, reusing each
// stage's last output while its own inputs are unchanged. It is safe for
// concurrent use.
type Pipeline struct {
	mu      sync.Mutex
	source  []models.VideoRecord
	version uint64

	filterKey filterKey
	hasFilter bool
	filtered  []models.VideoRecord

	sortKey sortKey
	hasSort bool
	sorted  []models.VideoRecord

	tablesKey sortKey
	hasTables bool
	tables    map[Field]*AggregateTable

	chartsKey chartsKey
	hasCharts bool
	charts    Charts

	runs stageRuns
}

// stageRuns counts how often each stage was recomputed
type stageRuns struct {
	filter, sort, aggregate, project int
}

// NewPipeline creates a pipeline over the given source records
func NewPipeline(records []models.VideoRecord) *Pipeline {
	p := &Pipeline{}
	p.SetSource(records)
	return p
}

// SetSource replaces the source collection, invalidating every stage
func (p *Pipeline) SetSource(records []models.VideoRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.source = append([]models.VideoRecord{}, records...)
	p.version++
	p.hasFilter, p.hasSort, p.hasTables, p.hasCharts = false, false, false, false
}

// Source returns a copy of the source collection
func (p *Pipeline) Source() []models.VideoRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.VideoRecord{}, p.source...)
}

// Run derives the views for q. The returned charts are shared and must not be
// modified.
func (p *Pipeline) Run(q Query) (Result, error) {
	q, err := q.normalize()
	if err != nil {
		return Result{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fk := filterKey{version: p.version, criteria: q.Criteria}
	if !p.hasFilter || p.filterKey != fk {
		p.filtered = Filter(p.source, q.Criteria)
		p.filterKey, p.hasFilter = fk, true
		p.runs.filter++
	}

	sk := sortKey{filter: fk}
	if q.Sort != nil {
		sk.spec, sk.active = *q.Sort, true
	}
	if !p.hasSort || p.sortKey != sk {
		p.sorted = Sort(p.filtered, q.Sort)
		p.sortKey, p.hasSort = sk, true
		p.runs.sort++
	}

	if !p.hasTables || p.tablesKey != sk {
		p.tables = AggregateAll(p.sorted)
		p.tablesKey, p.hasTables = sk, true
		p.runs.aggregate++
	}

	ck := chartsKey{sort: sk, topN: q.TopN}
	if !p.hasCharts || p.chartsKey != ck {
		p.charts = ProjectAll(p.tables, q.TopN)
		p.chartsKey, p.hasCharts = ck, true
		p.runs.project++
	}

	return Result{
		Field:    q.Field,
		Metric:   q.Metric,
		TopN:     q.TopN,
		Total:    len(p.source),
		Table:    append([]models.VideoRecord{}, p.sorted...),
		Charts:   p.charts,
		Selected: p.charts[q.Field][q.Metric],
		Warnings: q.Criteria.Problems(),
	}, nil
}
