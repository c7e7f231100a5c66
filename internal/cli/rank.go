package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

// Metric is the column players are ranked by.
type Metric string

const (
	MetricScore  Metric = "metric"
	MetricSalary Metric = "salary"
)

// ErrInvalidMetric is returned for an unknown ranking metric.
var ErrInvalidMetric = errors.New("invalid metric")

// ParseMetric validates a --metric value. Empty means MetricScore.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MetricScore:
		return MetricScore, nil
	case MetricSalary:
		return MetricSalary, nil
	default:
		return "", fmt.Errorf("%w: %q (must be 'metric' or 'salary')", ErrInvalidMetric, s)
	}
}

// value returns the ranking value of r, or false when it is absent.
func (m Metric) value(r *player.Record) (float64, bool) {
	switch m {
	case MetricSalary:
		if r.Salary == nil {
			return 0, false
		}
		return float64(*r.Salary), true
	default:
		if r.Metric == nil {
			return 0, false
		}
		return *r.Metric, true
	}
}

// Rank returns up to n records of t in descending order of m. Records
// without a value for m are left out. Ties keep table order.
func Rank(t *player.Table, m Metric, n int) []*player.Record {
	if t.Len() == 0 || n <= 0 {
		return nil
	}

	type entry struct {
		record *player.Record
		value  float64
	}
	entries := make([]entry, 0, t.Len())
	for _, r := range t.Records {
		if v, ok := m.value(r); ok {
			entries = append(entries, entry{record: r, value: v})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	ranked := make([]*player.Record, len(entries))
	for i, e := range entries {
		ranked[i] = e.record
	}
	return ranked
}
