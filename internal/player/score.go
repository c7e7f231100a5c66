package player

import "math"

// metricFactor lifts the product of four sub-unit values into a readable range.
const metricFactor = 10000

// column order of the score matrix
const (
	colMinutes = iota
	colPoints
	colRebounds
	colAssists
	numCols
)

// Score computes the composite metric for every row of a cleaned table.
//
// Each player's (MIN, PTS, REB, AST) vector is scaled to unit length. Every
// column then gets an offset of one hundredth of its spread across players, and
// the metric is the product of the four offset values times 10000. Values only
// compare within one table. Rows missing statistics are left unscored.
func Score(t *Table) {
	if t.Len() == 0 {
		return
	}

	rows := make([]*Record, 0, len(t.Records))
	matrix := make([][numCols]float64, 0, len(t.Records))
	for _, r := range t.Records {
		if !r.HasStats() {
			continue
		}
		rows = append(rows, r)
		matrix = append(matrix, normalize([numCols]float64{
			colMinutes:  *r.Minutes,
			colPoints:   *r.Points,
			colRebounds: *r.Rebounds,
			colAssists:  *r.Assists,
		}))
	}
	if len(rows) == 0 {
		return
	}

	scale := columnScale(matrix)
	for i, r := range rows {
		v := matrix[i]
		metric := (v[colPoints] + scale[colPoints]) *
			(v[colMinutes] + scale[colMinutes]) *
			(v[colRebounds] + scale[colRebounds]) *
			(v[colAssists] + scale[colAssists]) *
			metricFactor
		r.Metric = Float(metric)
	}
}

// normalize scales v to unit Euclidean norm. A zero vector is returned as is.
func normalize(v [numCols]float64) [numCols]float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// columnScale returns (max - min) / 100 for each column.
func columnScale(matrix [][numCols]float64) [numCols]float64 {
	lo := matrix[0]
	hi := matrix[0]
	for _, row := range matrix[1:] {
		for c, x := range row {
			lo[c] = math.Min(lo[c], x)
			hi[c] = math.Max(hi[c], x)
		}
	}

	var scale [numCols]float64
	for c := range scale {
		scale[c] = (hi[c] - lo[c]) / 100
	}
	return scale
}
