package player

// Record is one row of the unified player table.
// Nil pointers mark absent values, which are distinct from zero.
type Record struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Team       string   `json:"team"`
	SalaryText string   `json:"-"` // raw roster text, consumed by Clean
	Salary     *int64   `json:"salary"`
	Minutes    *float64 `json:"MIN"`
	Points     *float64 `json:"PTS"`
	Rebounds   *float64 `json:"REB"`
	Assists    *float64 `json:"AST"`
	Metric     *float64 `json:"metric"`
}

// HasStats reports whether all four statistical fields are present.
func (r *Record) HasStats() bool {
	return r.Minutes != nil && r.Points != nil && r.Rebounds != nil && r.Assists != nil
}

// Stats holds a player's career per-game line.
type Stats struct {
	Minutes  float64
	Points   float64
	Rebounds float64
	Assists  float64
}

// SetStats copies s into the record's statistical fields.
func (r *Record) SetStats(s Stats) {
	r.Minutes = Float(s.Minutes)
	r.Points = Float(s.Points)
	r.Rebounds = Float(s.Rebounds)
	r.Assists = Float(s.Assists)
}

// Table is the ordered collection of player records for one run.
type Table struct {
	Records []*Record `json:"records"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IDs returns the player ids in row order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, t.Len())
	for _, r := range t.Records {
		ids = append(ids, r.ID)
	}
	return ids
}

// Find returns the record with the given id, or nil.
func (t *Table) Find(id string) *Record {
	for _, r := range t.Records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int64) *int64 {
	return &v
}
