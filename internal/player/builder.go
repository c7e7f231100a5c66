package player

// Builder accumulates roster rows in insertion order and joins career
// statistics onto them in one pass.
type Builder struct {
	records []*Record
	index   map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Add appends r unless a row with the same id was already added.
// It reports whether the row was added.
func (b *Builder) Add(r *Record) bool {
	if _, exists := b.index[r.ID]; exists {
		return false
	}
	b.index[r.ID] = len(b.records)
	b.records = append(b.records, r)
	return true
}

// Len returns the number of rows added so far.
func (b *Builder) Len() int {
	return len(b.records)
}

// Records returns the rows in insertion order.
func (b *Builder) Records() []*Record {
	return b.records
}

// JoinStats left-joins stats onto the accumulated rows by player id.
// Rows without an entry keep nil statistics. It returns the number of rows matched.
func (b *Builder) JoinStats(stats map[string]Stats) int {
	matched := 0
	for id, s := range stats {
		i, ok := b.index[id]
		if !ok {
			continue
		}
		b.records[i].SetStats(s)
		matched++
	}
	return matched
}

// Table returns the accumulated rows as a Table.
func (b *Builder) Table() *Table {
	records := make([]*Record, len(b.records))
	copy(records, b.records)
	return &Table{Records: records}
}
