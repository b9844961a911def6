package sync

// UpsertStats counts the outcome of an idempotent upsert pass over one
// page or batch of remote records
type UpsertStats struct {
	Created int
	Updated int
	Skipped int
}

// Add accumulates another pass into the receiver
func (s *UpsertStats) Add(other UpsertStats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
}

// Total returns the number of records examined
func (s UpsertStats) Total() int {
	return s.Created + s.Updated + s.Skipped
}
