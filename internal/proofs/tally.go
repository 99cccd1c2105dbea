package proofs

// Counts groups a collection by status.
// Verified+Pending+Rejected+Unknown always equals Total.
type Counts struct {
	Verified int `json:"verified"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
	Unknown  int `json:"unknown"`
	Total    int `json:"total"`
}

// Add counts one record with status s.
func (c *Counts) Add(s Status) {
	c.Total++
	switch s {
	case StatusVerified:
		c.Verified++
	case StatusPending:
		c.Pending++
	case StatusRejected:
		c.Rejected++
	default:
		c.Unknown++
	}
}

// Tally counts records by the status statusOf returns, using exact equality.
func Tally[T any](records []T, statusOf func(T) Status) Counts {
	var c Counts
	for _, r := range records {
		c.Add(statusOf(r))
	}
	return c
}

// TallyProofs counts proofs by status.
func TallyProofs(ps []Proof) Counts {
	return Tally(ps, func(p Proof) Status { return p.Status })
}

// TallyFarmers counts farmer records by status.
func TallyFarmers(fs []FarmerRecord) Counts {
	return Tally(fs, func(f FarmerRecord) Status { return f.Status })
}
