package proofs

import "time"

// DateLayout is the storage format of Proof.Date.
const DateLayout = "2006-01-02"

// Proof is one recorded verification outcome.
type Proof struct {
	ID      string `json:"id"`
	Crop    string `json:"crop"`
	Status  Status `json:"status"`
	Date    string `json:"date"`
	ProofID string `json:"proof_id"`
}

// DisplayDate renders Date for the proof history table. Unparseable dates are
// shown as stored.
func (p Proof) DisplayDate() string {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return p.Date
	}
	return t.Format("1/2/2006")
}

// FarmerRecord is one row of the dashboard farmer table.
type FarmerRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Crop    string `json:"crop"`
	Status  Status `json:"status"`
	ProofID string `json:"proof_id"`
}
