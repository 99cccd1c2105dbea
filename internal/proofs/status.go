// Package proofs provides the read-only proof history and farmer status views
// and the data sources behind them.
package proofs

// Status is the verification status of a proof or farmer record.
// Values outside the three known ones are kept verbatim and shown neutrally.
type Status string

const (
	StatusVerified Status = "verified"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Known reports whether s is one of the three named statuses.
func (s Status) Known() bool {
	switch s {
	case StatusVerified, StatusPending, StatusRejected:
		return true
	default:
		return false
	}
}

// BadgeInfo is how a status is presented in a table row.
type BadgeInfo struct {
	Label string
	Icon  string
	Class string
}

// Badge returns the presentation of s. Unknown statuses get the neutral
// placeholder icon and no label.
func Badge(s Status) BadgeInfo {
	switch s {
	case StatusVerified:
		return BadgeInfo{Label: "Verified", Icon: "🟢", Class: "status-verified"}
	case StatusPending:
		return BadgeInfo{Label: "Pending", Icon: "🟡", Class: "status-pending"}
	case StatusRejected:
		return BadgeInfo{Label: "Rejected", Icon: "🔴", Class: "status-warning"}
	default:
		return BadgeInfo{Icon: "⚪", Class: "status-unknown"}
	}
}
