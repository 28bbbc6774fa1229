package payment

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseStatus accepts only the three payment states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	default:
		return "", false
	}
}

// StatusAll lists every payment regardless of state.
const StatusAll = "All"

type Payment struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	Mobile     string     `gorm:"column:mobile;index;type:varchar(20)" json:"mobile"`
	Amount     int64      `gorm:"column:amount" json:"amount"`
	UTR        string     `gorm:"column:utr" json:"utr"`
	RefCode    string     `gorm:"column:ref_code;type:varchar(16)" json:"refCode,omitempty"`
	Status     Status     `gorm:"column:status;index;type:varchar(16)" json:"status"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	RejectedAt *time.Time `gorm:"column:rejected_at" json:"rejectedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

type CreateParams struct {
	Mobile  string `json:"mobile"`
	Amount  int64  `json:"amount"`
	UTR     string `json:"utr"`
	RefCode string `json:"refCode"`
}
