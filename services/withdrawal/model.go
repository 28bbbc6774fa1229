package withdrawal

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	default:
		return "", false
	}
}

// Withdrawal is a payout request. Its amount leaves the balance when the request is made.
type Withdrawal struct {
	ID          string     `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	UserID      string     `gorm:"column:user_id;index;type:varchar(32)" json:"userId"`
	Amount      int64      `gorm:"column:amount" json:"amount"`
	Method      string     `gorm:"column:method;type:varchar(32)" json:"method"`
	Details     string     `gorm:"column:details;type:text" json:"details"`
	Status      Status     `gorm:"column:status;index;type:varchar(16)" json:"status"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

type RequestParams struct {
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	Details string `json:"details"`
}
