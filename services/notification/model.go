package notification

import "time"

type Type string

const (
	TypeTaskApproved       Type = "TaskApproved"
	TypeTaskRejected       Type = "TaskRejected"
	TypeWithdrawalApproved Type = "WithdrawalApproved"
	TypeWithdrawalRejected Type = "WithdrawalRejected"
	TypeReferralRecorded   Type = "ReferralRecorded"
)

func (t Type) String() string {
	switch t {
	case TypeTaskApproved, TypeTaskRejected, TypeWithdrawalApproved,
		TypeWithdrawalRejected, TypeReferralRecorded:
		return string(t)
	default:
		return "Unknown"
	}
}

type Notification struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	UserID    string    `gorm:"column:user_id;index;type:varchar(32)" json:"userId"`
	Type      Type      `gorm:"column:type" json:"type"`
	Message   string    `gorm:"column:message" json:"message"`
	IsRead    bool      `gorm:"column:is_read" json:"isRead"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
}

// AppendPayload is the queued form of a notification.
type AppendPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p AppendPayload) notification() *Notification {
	return &Notification{
		ID:        p.ID,
		UserID:    p.UserID,
		Type:      p.Type,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
	}
}
