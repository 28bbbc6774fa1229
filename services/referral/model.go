package referral

import (
	"time"

	"growpreen/pkg/calendar"
)

type Status string

const StatusSuccess Status = "Success"

// Referral is an append-only log row.
type Referral struct {
	ID             string         `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	ReferrerUserID string         `gorm:"column:referrer_user_id;index:idx_referral_month;type:varchar(32)" json:"referrerUserId"`
	ReferredUserID string         `gorm:"column:referred_user_id;type:varchar(32)" json:"referredUserId"`
	Status         Status         `gorm:"column:status;index:idx_referral_month;type:varchar(16)" json:"status"`
	Month          calendar.Month `gorm:"column:month;index:idx_referral_month;type:varchar(7)" json:"month"`
	Source         Source         `gorm:"column:source;type:varchar(16)" json:"source"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"createdAt"`
}

// Source tells which entry point recorded the referral.
type Source string

const (
	SourceRegistration Source = "registration"
	SourceDirect       Source = "direct"
)

// Tier is the monthly salary bracket reached by a referral count.
type Tier struct {
	Threshold int
	Salary    int64
}

type Summary struct {
	Month                      string `json:"month"`
	Count                      int    `json:"count"`
	Salary                     int64  `json:"salary"`
	ReferralEarning            int64  `json:"referralEarning"`
	TotalMonthlyReferralIncome int64  `json:"totalMonthlyReferralIncome"`
	TotalCompleted             int    `json:"totalCompleted"`
}
