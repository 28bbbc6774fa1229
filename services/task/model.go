package task

import (
	"time"

	"growpreen/pkg/calendar"

	"gorm.io/datatypes"
)

// Period controls how often a template can be completed.
type Period string

const (
	PeriodDaily   Period = "Daily"
	PeriodMonthly Period = "Monthly"
	PeriodOneTime Period = "OneTime"
)

func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "":
		return PeriodOneTime, true
	case PeriodDaily, PeriodMonthly, PeriodOneTime:
		return Period(s), true
	default:
		return "", false
	}
}

const DefaultActionType = "OTHER"

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

// Kind separates template-backed submissions from the daily reel.
type Kind string

const (
	KindTemplate Kind = "Template"
	KindReel     Kind = "Reel"
)

type Template struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	Title        string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	RewardAmount int64     `gorm:"column:reward_amount" json:"rewardAmount"`
	Period       Period    `gorm:"column:period;type:varchar(16)" json:"period"`
	ActionType   string    `gorm:"column:action_type;type:varchar(64)" json:"actionType"`
	IsActive     bool      `gorm:"column:is_active;index" json:"isActive"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Template) TableName() string { return "task_templates" }

type Proof struct {
	Link       string `json:"link,omitempty"`
	Screenshot string `json:"screenshotUrl,omitempty"`
	Note       string `json:"note,omitempty"`
}

// Submission is one attempt at a task. RewardAmount stays 0 for template tasks
// until approval resolves it from the template.
type Submission struct {
	ID           string                    `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	UserID       string                    `gorm:"column:user_id;index:idx_submission_user_day;type:varchar(32)" json:"userId"`
	TemplateID   *string                   `gorm:"column:template_id;type:varchar(32)" json:"taskTemplateId,omitempty"`
	Type         Kind                      `gorm:"column:type;index:idx_submission_user_day;type:varchar(16)" json:"type"`
	Period       Period                    `gorm:"column:period;type:varchar(16)" json:"period,omitempty"`
	Status       Status                    `gorm:"column:status;index;type:varchar(16)" json:"status"`
	RewardAmount int64                     `gorm:"column:reward_amount" json:"rewardAmount"`
	Proof        datatypes.JSONType[Proof] `gorm:"column:proof" json:"proof"`
	Date         calendar.Day              `gorm:"column:date;index:idx_submission_user_day;type:varchar(10)" json:"date"`
	CreatedAt    time.Time                 `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at" json:"updatedAt"`
}

func (Submission) TableName() string { return "task_submissions" }

type TemplateParams struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	RewardAmount int64  `json:"rewardAmount"`
	Period       string `json:"period"`
	ActionType   string `json:"actionType"`
}

// ReelStatus reports whether the daily reel can be submitted and what happened to today's.
type ReelStatus struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
}

// ReelStatusNone is reported when no reel was submitted today.
const ReelStatusNone = "none"

// SubmissionView is a submission decorated for the admin review queue.
type SubmissionView struct {
	*Submission
	UserName   string `json:"userName"`
	UserMobile string `json:"userMobile"`
	TaskTitle  string `json:"taskTitle"`
}
