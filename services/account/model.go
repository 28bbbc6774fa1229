package account

import "growpreen/services/ledger"

type RegisterParams struct {
	Mobile        string `json:"mobile"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Qualification string `json:"qualification"`
}

type LoginParams struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// Profile is what a member sees about themselves.
type Profile struct {
	ID                 string `json:"id"`
	Mobile             string `json:"mobile"`
	Name               string `json:"name"`
	DailyEarning       int64  `json:"dailyEarning"`
	MonthlyEarning     int64  `json:"monthlyEarning"`
	TotalEarning       int64  `json:"totalEarning"`
	ReferralsCompleted int    `json:"referralsCompleted"`
	ReelTaskUnlocked   bool   `json:"reelTaskUnlocked"`
	IsNewUser          bool   `json:"isNewUser"`
	MyRefCode          string `json:"myRefCode"`
}

func profileOf(u *ledger.User) *Profile {
	return &Profile{
		ID:                 u.ID,
		Mobile:             u.Mobile,
		Name:               u.Name,
		DailyEarning:       u.DailyEarning,
		MonthlyEarning:     u.MonthlyEarning,
		TotalEarning:       u.TotalEarning,
		ReferralsCompleted: u.ReferralsCompleted,
		ReelTaskUnlocked:   u.ReelTaskUnlocked,
		IsNewUser:          u.IsNewUser,
		MyRefCode:          u.MyRefCode,
	}
}

// Summary is the admin dashboard header.
type Summary struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalUserBalance   int64 `json:"totalUserBalance"`
	PendingPayments    int64 `json:"pendingPayments"`
	PendingWithdrawals int64 `json:"pendingWithdrawals"`
}
