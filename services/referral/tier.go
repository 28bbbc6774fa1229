package referral

import (
	"sort"

	"growpreen/pkg/config"
)

// Tiers returns the program's salary brackets, highest threshold first.
func Tiers(p config.Program) []Tier {
	tiers := []Tier{
		{Threshold: p.TierOneThreshold, Salary: p.TierOneBonus},
		{Threshold: p.TierTwoThreshold, Salary: p.TierTwoBonus},
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold > tiers[j].Threshold })
	return tiers
}

// ComputeTier derives the monthly referral income for count successful referrals.
func ComputeTier(count int, p config.Program) Summary {
	var salary int64
	for _, t := range Tiers(p) {
		if t.Threshold > 0 && count >= t.Threshold {
			salary = t.Salary
			break
		}
	}
	earning := int64(count) * p.ReferralRate
	return Summary{
		Count:                      count,
		Salary:                     salary,
		ReferralEarning:            earning,
		TotalMonthlyReferralIncome: earning + salary,
	}
}
