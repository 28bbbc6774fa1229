package ledger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// User owns the balance fields. Only this package writes them.
type User struct {
	ID                 string    `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	Mobile             string    `gorm:"column:mobile;uniqueIndex;type:varchar(20);not null" json:"mobile"`
	PasswordHash       string    `gorm:"column:password_hash" json:"-"`
	Name               string    `gorm:"column:name" json:"name"`
	Age                int       `gorm:"column:age" json:"age,omitempty"`
	Gender             string    `gorm:"column:gender" json:"gender,omitempty"`
	Qualification      string    `gorm:"column:qualification" json:"qualification,omitempty"`
	Approved           bool      `gorm:"column:approved" json:"approved"`
	IsNewUser          bool      `gorm:"column:is_new_user" json:"isNewUser"`
	DailyEarning       int64     `gorm:"column:daily_earning" json:"dailyEarning"`
	MonthlyEarning     int64     `gorm:"column:monthly_earning" json:"monthlyEarning"`
	TotalEarning       int64     `gorm:"column:total_earning" json:"totalEarning"`
	ReferralsCompleted int       `gorm:"column:referrals_completed" json:"referralsCompleted"`
	ReelTaskUnlocked   bool      `gorm:"column:reel_task_unlocked" json:"reelTaskUnlocked"`
	MyRefCode          string    `gorm:"column:my_ref_code;uniqueIndex;type:varchar(16)" json:"myRefCode"`
	Payout             Payout    `gorm:"embedded;embeddedPrefix:payout_" json:"payout"`
	Version            int64     `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

type PayoutMethod string

const (
	PayoutUPI  PayoutMethod = "UPI"
	PayoutBank PayoutMethod = "BANK"
)

// Payout is the user's withdrawal destination.
type Payout struct {
	Method        PayoutMethod `gorm:"column:method" json:"method"`
	UpiName       string       `gorm:"column:upi_name" json:"upiName,omitempty"`
	UpiMobile     string       `gorm:"column:upi_mobile" json:"upiMobile,omitempty"`
	UpiID         string       `gorm:"column:upi_id" json:"upiId,omitempty"`
	BankName      string       `gorm:"column:bank_name" json:"bankName,omitempty"`
	AccountNumber string       `gorm:"column:account_number" json:"accountNumber,omitempty"`
	IFSC          string       `gorm:"column:ifsc" json:"ifsc,omitempty"`
	AccountHolder string       `gorm:"column:account_holder" json:"accountHolder,omitempty"`
}

type EntryType string

const (
	EntryCredit       EntryType = "CREDIT"
	EntryDebit        EntryType = "DEBIT"
	EntryResetDaily   EntryType = "RESET_DAILY"
	EntryResetMonthly EntryType = "RESET_MONTHLY"
)

const genesisHash = "GENESIS"

// LedgerEntry is an append-only, hash-chained record of one balance mutation.
type LedgerEntry struct {
	ID            string         `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	UserID        string         `gorm:"column:user_id;uniqueIndex:idx_ledger_user_seq;type:varchar(32)" json:"userId"`
	Seq           int64          `gorm:"column:seq;uniqueIndex:idx_ledger_user_seq" json:"seq"`
	Type          EntryType      `gorm:"column:type" json:"type"`
	Amount        int64          `gorm:"column:amount" json:"amount"`
	BalanceAfter  int64          `gorm:"column:balance_after" json:"balanceAfter"`
	TransactionID string         `gorm:"column:transaction_id" json:"transactionId"`
	ReferenceID   string         `gorm:"column:reference_id;index" json:"referenceId,omitempty"`
	Description   string         `gorm:"column:description" json:"description,omitempty"`
	PreviousHash  string         `gorm:"column:previous_hash" json:"previousHash"`
	Hash          string         `gorm:"column:hash" json:"hash"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (m *LedgerEntry) HashFields() map[string]string {
	return map[string]string{
		"id":             m.ID,
		"user_id":        m.UserID,
		"seq":            fmt.Sprintf("%d", m.Seq),
		"type":           string(m.Type),
		"amount":         fmt.Sprintf("%d", m.Amount),
		"balance_after":  fmt.Sprintf("%d", m.BalanceAfter),
		"transaction_id": m.TransactionID,
		"reference_id":   m.ReferenceID,
		"description":    m.Description,
		"created_at":     m.CreatedAt.UTC().Format(time.RFC3339Nano),
		"previous_hash":  m.PreviousHash,
	}
}

func (m *LedgerEntry) GenerateHash() string {
	fields := m.HashFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

// GenerateTransactionID returns YYYYMMDD-XXXXXX.
func GenerateTransactionID(now time.Time) (string, error) {
	r := make([]byte, 3)
	if _, err := rand.Read(r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(r))), nil
}

// Balance is the read model returned to callers.
type Balance struct {
	UserID         string `json:"userId"`
	DailyEarning   int64  `json:"dailyEarning"`
	MonthlyEarning int64  `json:"monthlyEarning"`
	TotalEarning   int64  `json:"totalEarning"`
}

// ChainReport is the outcome of re-hashing a user's entries.
type ChainReport struct {
	UserID   string `json:"userId"`
	Entries  int    `json:"entries"`
	Valid    bool   `json:"valid"`
	BrokenAt int64  `json:"brokenAt,omitempty"`
}
