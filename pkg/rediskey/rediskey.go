package rediskey

import "fmt"

const (
	LockPrefix     = "lock"
	LedgerUserLock = "ledger:user"
	SequencePrefix = "seq"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildUserLockKey returns "ledger:user:{userID}"
func BuildUserLockKey(userID string) string {
	return NamespaceKey(LedgerUserLock, userID)
}

// BuildLockKey returns "lock:{key}"
func BuildLockKey(key string) string {
	return NamespaceKey(LockPrefix, key)
}

// BuildSequenceKey returns "seq:{name}"
func BuildSequenceKey(name string) string {
	return NamespaceKey(SequencePrefix, name)
}
