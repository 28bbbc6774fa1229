package testutil

import (
	"fmt"
	"sync/atomic"
)

// SeqIDs hands out predictable ids: <prefix>-1, <prefix>-2, ...
type SeqIDs struct {
	Prefix string
	n      atomic.Int64
}

func (s *SeqIDs) NewID() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}
