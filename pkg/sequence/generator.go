package sequence

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"growpreen/pkg/config"
	"growpreen/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ReferralCodeLength is the length of every issued referral code.
const ReferralCodeLength = 8

const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var Module = fx.Module("sequence",
	fx.Provide(New),
)

// Generator issues referral codes. Callers still check uniqueness against storage.
type Generator interface {
	NextReferralCode(ctx context.Context) (string, error)
}

type Params struct {
	fx.In

	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

func New(p Params) Generator {
	if p.Config.Redis.Enable && p.Redis != nil {
		return NewRedisGenerator(p.Redis)
	}
	return RandomGenerator{}
}

// RandomGenerator draws every character at random.
type RandomGenerator struct{}

func (RandomGenerator) NextReferralCode(ctx context.Context) (string, error) {
	return randomAlphaNumeric(ReferralCodeLength)
}

// RedisGenerator prefixes a shared counter so replicas never collide on the prefix.
type RedisGenerator struct {
	rdb *redis.Client
}

func NewRedisGenerator(rdb *redis.Client) *RedisGenerator {
	return &RedisGenerator{rdb: rdb}
}

func (g *RedisGenerator) NextReferralCode(ctx context.Context) (string, error) {
	seq, err := g.rdb.Incr(ctx, rediskey.BuildSequenceKey("referral")).Result()
	if err != nil {
		return "", err
	}

	// base36 counter, at least 4 and at most 6 characters, the rest random
	encoded := strings.ToUpper(strconv.FormatInt(seq, 36))
	if len(encoded) < 4 {
		encoded = strings.Repeat("0", 4-len(encoded)) + encoded
	}
	if len(encoded) > ReferralCodeLength-2 {
		encoded = encoded[len(encoded)-(ReferralCodeLength-2):]
	}

	suffix, err := randomAlphaNumeric(ReferralCodeLength - len(encoded))
	if err != nil {
		return "", err
	}
	return encoded + suffix, nil
}

func randomAlphaNumeric(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		b[i] = chars[num.Int64()]
	}
	return string(b), nil
}
