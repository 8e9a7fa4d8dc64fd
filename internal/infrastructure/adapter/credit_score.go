package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
)

// MaxCreditScore is the top of the credit proxy scale; scores lie in [0, MaxCreditScore].
const MaxCreditScore = 1000

// ---------------------------------------------------------------------------
// Random provider – the production stub
// ---------------------------------------------------------------------------

// RandomCreditScoreProvider draws a uniform score per call. There is no
// bureau behind it; the number only drives the underwriting thresholds.
// It implements port.CreditScoreProvider.
type RandomCreditScoreProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomCreditScoreProvider creates a provider seeded with seed. A zero
// seed uses the current time.
func NewRandomCreditScoreProvider(seed int64) *RandomCreditScoreProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomCreditScoreProvider{rnd: rand.New(rand.NewSource(seed))}
}

// Score returns a value in [0, MaxCreditScore].
func (p *RandomCreditScoreProvider) Score(ctx context.Context, applicantID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if applicantID == "" {
		return 0, apperr.Validation("applicant ID is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(MaxCreditScore + 1), nil
}

// ---------------------------------------------------------------------------
// Hash provider – deterministic, for demos and repeatable environments
// ---------------------------------------------------------------------------

// HashCreditScoreProvider derives a stable score from the applicant ID so
// the same customer always lands in the same band.
// It implements port.CreditScoreProvider.
type HashCreditScoreProvider struct{}

// NewHashCreditScoreProvider creates the deterministic provider.
func NewHashCreditScoreProvider() *HashCreditScoreProvider {
	return &HashCreditScoreProvider{}
}

// Score returns a value in [0, MaxCreditScore] based on a hash of applicantID.
func (HashCreditScoreProvider) Score(_ context.Context, applicantID string) (int, error) {
	if applicantID == "" {
		return 0, apperr.Validation("applicant ID is required")
	}
	h := sha256.Sum256([]byte(applicantID))
	return int(binary.BigEndian.Uint32(h[:4]) % (MaxCreditScore + 1)), nil
}

// NewCreditScoreProvider picks the provider named in configuration.
func NewCreditScoreProvider(name string, seed int64) (port.CreditScoreProvider, error) {
	switch name {
	case "", "random":
		return NewRandomCreditScoreProvider(seed), nil
	case "hash":
		return NewHashCreditScoreProvider(), nil
	default:
		return nil, fmt.Errorf("unknown credit score provider %q", name)
	}
}
