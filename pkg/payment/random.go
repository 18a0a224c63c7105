package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Random is the reference provider: a coin flip with 50% success probability,
// standing in for a real payment gateway with the same contract.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (p *Random) Charge(_ context.Context, _ string, _ float64) (Result, error) {
	p.mu.Lock()
	success := p.rnd.Float64() >= 0.5
	p.mu.Unlock()

	if !success {
		return Result{}, nil
	}

	return Result{
		Success:       success,
		TransactionID: fmt.Sprintf("txn-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8]),
	}, nil
}
