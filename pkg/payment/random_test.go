package payment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaxsoft/orderflow/pkg/payment"
)

func TestRandom_ChargeOutcomes(t *testing.T) {
	t.Parallel()

	provider := payment.NewRandom(42)
	ctx := context.Background()

	successes := 0

	const attempts = 1000

	for range attempts {
		result, err := provider.Charge(ctx, "ord-1", 59.98)
		require.NoError(t, err)

		if result.Success {
			successes++

			assert.True(t, strings.HasPrefix(result.TransactionID, "txn-"))
		} else {
			assert.Empty(t, result.TransactionID)
		}
	}

	// The coin flip should land near 50% over enough attempts.
	assert.Greater(t, successes, attempts*4/10)
	assert.Less(t, successes, attempts*6/10)
}

func TestRandom_TransactionIDsAreUnique(t *testing.T) {
	t.Parallel()

	provider := payment.NewRandom(7)
	ctx := context.Background()

	seen := make(map[string]bool)

	for range 100 {
		result, err := provider.Charge(ctx, "ord-1", 10)
		require.NoError(t, err)

		if !result.Success {
			continue
		}

		assert.False(t, seen[result.TransactionID], "duplicate transaction id %s", result.TransactionID)
		seen[result.TransactionID] = true
	}
}

func TestStatic_Charge(t *testing.T) {
	t.Parallel()

	provider := &payment.Static{Result: payment.Result{Success: true, TransactionID: "txn-static"}}

	result, err := provider.Charge(context.Background(), "ord-1", 10)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "txn-static", result.TransactionID)
}
