package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func charge(date string, amount float64, merchant string) model.Transaction {
	txn := expense(date, amount, "Entertainment")
	txn.Merchant = merchant
	return txn
}

func TestDetectSubscriptions(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		charge("2025-03-10", 15.99, "Netflix"),
		charge("2025-04-10", 15.99, "Netflix"),
		charge("2025-05-10", 15.99, "Netflix"),
		// Two occurrences is coincidence, not a subscription.
		charge("2025-04-01", 9.99, "Spotify"),
		charge("2025-05-01", 9.99, "Spotify"),
		// Same merchant at a different price is a separate group.
		charge("2025-05-20", 22.99, "Netflix"),
	})

	subs := DetectSubscriptions(d, now)
	require.Len(t, subs, 1)

	s := subs[0]
	assert.Equal(t, "Netflix", s.Merchant)
	assert.Equal(t, 15.99, s.Amount)
	assert.Equal(t, 3, s.Frequency)
	assert.Equal(t, 191.88, s.AnnualCost)
	assert.Equal(t, "2025-05-10", s.LastCharged)
	assert.Equal(t, "active", s.Status)
}

func TestDetectSubscriptionsLapsed(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		charge("2025-01-05", 45, "Old Gym"),
		charge("2025-02-05", 45, "Old Gym"),
		charge("2025-03-05", 45, "Old Gym"),
	})

	// Last charge over sixty days before evaluation: treated as cancelled.
	assert.Empty(t, DetectSubscriptions(d, now))
}

func TestDetectSubscriptionsMerchantCaseInsensitive(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		charge("2025-03-10", 15.99, "NETFLIX"),
		charge("2025-04-10", 15.99, "netflix"),
		charge("2025-05-10", 15.99, "Netflix"),
	})

	subs := DetectSubscriptions(d, now)
	require.Len(t, subs, 1)
	// Display name comes from the first occurrence seen.
	assert.Equal(t, "NETFLIX", subs[0].Merchant)
	assert.Equal(t, 3, subs[0].Frequency)
}

func TestDetectSubscriptionsSkipsBlankMerchant(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		charge("2025-03-10", 15.99, ""),
		charge("2025-04-10", 15.99, ""),
		charge("2025-05-10", 15.99, "  "),
	})
	assert.Empty(t, DetectSubscriptions(d, now))
}

func TestDetectSubscriptionsSortedOutput(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		charge("2025-03-01", 9.99, "Spotify"),
		charge("2025-04-01", 9.99, "Spotify"),
		charge("2025-05-01", 9.99, "Spotify"),
		charge("2025-03-10", 15.99, "Netflix"),
		charge("2025-04-10", 15.99, "Netflix"),
		charge("2025-05-10", 15.99, "Netflix"),
	})

	subs := DetectSubscriptions(d, now)
	require.Len(t, subs, 2)
	assert.Equal(t, "Netflix", subs[0].Merchant)
	assert.Equal(t, "Spotify", subs[1].Merchant)
}
