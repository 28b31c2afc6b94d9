package analytics

import (
	"sort"
	"strings"
	"time"
)

// subscriptionRecencyDays is how recently a group must have charged to be
// considered an active subscription rather than a lapsed one.
const subscriptionRecencyDays = 60

// Subscription is a recurring same-merchant, same-amount charge that is
// still active.
type Subscription struct {
	Merchant    string  `json:"merchant"`
	Amount      float64 `json:"amount"`
	Frequency   int     `json:"frequency"`
	AnnualCost  float64 `json:"annual_cost"`
	LastCharged string  `json:"last_charged"`
	Status      string  `json:"status"`
}

// DetectSubscriptions groups transactions by (merchant, amount) and reports
// groups with 3 or more occurrences whose latest charge is within 60 days
// of the evaluation time. Older groups are treated as lapsed and dropped.
func DetectSubscriptions(d *Dataset, now time.Time) []Subscription {
	type groupKey struct {
		merchant string
		amount   float64
	}
	type group struct {
		merchant string
		count    int
		last     time.Time
	}

	groups := make(map[groupKey]*group)
	for _, t := range d.Transactions {
		merchant := strings.TrimSpace(t.Merchant)
		if merchant == "" {
			continue
		}
		key := groupKey{merchant: strings.ToLower(merchant), amount: t.Amount}
		g, ok := groups[key]
		if !ok {
			g = &group{merchant: merchant}
			groups[key] = g
		}
		g.count++
		if t.Date.After(g.last) {
			g.last = t.Date
		}
	}

	var active []Subscription
	for key, g := range groups {
		if g.count < 3 {
			continue
		}
		if now.Sub(g.last).Hours()/24 >= subscriptionRecencyDays {
			continue
		}
		active = append(active, Subscription{
			Merchant:    g.merchant,
			Amount:      round2(key.amount),
			Frequency:   g.count,
			AnnualCost:  round2(key.amount * 12),
			LastCharged: g.last.Format("2006-01-02"),
			Status:      "active",
		})
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Merchant != active[j].Merchant {
			return active[i].Merchant < active[j].Merchant
		}
		return active[i].Amount < active[j].Amount
	})
	return active
}
