// Package plans holds the subscription plan catalog. The same Catalog value is
// injected into plan listing and subscription creation.
package plans

import (
	"sort"

	"rentify_backend/internal/models"
)

type Plan struct {
	Tier         models.PlanTier `json:"id"`
	Name         string          `json:"name"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	DurationDays int             `json:"duration"`
	Features     []string        `json:"features"`
}

// Snapshot freezes the plan as sold.
func (p Plan) Snapshot() models.PlanSnapshot {
	return models.PlanSnapshot{
		Name:         p.Name,
		Price:        p.Price,
		Currency:     p.Currency,
		DurationDays: p.DurationDays,
		Features:     append([]string(nil), p.Features...),
	}
}

type Catalog struct {
	plans map[models.PlanTier]Plan
}

func NewCatalog(plans ...Plan) *Catalog {
	c := &Catalog{plans: make(map[models.PlanTier]Plan, len(plans))}
	for _, p := range plans {
		c.plans[p.Tier] = p
	}
	return c
}

// Default is the production catalog.
func Default() *Catalog {
	return NewCatalog(
		Plan{
			Tier:         models.PlanBasic,
			Name:         "Basic",
			Price:        299,
			Currency:     "INR",
			DurationDays: 30,
			Features: []string{
				"View owner contact details",
				"Unlimited property searches",
				"Email support",
			},
		},
		Plan{
			Tier:         models.PlanPremium,
			Name:         "Premium",
			Price:        799,
			Currency:     "INR",
			DurationDays: 90,
			Features: []string{
				"View owner contact details",
				"Unlimited property searches",
				"Priority listing alerts",
				"Priority support",
			},
		},
		Plan{
			Tier:         models.PlanEnterprise,
			Name:         "Enterprise",
			Price:        1999,
			Currency:     "INR",
			DurationDays: 365,
			Features: []string{
				"View owner contact details",
				"Unlimited property searches",
				"Priority listing alerts",
				"Dedicated account manager",
				"Phone support",
			},
		},
	)
}

func (c *Catalog) Get(tier models.PlanTier) (Plan, bool) {
	p, ok := c.plans[tier]
	if !ok {
		return Plan{}, false
	}
	return p.clone(), true
}

// List returns the plans ordered by price.
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// clone отдает копию: Features не должен делиться с каталогом.
func (p Plan) clone() Plan {
	p.Features = append([]string(nil), p.Features...)
	return p
}
