package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/tbeaudouin05/otmens-intake/pkg/money"
)

// GetProduct fetches the configured product and its active prices, sorted
// for display and labelled.
func (s *serviceImpl) GetProduct(ctx context.Context) (Product, error) {
	if err := s.requireGateway(); err != nil {
		return Product{}, err
	}
	prod, err := s.gw.GetProduct(ctx, s.catalog.ProductID)
	if err != nil {
		return Product{}, gatewayError("retrieve product", err)
	}
	prices, err := s.gw.ListActivePrices(ctx, s.catalog.ProductID)
	if err != nil {
		return Product{}, gatewayError("list prices", err)
	}

	sortPrices(prices, s.catalog.PriceOrder)

	image := s.catalog.FallbackImage
	if len(prod.Images) > 0 && prod.Images[0] != "" {
		image = prod.Images[0]
	}
	return Product{
		ID:          prod.ID,
		Name:        prod.Name,
		Description: prod.Description,
		Image:       image,
		Prices:      buildPriceOptions(prices),
	}, nil
}

// sortPrices orders prices listed in order first, in that order; the rest
// follow by ascending interval count.
func sortPrices(prices []stripe.Price, order []string) {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(prices, func(i, j int) bool {
		ri, iok := rank[prices[i].ID]
		rj, jok := rank[prices[j].ID]
		if iok && jok {
			return ri < rj
		}
		return intervalCount(prices[i]) < intervalCount(prices[j])
	})
}

func buildPriceOptions(prices []stripe.Price) []PriceOption {
	var monthly *stripe.Price
	for i := range prices {
		if monthsSpanned(prices[i]) == 1 {
			monthly = &prices[i]
			break
		}
	}

	out := make([]PriceOption, 0, len(prices))
	for _, p := range prices {
		opt := PriceOption{
			ID:            p.ID,
			UnitAmount:    p.UnitAmount,
			Currency:      string(p.Currency),
			Interval:      "one_time",
			IntervalCount: intervalCount(p),
			Nickname:      p.Nickname,
			Label:         PriceLabel(p),
			DisplayAmount: money.Format(p.UnitAmount, string(p.Currency)),
		}
		if p.Recurring != nil {
			opt.Interval = string(p.Recurring.Interval)
		}
		if n := monthsSpanned(p); n > 1 {
			opt.MonthlyAmount = decimal.NewFromInt(p.UnitAmount).Div(decimal.NewFromInt(n)).Round(0).IntPart()
			if monthly != nil {
				opt.SavingsPercent = SavingsPercent(monthly.UnitAmount, n, p.UnitAmount)
			}
		}
		out = append(out, opt)
	}
	return out
}

// SavingsPercent is round((monthly*months - price) / (monthly*months) * 100),
// or 0 when that is not positive.
func SavingsPercent(monthlyAmount, months, price int64) int64 {
	full := decimal.NewFromInt(monthlyAmount).Mul(decimal.NewFromInt(months))
	if !full.IsPositive() {
		return 0
	}
	pct := full.Sub(decimal.NewFromInt(price)).Div(full).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct <= 0 {
		return 0
	}
	return pct
}

// PriceLabel is the human label shown next to a price.
func PriceLabel(p stripe.Price) string {
	if p.Recurring == nil {
		return "One-time payment"
	}
	count := p.Recurring.IntervalCount
	switch p.Recurring.Interval {
	case stripe.PriceRecurringIntervalMonth:
		if count == 1 {
			return "Monthly"
		}
		return fmt.Sprintf("Every %d months", count)
	case stripe.PriceRecurringIntervalYear:
		if count == 1 {
			return "Yearly"
		}
		return fmt.Sprintf("Every %d years", count)
	}
	return fmt.Sprintf("Every %d %s(s)", count, p.Recurring.Interval)
}

func intervalCount(p stripe.Price) int64 {
	if p.Recurring == nil || p.Recurring.IntervalCount == 0 {
		return 1
	}
	return p.Recurring.IntervalCount
}

// monthsSpanned is the number of months one billing period covers, or 0
// for one-time and sub-monthly prices.
func monthsSpanned(p stripe.Price) int64 {
	if p.Recurring == nil {
		return 0
	}
	switch p.Recurring.Interval {
	case stripe.PriceRecurringIntervalMonth:
		return intervalCount(p)
	case stripe.PriceRecurringIntervalYear:
		return 12 * intervalCount(p)
	}
	return 0
}
