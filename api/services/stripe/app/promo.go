package app

import (
	"context"
	"log/slog"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
)

// ValidatePromo looks up an active promotion code and checks its coupon.
// The first failing check decides the error string. It never returns an error.
func (s *serviceImpl) ValidatePromo(ctx context.Context, code string) PromoResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return PromoResult{Error: "No code provided"}
	}
	if s.gw == nil {
		slog.Error("promo validation without stripe gateway")
		return PromoResult{Error: "Failed to validate code"}
	}

	promo, found, err := s.lookupPromotionCode(ctx, code)
	if err != nil {
		slog.Error("error validating promo code", "err", err)
		return PromoResult{Error: "Failed to validate code"}
	}
	if !found {
		return PromoResult{Error: "Code not found"}
	}

	if promo.Coupon == nil || promo.Coupon.ID == "" {
		return PromoResult{Error: "Coupon not found"}
	}
	coupon := *promo.Coupon
	if coupon.Object == "" {
		// only the id came back; fetch the full coupon
		coupon, err = s.gw.GetCoupon(ctx, coupon.ID)
		if err != nil {
			slog.Error("error retrieving coupon", "coupon_id", promo.Coupon.ID, "err", err)
			return PromoResult{Error: "Failed to validate code"}
		}
		if coupon.ID == "" {
			return PromoResult{Error: "Coupon not found"}
		}
	}

	if reason := couponRejection(coupon, s.now().Unix()); reason != "" {
		return PromoResult{Error: reason}
	}

	currency := string(coupon.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return PromoResult{
		Valid:           true,
		CouponID:        coupon.ID,
		PromotionCodeID: promo.ID,
		PercentOff:      coupon.PercentOff,
		AmountOff:       coupon.AmountOff,
		Currency:        currency,
		Name:            coupon.Name,
	}
}

// lookupPromotionCode tries the upper-cased code, then the lower-cased one.
func (s *serviceImpl) lookupPromotionCode(ctx context.Context, code string) (stripe.PromotionCode, bool, error) {
	upper := strings.ToUpper(code)
	promo, found, err := s.gw.FindPromotionCode(ctx, upper)
	if err != nil || found {
		return promo, found, err
	}
	lower := strings.ToLower(code)
	if lower == upper {
		return stripe.PromotionCode{}, false, nil
	}
	return s.gw.FindPromotionCode(ctx, lower)
}

// couponRejection returns why coupon cannot be redeemed at unix time now, or "".
func couponRejection(c stripe.Coupon, now int64) string {
	switch {
	case !c.Valid:
		return "Coupon is not valid"
	case c.MaxRedemptions > 0 && c.TimesRedeemed >= c.MaxRedemptions:
		return "Coupon has reached max redemptions"
	case c.RedeemBy > 0 && c.RedeemBy < now:
		return "Coupon has expired"
	}
	return ""
}
