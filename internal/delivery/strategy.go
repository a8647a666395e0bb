package delivery

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unavailable is returned as the transit time when a method cannot serve a shipment.
const Unavailable = -1

// MaxTransitDays caps quoted transit times so huge distances stay representable.
const MaxTransitDays = math.MaxInt32

// Strategy prices a single delivery method.
type Strategy interface {
	Code() string
	Cost(distanceKm, weightKg float64) decimal.Decimal
	Time(distanceKm float64) int
	Available(distanceKm, weightKg float64) bool
}

// linear computes base + perKm·distance + perKg·weight rounded half-up to cents.
func linear(base, perKm, perKg int64, distanceKm, weightKg float64) decimal.Decimal {
	cost := decimal.NewFromInt(base).
		Add(decimal.NewFromInt(perKm).Mul(decimal.NewFromFloat(distanceKm))).
		Add(decimal.NewFromInt(perKg).Mul(decimal.NewFromFloat(weightKg)))
	return cost.Round(2)
}

type courier struct{}

func (courier) Code() string { return CodeCourier }

func (c courier) Available(distanceKm, weightKg float64) bool {
	return distanceKm <= 30 && weightKg <= 15
}

func (c courier) Cost(distanceKm, weightKg float64) decimal.Decimal {
	if !c.Available(distanceKm, weightKg) {
		return decimal.Zero
	}
	return linear(300, 20, 50, distanceKm, weightKg)
}

func (courier) Time(distanceKm float64) int {
	switch {
	case distanceKm > 30:
		return Unavailable
	case distanceKm <= 10:
		return 1
	default:
		return 2
	}
}

type express struct{}

func (express) Code() string { return CodeExpress }

func (e express) Available(distanceKm, weightKg float64) bool {
	return distanceKm <= 100 && weightKg <= 10
}

func (e express) Cost(distanceKm, weightKg float64) decimal.Decimal {
	if !e.Available(distanceKm, weightKg) {
		return decimal.Zero
	}
	return linear(500, 30, 80, distanceKm, weightKg)
}

func (express) Time(distanceKm float64) int {
	if distanceKm > 100 {
		return Unavailable
	}
	return 1
}

type post struct{}

func (post) Code() string { return CodePost }

func (p post) Available(distanceKm, weightKg float64) bool {
	return weightKg <= 20 && distanceKm > 0
}

func (p post) Cost(distanceKm, weightKg float64) decimal.Decimal {
	if !p.Available(distanceKm, weightKg) {
		return decimal.Zero
	}
	return linear(150, 5, 30, distanceKm, weightKg)
}

// Time does not depend on availability: post always quotes at least three days.
func (post) Time(distanceKm float64) int {
	if distanceKm <= 0 {
		return 3
	}
	days := math.Max(3, math.Ceil(distanceKm/150)+2)
	if days > MaxTransitDays || math.IsNaN(days) {
		return MaxTransitDays
	}
	return int(days)
}

type selfPickup struct{}

func (selfPickup) Code() string { return CodeSelfPickup }
func (selfPickup) Available(float64, float64) bool { return true }
func (selfPickup) Cost(float64, float64) decimal.Decimal { return decimal.Zero }
func (selfPickup) Time(float64) int { return 0 }

// pickup is the weight-capped point-of-issue variant. It has no numeric id.
type pickup struct{}

func (pickup) Code() string { return CodePickup }

func (pickup) Available(_, weightKg float64) bool {
	return weightKg <= 50
}

func (pickup) Cost(float64, float64) decimal.Decimal { return decimal.Zero }
func (pickup) Time(float64) int { return 1 }
