// Package delivery resolves delivery methods and prices shipments.
package delivery

import (
	"github.com/shopspring/decimal"
)

// Method codes.
const (
	CodeCourier    = "COURIER"
	CodePost       = "POST"
	CodeSelfPickup = "SELF_PICKUP"
	CodeExpress    = "EXPRESS"
	CodePickup     = "PICKUP"
)

// Method describes a delivery method that has a stable numeric id.
type Method struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Resolver maps codes and ids to delivery strategies. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	strategies map[string]Strategy
	methods    []Method
	byID       map[int64]Method
	byCode     map[string]int64
	registered []string
}

// NewResolver returns a resolver with the built-in methods registered.
func NewResolver() *Resolver {
	r := &Resolver{
		strategies: make(map[string]Strategy),
		byID:       make(map[int64]Method),
		byCode:     make(map[string]int64),
	}

	r.register(courier{})
	r.register(post{})
	r.register(selfPickup{})
	r.register(express{})
	r.register(pickup{})

	r.assign(Method{ID: 1, Code: CodeCourier, Name: "Courier delivery"})
	r.assign(Method{ID: 2, Code: CodePost, Name: "Postal delivery"})
	r.assign(Method{ID: 3, Code: CodeSelfPickup, Name: "Self pickup"})
	r.assign(Method{ID: 4, Code: CodeExpress, Name: "Express delivery"})

	return r
}

func (r *Resolver) register(s Strategy) {
	r.strategies[s.Code()] = s
	r.registered = append(r.registered, s.Code())
}

func (r *Resolver) assign(m Method) {
	r.methods = append(r.methods, m)
	r.byID[m.ID] = m
	r.byCode[m.Code] = m.ID
}

// Cost returns the shipment cost for the method, or zero when the method is
// unknown or cannot serve the shipment.
func (r *Resolver) Cost(code string, distanceKm, weightKg float64) decimal.Decimal {
	s, ok := r.strategies[code]
	if !ok {
		return decimal.Zero
	}
	return s.Cost(distanceKm, weightKg)
}

// Time returns transit time in days, or Unavailable.
func (r *Resolver) Time(code string, distanceKm float64) int {
	s, ok := r.strategies[code]
	if !ok {
		return Unavailable
	}
	return s.Time(distanceKm)
}

// Available reports whether the method can serve the shipment.
func (r *Resolver) Available(code string, distanceKm, weightKg float64) bool {
	s, ok := r.strategies[code]
	if !ok {
		return false
	}
	return s.Available(distanceKm, weightKg)
}

// CostByID is Cost keyed by method id.
func (r *Resolver) CostByID(id int64, distanceKm, weightKg float64) decimal.Decimal {
	code, ok := r.CodeByID(id)
	if !ok {
		return decimal.Zero
	}
	return r.Cost(code, distanceKm, weightKg)
}

// TimeByID is Time keyed by method id.
func (r *Resolver) TimeByID(id int64, distanceKm float64) int {
	code, ok := r.CodeByID(id)
	if !ok {
		return Unavailable
	}
	return r.Time(code, distanceKm)
}

// AvailableByID is Available keyed by method id.
func (r *Resolver) AvailableByID(id int64, distanceKm, weightKg float64) bool {
	code, ok := r.CodeByID(id)
	if !ok {
		return false
	}
	return r.Available(code, distanceKm, weightKg)
}

// CodeByID translates a method id to its code.
func (r *Resolver) CodeByID(id int64) (string, bool) {
	m, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return m.Code, true
}

// IDByCode translates a method code to its id. PICKUP has no id.
func (r *Resolver) IDByCode(code string) (int64, bool) {
	id, ok := r.byCode[code]
	return id, ok
}

// IsKnown reports whether a strategy is registered for code.
func (r *Resolver) IsKnown(code string) bool {
	_, ok := r.strategies[code]
	return ok
}

// IsKnownID reports whether id maps to a method.
func (r *Resolver) IsKnownID(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// Methods lists the id-mapped methods in id order.
func (r *Resolver) Methods() []Method {
	out := make([]Method, len(r.methods))
	copy(out, r.methods)
	return out
}

// MethodsByID returns the id-mapped methods keyed by id.
func (r *Resolver) MethodsByID() map[int64]Method {
	out := make(map[int64]Method, len(r.byID))
	for id, m := range r.byID {
		out[id] = m
	}
	return out
}

// Registered lists every registered strategy code in registration order.
func (r *Resolver) Registered() []string {
	out := make([]string, len(r.registered))
	copy(out, r.registered)
	return out
}
