package payment

import (
	"context"
	"errors"
	"math/rand"
)

// ErrDeclined is returned when the simulated gateway rejects a charge
var ErrDeclined = errors.New("payment declined")

// Gateway models the external payment gateway. The portal only ever
// talks to the simulated implementation; a real integration is out of
// scope.
type Gateway interface {
	Charge(ctx context.Context, method string, amount int64) error
}

// SimulatedGateway approves charges with a fixed probability
type SimulatedGateway struct {
	successRate float64
	draw        func() float64
}

// NewSimulatedGateway creates a gateway that succeeds with the given
// probability (0..1).
func NewSimulatedGateway(successRate float64) *SimulatedGateway {
	return &SimulatedGateway{successRate: successRate, draw: rand.Float64}
}

// Charge draws a weighted random outcome. No state is kept between calls.
func (g *SimulatedGateway) Charge(ctx context.Context, method string, amount int64) error {
	if g.draw() >= g.successRate {
		return ErrDeclined
	}
	return nil
}
