package external

import (
	"context"
	"math/rand"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
)

// SimulatedEFTGateway is the pluggable ports.EFTGateway behind which the
// real bank-network leg is simulated, per SPEC_FULL.md's Open Question
// decision 3: never a `Math.random() < p` check hardcoded in engine logic,
// always one adapter construted with a configured failure probability.
type SimulatedEFTGateway struct {
	FailureProbability float64
	rng                *rand.Rand
}

// NewSimulatedEFTGateway returns a SimulatedEFTGateway that fails the given
// fraction of submissions (0 <= failureProbability <= 1).
func NewSimulatedEFTGateway(failureProbability float64, seed int64) *SimulatedEFTGateway {
	return &SimulatedEFTGateway{
		FailureProbability: failureProbability,
		rng:                rand.New(rand.NewSource(seed)),
	}
}

// Submit simulates handing eft to the external bank network, failing with
// common.ErrExternalFailure a configured fraction of the time.
func (g *SimulatedEFTGateway) Submit(_ context.Context, eft mmodel.EFTTransaction) error {
	if g.rng.Float64() < g.FailureProbability {
		return common.ValidateBusinessError(common.ErrExternalFailure, "EFTTransaction")
	}

	return nil
}
