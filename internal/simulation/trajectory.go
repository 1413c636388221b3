// backend-go/internal/simulation/trajectory.go
package simulation

import (
	"math"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

// inventoryCapFactor bounds pathological growth from repeated unconsumed
// orders. A safety valve, not a modeled business rule.
const inventoryCapFactor = 10.0

// Simulator runs one inventory path day by day. All randomness comes from
// the source it was built with, so a simulator is single-use per trajectory.
type Simulator struct {
	demand   *DemandSampler
	leadTime *LeadTimeSampler
}

func NewSimulator(src *Source) *Simulator {
	return &Simulator{
		demand:   NewDemandSampler(src),
		leadTime: NewLeadTimeSampler(src),
	}
}

// Run simulates numDays of replenishment for the given params. At most one
// order may be in flight at a time; a reorder trigger while an order is
// pending is ignored.
func (s *Simulator) Run(params domain.InventoryParams, numDays int) domain.Trajectory {
	levels := make([]float64, numDays)
	inventory := params.CurrentStock
	stockouts := 0

	orderPending := false
	arrivalDay := -1

	for day := 0; day < numDays; day++ {
		demand := s.demand.Sample(params.DailyDemandMean, params.DailyDemandStdDev)
		if demand > inventory {
			// Demand exceeding stock pins inventory to exactly zero; this
			// is the authoritative stockout signal.
			inventory = 0
			stockouts++
		} else {
			inventory -= demand
		}

		if inventory <= params.ReorderPoint && !orderPending {
			orderPending = true
			lead := s.leadTime.Sample(params.MeanLeadTime)
			arrivalDay = day + int(math.Round(lead))
		}

		if orderPending && day == arrivalDay {
			inventory += params.OrderQuantity
			orderPending = false
			arrivalDay = -1
		}

		if ceiling := inventoryCapFactor * params.ReorderPoint; ceiling > 0 && inventory > ceiling {
			inventory = ceiling
		}

		levels[day] = inventory
	}

	return domain.Trajectory{Levels: levels, StockoutDays: stockouts}
}
