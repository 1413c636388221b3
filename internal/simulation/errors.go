// backend-go/internal/simulation/errors.go
package simulation

import "fmt"

// InvalidParameterError reports a non-finite or precondition-violating
// numeric input, raised before any trajectory runs.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// NumericalInstabilityError reports a non-finite value that appeared mid
// simulation despite the overflow guard. It identifies the offending
// trajectory and day so a caller can retry with a different seed.
type NumericalInstabilityError struct {
	Simulation int
	Day        int
	Value      float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("numerical instability in simulation %d at day %d (value %v)",
		e.Simulation, e.Day, e.Value)
}
