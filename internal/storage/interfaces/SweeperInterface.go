package interfaces

import "context"

// SweeperInterface drops state that has been idle for too long and reports
// how many devices it removed.
type SweeperInterface interface {
	SweepIdle(ctx context.Context) (int, error)
}
