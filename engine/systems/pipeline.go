// Package systems holds the per-tick gameplay systems and the barrier
// unlocking flow. Run executes the pipeline in its fixed order: collection,
// adjustment, reveal, combination. Each system reads the live stores, so a
// component picked up this tick is eligible for crafting in the same tick.
package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/state"
)

// Run executes one pass of the gameplay pipeline.
func Run(w *state.World, log logrus.FieldLogger) error {
	if err := Collect(w, log); err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	Adjust(w)
	if err := Reveal(w, log); err != nil {
		return fmt.Errorf("reveal: %w", err)
	}
	if err := Combine(w, log); err != nil {
		return fmt.Errorf("combination: %w", err)
	}
	return nil
}
