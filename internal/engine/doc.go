// Package engine computes asset health, remaining lifespan, preventive
// maintenance due dates and sensor liveness from already-fetched records.
//
// Every function here is a pure function of its explicit inputs. The
// current time is always passed in (see Clock), never read from the
// ambient environment, so every rule is reproducible in tests.
//
// COMPONENTS:
//
//   - ComputeHealth: five weighted sub-scores and a 0-100 composite.
//   - EstimateLifespan: current age and remaining service life.
//   - Classify: next due date of a recurring plan and its status.
//   - Project: bounded, restartable sequence of future occurrences.
//   - EvaluateLiveness: online/warning/offline from a last-seen timestamp.
//
// Missing optional data resolves to neutral defaults. Structurally invalid
// input (a zero cycle, a non-positive lifespan, a horizon not after now)
// returns a *ValidationError. The engine does not log and holds no state;
// EvaluateFleet runs the components over many assets in parallel.
package engine
