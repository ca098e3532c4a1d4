// Package harness runs conformance scenarios against the evaluation engine.
//
// A scenario fixes an evaluation instant, supplies a fleet and states what
// the engine must conclude about it. The harness evaluates the fleet the
// same way `assetctl evaluate` does and checks each assertion against the
// resulting report.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: pump_due_soon
//	description: "Pump maintenance enters its warning window"
//	now: "2024-07-10T00:00:00Z"
//	fleet: ../fleet            # optional CUE fleet directory
//	assets:                    # optional inline records
//	  - asset: {id: pump-01, status: active}
//	    plan: {cycle_days: 180, last_maintenance_date: 2024-01-15, is_active: true}
//	sensors:
//	  - {id: vib-01, asset_id: pump-01, status: active, last_seen: 2024-07-09T23:55:00Z}
//	assertions:
//	  - type: schedule
//	    asset: pump-01
//	    status: due_soon
//	    next_due_date: "2024-07-13"
//
// Dates inside inline records are unquoted so YAML resolves them as
// timestamps. The fleet path is relative to the scenario file.
//
// # Assertion Types
//
//   - health: composite score and/or grade of an asset
//   - schedule: status, next due date, days remaining, stored-date mismatch
//   - lifespan: remaining years and percent, or absence of an estimate
//   - liveness: classified state of a sensor
//   - projection: projected task dates (and statuses) up to a horizon
//   - error: an asset carries a validation error with the given code
//
// # Deterministic Testing
//
// Every scenario evaluates in a fresh in-memory store at the scenario's
// fixed instant with a fixed run ID, so the report is byte-identical
// across runs and can be compared against a golden file.
package harness
