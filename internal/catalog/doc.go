// Package catalog loads fleet definitions written in CUE.
//
// A fleet directory holds one CUE package whose files declare assets and
// sensors:
//
//	package fleet
//
//	asset: "pump-01": {
//		name:                    "Feed pump"
//		commissioned_date:       "2010-01-15"
//		designed_lifespan_years: 30
//		lifecycle_status:        "operational"
//		status:                  "active"
//		maintenance: [{scheduled_date: "2024-01-15", status: "completed"}]
//		incidents: [{severity: "high", created_at: "2024-05-02", status: "open"}]
//		plan: {cycle_days: 180, last_maintenance_date: "2024-01-15"}
//	}
//
//	sensor: "vib-01": {asset_id: "pump-01", status: "active", last_seen: "2024-07-09T23:40:00Z"}
//
// The embedded schema (schema.cue) is unified with the user files before
// compilation, so enum typos, unknown fields and malformed dates are
// reported with file positions. Validate then applies the numeric rules
// the engine would otherwise reject at evaluation time.
package catalog
