// Package model defines the asset, maintenance, incident, plan and sensor
// records consumed by the health and scheduling engine.
//
// Records are produced by an external data layer and are read-only here.
// Optional fields are pointers; a nil pointer means "no data", which the
// engine resolves to documented neutral defaults rather than failing.
//
// All dates are compared as UTC calendar days. Use ParseDate or ParseTime
// to build them from text.
package model
