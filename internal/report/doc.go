// Package report turns engine results into evaluation reports.
//
// A report carries per-asset and per-sensor results, summary counts and a
// content digest. The digest is a SHA-256 over the RFC 8785 canonical JSON
// form of the report body, so the same fleet evaluated at the same instant
// always yields the same digest regardless of run ID or worker count.
package report
