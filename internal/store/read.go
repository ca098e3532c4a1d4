package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// ReadFleet returns the whole snapshot. Assets and sensors are ordered by
// id COLLATE BINARY; maintenance and incidents keep their import order.
//
// Returns an empty fleet (not nil slices) if nothing was imported.
//
// Every query is drained before the next one starts: the store holds a
// single connection.
func (s *Store) ReadFleet(ctx context.Context) (*model.Fleet, error) {
	assets, err := s.readAssets(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(assets))
	for i := range assets {
		index[assets[i].Asset.ID] = i
	}

	if err := s.readMaintenance(ctx, assets, index); err != nil {
		return nil, err
	}
	if err := s.readIncidents(ctx, assets, index); err != nil {
		return nil, err
	}
	if err := s.readPlans(ctx, assets, index); err != nil {
		return nil, err
	}

	sensors, err := s.readSensors(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Fleet{Assets: assets, Sensors: sensors}, nil
}

func (s *Store) readAssets(ctx context.Context) ([]model.AssetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, commissioned_date, designed_lifespan_years, lifecycle_status, status
		FROM assets
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []model.AssetRecord{}
	for rows.Next() {
		var (
			a            model.Asset
			commissioned sql.NullString
			lifespan     sql.NullInt64
			lifecycle    string
			status       string
		)
		if err := rows.Scan(&a.ID, &a.Name, &commissioned, &lifespan, &lifecycle, &status); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		if a.CommissionedDate, err = parseDateText("commissioned_date", commissioned); err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		a.DesignedLifespanYears = intPtr(lifespan)
		a.LifecycleStatus = model.LifecycleStatus(lifecycle)
		a.Status = model.AssetStatus(status)
		assets = append(assets, model.AssetRecord{Asset: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

func (s *Store) readMaintenance(ctx context.Context, assets []model.AssetRecord, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, id, scheduled_date, completed_at, status, actual_cost, estimated_cost
		FROM maintenance_records
		ORDER BY asset_id COLLATE BINARY ASC, position ASC
	`)
	if err != nil {
		return fmt.Errorf("query maintenance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			assetID, scheduled, status string
			m                          model.MaintenanceRecord
			completed                  sql.NullString
			actual, estimated          sql.NullFloat64
		)
		if err := rows.Scan(&assetID, &m.ID, &scheduled, &completed, &status, &actual, &estimated); err != nil {
			return fmt.Errorf("scan maintenance: %w", err)
		}
		if m.ScheduledDate, err = parseTimeText("scheduled_date", scheduled); err != nil {
			return fmt.Errorf("maintenance for %s: %w", assetID, err)
		}
		if m.CompletedAt, err = parseOptTimeText("completed_at", completed); err != nil {
			return fmt.Errorf("maintenance for %s: %w", assetID, err)
		}
		m.Status = model.MaintenanceStatus(status)
		m.ActualCost = floatPtr(actual)
		m.EstimatedCost = floatPtr(estimated)

		i := index[assetID]
		assets[i].Maintenance = append(assets[i].Maintenance, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate maintenance: %w", err)
	}
	return nil
}

func (s *Store) readIncidents(ctx context.Context, assets []model.AssetRecord, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, id, severity, created_at, status
		FROM incidents
		ORDER BY asset_id COLLATE BINARY ASC, position ASC
	`)
	if err != nil {
		return fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			assetID, severity, created, status string
			in                                 model.IncidentRecord
		)
		if err := rows.Scan(&assetID, &in.ID, &severity, &created, &status); err != nil {
			return fmt.Errorf("scan incident: %w", err)
		}
		if in.CreatedAt, err = parseTimeText("created_at", created); err != nil {
			return fmt.Errorf("incident for %s: %w", assetID, err)
		}
		in.Severity = model.Severity(severity)
		in.Status = model.IncidentStatus(status)

		i := index[assetID]
		assets[i].Incidents = append(assets[i].Incidents, in)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate incidents: %w", err)
	}
	return nil
}

func (s *Store) readPlans(ctx context.Context, assets []model.AssetRecord, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, id, cycle_days, last_maintenance_date, warning_days, is_active, created_at, next_maintenance_date
		FROM plans
	`)
	if err != nil {
		return fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                     model.PreventiveMaintenancePlan
			last, created, stored sql.NullString
			warning               sql.NullInt64
		)
		if err := rows.Scan(&p.AssetID, &p.ID, &p.CycleDays, &last, &warning, &p.IsActive, &created, &stored); err != nil {
			return fmt.Errorf("scan plan: %w", err)
		}
		if p.LastMaintenanceDate, err = parseDateText("last_maintenance_date", last); err != nil {
			return fmt.Errorf("plan for %s: %w", p.AssetID, err)
		}
		if p.CreatedAt, err = parseDateText("created_at", created); err != nil {
			return fmt.Errorf("plan for %s: %w", p.AssetID, err)
		}
		if p.StoredNextDate, err = parseDateText("next_maintenance_date", stored); err != nil {
			return fmt.Errorf("plan for %s: %w", p.AssetID, err)
		}
		p.WarningDays = intPtr(warning)

		plan := p
		assets[index[p.AssetID]].Plan = &plan
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate plans: %w", err)
	}
	return nil
}

func (s *Store) readSensors(ctx context.Context) ([]model.Sensor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, status, last_seen
		FROM sensors
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sensors: %w", err)
	}
	defer rows.Close()

	sensors := []model.Sensor{}
	for rows.Next() {
		var (
			sensor   model.Sensor
			status   string
			lastSeen sql.NullString
		)
		if err := rows.Scan(&sensor.ID, &sensor.AssetID, &status, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan sensor: %w", err)
		}
		if sensor.LastSeen, err = parseOptTimeText("last_seen", lastSeen); err != nil {
			return nil, fmt.Errorf("sensor %s: %w", sensor.ID, err)
		}
		sensor.Status = model.SensorStatus(status)
		sensors = append(sensors, sensor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensors: %w", err)
	}
	return sensors, nil
}

// ReportRef identifies a stored report without its body.
type ReportRef struct {
	Digest      string `json:"digest"`
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
}

// ListReports returns stored reports ordered by generation time, then
// digest.
func (s *Store) ListReports(ctx context.Context) ([]ReportRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, run_id, generated_at
		FROM reports
		ORDER BY generated_at ASC, digest COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	refs := []ReportRef{}
	for rows.Next() {
		var r ReportRef
		if err := rows.Scan(&r.Digest, &r.RunID, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return refs, nil
}

// ReadReport returns the stored report with the given digest, or
// ErrNotFound.
func (s *Store) ReadReport(ctx context.Context, digest string) (*report.EvaluationReport, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM reports WHERE digest = ?", digest).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", digest, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var rep report.EvaluationReport
	if err := json.Unmarshal([]byte(body), &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", digest, err)
	}
	return &rep, nil
}
