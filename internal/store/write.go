package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// WriteFleet upserts every asset and sensor of fleet in one transaction.
// An asset's maintenance history, incidents and plan are replaced
// wholesale, so re-importing a fleet is idempotent. Assets and sensors
// absent from fleet are left untouched.
func (s *Store) WriteFleet(ctx context.Context, fleet *model.Fleet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write fleet: begin: %w", err)
	}
	defer tx.Rollback()

	for i := range fleet.Assets {
		if err := writeAsset(ctx, tx, &fleet.Assets[i]); err != nil {
			return fmt.Errorf("write fleet: asset %s: %w", fleet.Assets[i].Asset.ID, err)
		}
	}
	for _, sensor := range fleet.Sensors {
		if err := writeSensor(ctx, tx, sensor); err != nil {
			return fmt.Errorf("write fleet: sensor %s: %w", sensor.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write fleet: commit: %w", err)
	}
	return nil
}

func writeAsset(ctx context.Context, tx *sql.Tx, rec *model.AssetRecord) error {
	a := rec.Asset
	_, err := tx.ExecContext(ctx, `
		INSERT INTO assets
		(id, name, commissioned_date, designed_lifespan_years, lifecycle_status, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			commissioned_date = excluded.commissioned_date,
			designed_lifespan_years = excluded.designed_lifespan_years,
			lifecycle_status = excluded.lifecycle_status,
			status = excluded.status
	`,
		a.ID,
		a.Name,
		dateText(a.CommissionedDate),
		intValue(a.DesignedLifespanYears),
		string(a.LifecycleStatus),
		string(a.Status),
	)
	if err != nil {
		return err
	}

	// Child rows are replaced rather than merged; positions are only
	// meaningful within one import.
	for _, table := range []string{"maintenance_records", "incidents", "plans"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE asset_id = ?", a.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, m := range rec.Maintenance {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO maintenance_records
			(asset_id, position, id, scheduled_date, completed_at, status, actual_cost, estimated_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			a.ID, i, m.ID,
			timeText(m.ScheduledDate),
			optTimeText(m.CompletedAt),
			string(m.Status),
			floatValue(m.ActualCost),
			floatValue(m.EstimatedCost),
		)
		if err != nil {
			return fmt.Errorf("maintenance %d: %w", i, err)
		}
	}

	for i, in := range rec.Incidents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO incidents
			(asset_id, position, id, severity, created_at, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			a.ID, i, in.ID,
			string(in.Severity),
			timeText(in.CreatedAt),
			string(in.Status),
		)
		if err != nil {
			return fmt.Errorf("incident %d: %w", i, err)
		}
	}

	if p := rec.Plan; p != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO plans
			(asset_id, id, cycle_days, last_maintenance_date, warning_days, is_active, created_at, next_maintenance_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			a.ID, p.ID, p.CycleDays,
			dateText(p.LastMaintenanceDate),
			intValue(p.WarningDays),
			p.IsActive,
			dateText(p.CreatedAt),
			dateText(p.StoredNextDate),
		)
		if err != nil {
			return fmt.Errorf("plan: %w", err)
		}
	}

	return nil
}

func writeSensor(ctx context.Context, tx *sql.Tx, sensor model.Sensor) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sensors (id, asset_id, status, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			asset_id = excluded.asset_id,
			status = excluded.status,
			last_seen = excluded.last_seen
	`,
		sensor.ID,
		sensor.AssetID,
		string(sensor.Status),
		optTimeText(sensor.LastSeen),
	)
	return err
}

// WriteReport records an evaluation report keyed by its digest.
// Uses ON CONFLICT(digest) DO NOTHING: re-evaluating an unchanged snapshot
// at the same instant keeps the first run ID.
//
// Returns true if the report was newly stored.
func (s *Store) WriteReport(ctx context.Context, rep *report.EvaluationReport) (bool, error) {
	body, err := report.MarshalCanonical(rep)
	if err != nil {
		return false, fmt.Errorf("write report: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (digest, run_id, generated_at, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		rep.Digest,
		rep.RunID,
		rep.GeneratedAt,
		string(body),
	)
	if err != nil {
		return false, fmt.Errorf("write report: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write report: rows affected: %w", err)
	}
	return n > 0, nil
}
