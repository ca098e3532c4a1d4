package catalog

import (
	"cmp"
	"slices"
	"time"

	"cuelang.org/go/cue"

	"github.com/roach88/assetcare/internal/model"
)

// CompileFleet converts a schema-checked CUE value into a fleet. Assets and
// sensors are ordered by ID so multi-file packages compile the same way
// regardless of file order.
func CompileFleet(v cue.Value) (*model.Fleet, error) {
	fleet := &model.Fleet{}

	assets := v.LookupPath(cue.ParsePath("asset"))
	if assets.Exists() {
		iter, err := assets.Fields()
		if err != nil {
			return nil, fromCUE(ErrCodeGeneric, err)
		}
		for iter.Next() {
			rec, err := CompileAsset(iter.Selector().Unquoted(), iter.Value())
			if err != nil {
				return nil, err
			}
			fleet.Assets = append(fleet.Assets, *rec)
		}
	}

	sensors := v.LookupPath(cue.ParsePath("sensor"))
	if sensors.Exists() {
		iter, err := sensors.Fields()
		if err != nil {
			return nil, fromCUE(ErrCodeGeneric, err)
		}
		for iter.Next() {
			s, err := CompileSensor(iter.Selector().Unquoted(), iter.Value())
			if err != nil {
				return nil, err
			}
			fleet.Sensors = append(fleet.Sensors, *s)
		}
	}

	slices.SortFunc(fleet.Assets, func(a, b model.AssetRecord) int { return cmp.Compare(a.Asset.ID, b.Asset.ID) })
	slices.SortFunc(fleet.Sensors, func(a, b model.Sensor) int { return cmp.Compare(a.ID, b.ID) })
	return fleet, nil
}

// CompileAsset parses one asset struct. id is the struct label.
func CompileAsset(id string, v cue.Value) (*model.AssetRecord, error) {
	c := &compiler{v: v}
	rec := &model.AssetRecord{
		Asset: model.Asset{
			ID:                    id,
			Name:                  c.optString("name"),
			CommissionedDate:      c.optDate("commissioned_date"),
			DesignedLifespanYears: c.optInt("designed_lifespan_years"),
			LifecycleStatus:       model.LifecycleStatus(c.optString("lifecycle_status")),
			Status:                model.AssetStatus(c.optString("status")),
		},
	}

	if list := v.LookupPath(cue.ParsePath("maintenance")); list.Exists() {
		iter, err := list.List()
		if err != nil {
			return nil, fromCUE(ErrCodeInvalidValue, err)
		}
		for iter.Next() {
			m := &compiler{v: iter.Value()}
			rec.Maintenance = append(rec.Maintenance, model.MaintenanceRecord{
				ID:            m.optString("id"),
				ScheduledDate: m.timestamp("scheduled_date"),
				CompletedAt:   m.optTime("completed_at"),
				Status:        model.MaintenanceStatus(m.str("status")),
				ActualCost:    m.optFloat("actual_cost"),
				EstimatedCost: m.optFloat("estimated_cost"),
			})
			if m.err != nil {
				return nil, m.err
			}
		}
	}

	if list := v.LookupPath(cue.ParsePath("incidents")); list.Exists() {
		iter, err := list.List()
		if err != nil {
			return nil, fromCUE(ErrCodeInvalidValue, err)
		}
		for iter.Next() {
			in := &compiler{v: iter.Value()}
			rec.Incidents = append(rec.Incidents, model.IncidentRecord{
				ID:        in.optString("id"),
				Severity:  model.Severity(in.str("severity")),
				CreatedAt: in.timestamp("created_at"),
				Status:    model.IncidentStatus(in.str("status")),
			})
			if in.err != nil {
				return nil, in.err
			}
		}
	}

	if pv := v.LookupPath(cue.ParsePath("plan")); pv.Exists() {
		p := &compiler{v: pv}
		plan := &model.PreventiveMaintenancePlan{
			ID:                  p.optString("id"),
			AssetID:             id,
			CycleDays:           p.integer("cycle_days"),
			LastMaintenanceDate: p.optDate("last_maintenance_date"),
			WarningDays:         p.optInt("warning_days"),
			IsActive:            p.boolean("is_active", true),
			CreatedAt:           p.optDate("created_at"),
			StoredNextDate:      p.optDate("next_maintenance_date"),
		}
		if p.err != nil {
			return nil, p.err
		}
		rec.Plan = plan
	}

	if c.err != nil {
		return nil, c.err
	}
	return rec, nil
}

// CompileSensor parses one sensor struct. id is the struct label.
func CompileSensor(id string, v cue.Value) (*model.Sensor, error) {
	c := &compiler{v: v}
	s := &model.Sensor{
		ID:       id,
		AssetID:  c.optString("asset_id"),
		Status:   model.SensorStatus(c.str("status")),
		LastSeen: c.optTime("last_seen"),
	}
	if c.err != nil {
		return nil, c.err
	}
	return s, nil
}

// compiler reads fields from one struct and keeps the first error, so
// record construction reads as a flat list of fields.
type compiler struct {
	v   cue.Value
	err error
}

func (c *compiler) fail(field, msg string, pos cue.Value) {
	if c.err == nil {
		c.err = &CompileError{Field: field, Message: msg, Pos: pos.Pos()}
	}
}

func (c *compiler) lookup(field string) (cue.Value, bool) {
	fv := c.v.LookupPath(cue.ParsePath(field))
	return fv, fv.Exists()
}

func (c *compiler) str(field string) string {
	fv, ok := c.lookup(field)
	if !ok {
		c.fail(field, "is required", c.v)
		return ""
	}
	s, err := fv.String()
	if err != nil {
		c.fail(field, err.Error(), fv)
	}
	return s
}

func (c *compiler) optString(field string) string {
	if _, ok := c.lookup(field); !ok {
		return ""
	}
	return c.str(field)
}

func (c *compiler) integer(field string) int {
	fv, ok := c.lookup(field)
	if !ok {
		c.fail(field, "is required", c.v)
		return 0
	}
	n, err := fv.Int64()
	if err != nil {
		c.fail(field, err.Error(), fv)
	}
	return int(n)
}

func (c *compiler) optInt(field string) *int {
	if _, ok := c.lookup(field); !ok {
		return nil
	}
	n := c.integer(field)
	return &n
}

func (c *compiler) optFloat(field string) *float64 {
	fv, ok := c.lookup(field)
	if !ok {
		return nil
	}
	f, err := fv.Float64()
	if err != nil {
		c.fail(field, err.Error(), fv)
		return nil
	}
	return &f
}

func (c *compiler) boolean(field string, def bool) bool {
	fv, ok := c.lookup(field)
	if !ok {
		return def
	}
	b, err := fv.Bool()
	if err != nil {
		c.fail(field, err.Error(), fv)
		return def
	}
	return b
}

func (c *compiler) parsed(field string, parse func(string) (time.Time, error)) *time.Time {
	fv, ok := c.lookup(field)
	if !ok {
		return nil
	}
	s := c.str(field)
	t, err := parse(s)
	if err != nil {
		c.fail(field, err.Error(), fv)
		return nil
	}
	return &t
}

func (c *compiler) optDate(field string) *time.Time {
	return c.parsed(field, model.ParseDate)
}

func (c *compiler) optTime(field string) *time.Time {
	return c.parsed(field, model.ParseTime)
}

func (c *compiler) timestamp(field string) time.Time {
	if _, ok := c.lookup(field); !ok {
		c.fail(field, "is required", c.v)
		return time.Time{}
	}
	if t := c.optTime(field); t != nil {
		return *t
	}
	return time.Time{}
}
