package model

import "time"

// LifecycleStatus is the physical condition of an asset.
type LifecycleStatus string

const (
	LifecycleOperational    LifecycleStatus = "operational"
	LifecycleUnderRepair    LifecycleStatus = "under_repair"
	LifecycleDamaged        LifecycleStatus = "damaged"
	LifecycleDecommissioned LifecycleStatus = "decommissioned"
)

// AssetStatus is the operational status of an asset. It is the fallback
// signal when lifecycle data is absent.
type AssetStatus string

const (
	StatusActive         AssetStatus = "active"
	StatusInactive       AssetStatus = "inactive"
	StatusMaintenance    AssetStatus = "maintenance"
	StatusDecommissioned AssetStatus = "decommissioned"
)

// MaintenanceStatus is the state of a maintenance record.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

// Severity ranks an incident.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IncidentStatus is the state of an incident.
type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentClosed        IncidentStatus = "closed"
)

// Unresolved reports whether the incident still counts against asset health.
func (s IncidentStatus) Unresolved() bool {
	return s == IncidentOpen || s == IncidentInvestigating
}

// SensorStatus is the status a sensor declares about itself.
type SensorStatus string

const (
	SensorActive      SensorStatus = "active"
	SensorOnline      SensorStatus = "online"
	SensorInactive    SensorStatus = "inactive"
	SensorMaintenance SensorStatus = "maintenance"
	SensorOffline     SensorStatus = "offline"
	SensorError       SensorStatus = "error"
)

// Asset is a piece of managed infrastructure.
type Asset struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	CommissionedDate      *time.Time `json:"commissioned_date,omitempty" yaml:"commissioned_date,omitempty"`
	DesignedLifespanYears *int       `json:"designed_lifespan_years,omitempty" yaml:"designed_lifespan_years,omitempty"`

	// LifecycleStatus may be empty when the record carries no lifecycle data.
	LifecycleStatus LifecycleStatus `json:"lifecycle_status,omitempty" yaml:"lifecycle_status,omitempty"`
	Status          AssetStatus     `json:"status,omitempty" yaml:"status,omitempty"`
}

// MaintenanceRecord is one historical or scheduled maintenance job.
type MaintenanceRecord struct {
	ID            string            `json:"id,omitempty" yaml:"id,omitempty"`
	ScheduledDate time.Time         `json:"scheduled_date" yaml:"scheduled_date"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Status        MaintenanceStatus `json:"status" yaml:"status"`
	ActualCost    *float64          `json:"actual_cost,omitempty" yaml:"actual_cost,omitempty"`
	EstimatedCost *float64          `json:"estimated_cost,omitempty" yaml:"estimated_cost,omitempty"`
}

// DoneAt returns when the maintenance was carried out. Completed records
// without a completion timestamp fall back to their scheduled date.
func (m MaintenanceRecord) DoneAt() time.Time {
	if m.CompletedAt != nil {
		return *m.CompletedAt
	}
	return m.ScheduledDate
}

// IncidentRecord is a reported fault or event against an asset.
type IncidentRecord struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Severity  Severity       `json:"severity" yaml:"severity"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Status    IncidentStatus `json:"status" yaml:"status"`
}

// DefaultWarningDays is the warning window used when a plan does not set one.
const DefaultWarningDays = 7

// PreventiveMaintenancePlan is a recurring maintenance schedule.
type PreventiveMaintenancePlan struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	AssetID string `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`

	CycleDays           int        `json:"cycle_days" yaml:"cycle_days"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty" yaml:"last_maintenance_date,omitempty"`
	WarningDays         *int       `json:"warning_days,omitempty" yaml:"warning_days,omitempty"`
	IsActive            bool       `json:"is_active" yaml:"is_active"`

	// CreatedAt anchors the first cycle when no maintenance has happened yet.
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// StoredNextDate is a previously computed due date kept by the data
	// layer. It is only compared against, never trusted.
	StoredNextDate *time.Time `json:"next_maintenance_date,omitempty" yaml:"next_maintenance_date,omitempty"`
}

// Warning returns the effective warning window in days.
func (p PreventiveMaintenancePlan) Warning() int {
	if p.WarningDays == nil {
		return DefaultWarningDays
	}
	return *p.WarningDays
}

// Sensor is an IoT device reporting on an asset.
type Sensor struct {
	ID       string       `json:"id" yaml:"id"`
	AssetID  string       `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`
	Status   SensorStatus `json:"status" yaml:"status"`
	LastSeen *time.Time   `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
}

// AssetRecord bundles an asset with everything the engine reads about it.
type AssetRecord struct {
	Asset       Asset                      `json:"asset" yaml:"asset"`
	Maintenance []MaintenanceRecord        `json:"maintenance,omitempty" yaml:"maintenance,omitempty"`
	Incidents   []IncidentRecord           `json:"incidents,omitempty" yaml:"incidents,omitempty"`
	Plan        *PreventiveMaintenancePlan `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// Fleet is a full set of already-fetched records.
type Fleet struct {
	Assets  []AssetRecord `json:"assets" yaml:"assets"`
	Sensors []Sensor      `json:"sensors,omitempty" yaml:"sensors,omitempty"`
}

// FindAsset returns the record for an asset ID.
func (f *Fleet) FindAsset(id string) (*AssetRecord, bool) {
	for i := range f.Assets {
		if f.Assets[i].Asset.ID == id {
			return &f.Assets[i], true
		}
	}
	return nil, false
}

// FindSensor returns the sensor with the given ID.
func (f *Fleet) FindSensor(id string) (*Sensor, bool) {
	for i := range f.Sensors {
		if f.Sensors[i].ID == id {
			return &f.Sensors[i], true
		}
	}
	return nil, false
}
