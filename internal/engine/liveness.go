package engine

import (
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// Liveness is the classified connectivity state of a sensor.
type Liveness string

const (
	LivenessOnline      Liveness = "online"
	LivenessWarning     Liveness = "warning"
	LivenessOffline     Liveness = "offline"
	LivenessInactive    Liveness = "inactive"
	LivenessError       Liveness = "error"
	LivenessMaintenance Liveness = "maintenance"
)

// Freshness thresholds in minutes since the last reading.
const (
	WarningAfterMinutes = 10
	OfflineAfterMinutes = 30
)

// EvaluateLiveness classifies a sensor from its declared status and the
// time it was last seen.
//
// Explicit maintenance, offline and error states are returned verbatim.
// For active or online sensors, more than 30 minutes of silence is
// offline and more than 10 is warning; exactly 10 is still online and
// exactly 30 is still warning. No last-seen timestamp is treated as
// online. Every other declared status is inactive.
func EvaluateLiveness(declared model.SensorStatus, lastSeen *time.Time, now time.Time) Liveness {
	switch declared {
	case model.SensorMaintenance:
		return LivenessMaintenance
	case model.SensorOffline:
		return LivenessOffline
	case model.SensorError:
		return LivenessError
	case model.SensorActive, model.SensorOnline:
	default:
		return LivenessInactive
	}

	if lastSeen == nil {
		return LivenessOnline
	}
	minutes := now.Sub(*lastSeen).Minutes()
	switch {
	case minutes > OfflineAfterMinutes:
		return LivenessOffline
	case minutes > WarningAfterMinutes:
		return LivenessWarning
	default:
		return LivenessOnline
	}
}

// EvaluateSensor is EvaluateLiveness over a sensor record.
func EvaluateSensor(s model.Sensor, now time.Time) Liveness {
	return EvaluateLiveness(s.Status, s.LastSeen, now)
}
