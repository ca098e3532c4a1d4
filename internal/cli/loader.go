package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/assetcare/internal/catalog"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/store"
)

// Error codes for command-level failures outside the catalog's range.
const (
	ErrCodeGeneric       = catalog.ErrCodeGeneric
	ErrCodeStore         = "E301" // snapshot database could not be opened or read
	ErrCodeUnknownAsset  = "E302" // asset ID not in fleet
	ErrCodeUnknownSensor = "E303" // sensor ID not in fleet
	ErrCodeNoPlan        = "E304" // asset has no maintenance plan
	ErrCodeTestFailed    = "E401" // one or more scenarios failed
	ErrCodeDigestDrift   = "E402" // replayed report digest differs
)

// FleetSource names where a command reads its fleet from. Exactly one of
// Dir and Database is set.
type FleetSource struct {
	Dir      string // CUE fleet directory
	Database string // SQLite snapshot written by import
}

func (s FleetSource) String() string {
	if s.Database != "" {
		return "db:" + s.Database
	}
	return s.Dir
}

// LoadFleet reads the fleet from src. CUE fleets are schema-checked and
// compiled; catalog validation findings are logged as warnings since the
// engine reports the same problems per asset.
func LoadFleet(ctx context.Context, src FleetSource, logger *slog.Logger) (*model.Fleet, error) {
	if src.Database != "" {
		st, err := store.Open(src.Database)
		if err != nil {
			return nil, &catalog.LoadError{Code: ErrCodeStore, Message: err.Error()}
		}
		defer st.Close()

		fleet, err := st.ReadFleet(ctx)
		if err != nil {
			return nil, &catalog.LoadError{Code: ErrCodeStore, Message: err.Error()}
		}
		logger.Debug("fleet read from snapshot",
			"db", src.Database,
			"assets", len(fleet.Assets),
			"sensors", len(fleet.Sensors))
		return fleet, nil
	}

	res, err := catalog.LoadDir(src.Dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("fleet loaded",
		"dir", src.Dir,
		"files", res.FileCount,
		"assets", len(res.Fleet.Assets),
		"sensors", len(res.Fleet.Sensors))

	for _, v := range catalog.Validate(res.Fleet) {
		logger.Warn("fleet validation", "code", v.Code, "field", v.Field, "message", v.Message)
	}
	return res.Fleet, nil
}

// fleetError reports a LoadFleet failure through the formatter and
// converts it to a command error.
func fleetError(formatter *OutputFormatter, err error) error {
	code := catalog.Code(err)
	message := err.Error()
	var le *catalog.LoadError
	if errors.As(err, &le) {
		message = le.Message
	}
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// findAsset looks up an asset or reports it missing.
func findAsset(formatter *OutputFormatter, fleet *model.Fleet, id string) (*model.AssetRecord, error) {
	rec, ok := fleet.FindAsset(id)
	if !ok {
		msg := fmt.Sprintf("asset %q not found", id)
		_ = formatter.Error(ErrCodeUnknownAsset, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return rec, nil
}
