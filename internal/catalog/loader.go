package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/assetcare/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// LoadResult contains a compiled fleet and where it came from.
type LoadResult struct {
	Fleet     *model.Fleet
	FileCount int // Number of CUE files found
}

// LoadDir loads, schema-checks and compiles the CUE package in dir.
func LoadDir(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fleet directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing fleet directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fromCUE(ErrCodeLoadFailed, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	result, err := compileValue(ctx, value)
	if err != nil {
		return nil, err
	}
	result.FileCount = len(files)
	return result, nil
}

// LoadSource compiles a single in-memory CUE document. The filename is
// only used in error positions.
func LoadSource(filename, src string) (*LoadResult, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename(filename))
	result, err := compileValue(ctx, value)
	if err != nil {
		return nil, err
	}
	result.FileCount = 1
	return result, nil
}

func compileValue(ctx *cue.Context, value cue.Value) (*LoadResult, error) {
	if err := value.Err(); err != nil {
		return nil, fromCUE(ErrCodeBuildFailed, err)
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("catalog: embedded schema: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUE(ErrCodeBuildFailed, err)
	}

	fleet, err := CompileFleet(unified)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Fleet: fleet}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
