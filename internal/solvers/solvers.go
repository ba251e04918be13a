// Package solvers provides automated mine-discovery solvers and a factory
// that builds them from configuration strings.
// It also allows solver providers to register themselves.
package solvers

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/janpfeifer/minesGo/internal/generics"
	"github.com/janpfeifer/minesGo/internal/mines"
	"github.com/janpfeifer/minesGo/internal/parameters"
)

// Solver is anything able to play a batch of boards.
type Solver interface {
	// Propose returns the reveal and mark requests for the next move, as
	// full-batch cell masks suitable for Board.Move; either may be nil.
	// Cells of inactive slots are ignored.
	//
	// Solvers read the board through Status and the dimension accessors
	// only: hazard placement stays hidden from them.
	Propose(board *mines.Board) (reveals, marks []bool)
}

// Module must implement NewSolver, called once at the start of an evaluation
// run. runId is unique among the runs of one evaluation; runName is used for
// logging and debugging.
type Module interface {
	NewSolver(runId uint64, runName string, params parameters.Params) (Solver, error)
}

// moduleRegistration is a reference to the module and its name.
type moduleRegistration struct {
	Module
	Name string
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]moduleRegistration)
)

// RegisterModule so it can be selected by name by any of the front-ends.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = moduleRegistration{Name: name, Module: module}
}

var (
	// DefaultSolverConfig is used if no configuration was given. The value
	// may be changed by the front-end built.
	DefaultSolverConfig = "single"
)

// List returns the registered solver names, sorted.
func List() []string {
	return generics.SortedKeysSlice(keywordToModules)
}

// New creates a new solver given the configuration string.
//
// Args:
//
//	config: the solver name followed by a colon (":"), followed by a
//		comma-separated list of optional parameters with optional values
//		associated, e.g. "single:guess=false,seed=42".
//		If empty, the default is given by DefaultSolverConfig.
//
// More details on the config are dependent on the module used.
func New(runId uint64, runName string, config string) (Solver, error) {
	if config == "" {
		config = DefaultSolverConfig
	}

	// Find moduleName.
	moduleName := config
	if moduleSplit := strings.Index(config, ":"); moduleSplit != -1 {
		moduleName = config[:moduleSplit]
		config = config[moduleSplit+1:]
	} else {
		config = ""
	}
	module, ok := keywordToModules[moduleName]
	if !ok {
		return nil, errors.Errorf("unknown solver %q, registered solvers: %v", moduleName, List())
	}

	params := parameters.NewFromConfigString(config)
	solver, err := module.NewSolver(runId, runName, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create solver %q", moduleName)
	}
	return solver, nil
}

// checkNoLeftovers errors out on parameters the module did not consume,
// catching configuration typos early.
func checkNoLeftovers(params parameters.Params) error {
	if len(params) > 0 {
		return errors.Errorf("unknown parameters %v", generics.SortedKeysSlice(params))
	}
	return nil
}

// solverRand builds the solver's random generator: deterministic from the
// base seed and the run id when seed != 0, otherwise drawn from the global
// source.
func solverRand(seed, runId uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, runId))
}
