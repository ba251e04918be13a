// Command mines plays one mine-discovery board on the terminal, either
// interactively or watching a solver play it (-watch).
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/minesGo/internal/mines"
	"github.com/janpfeifer/minesGo/internal/solvers"
	"github.com/janpfeifer/minesGo/internal/ui/cli"
	"github.com/janpfeifer/minesGo/internal/ui/spinning"
)

var (
	_ = fmt.Printf

	flagPreset  = flag.String("preset", "beginner", "Preset board to play, one of: beginner, intermediate, expert.")
	flagRows    = flag.Int("rows", 0, "Override the preset number of rows.")
	flagColumns = flag.Int("columns", 0, "Override the preset number of columns.")
	flagHazards = flag.Int("hazards", 0, "Override the preset number of hazards.")
	flagOpen    = flag.Bool("open", true, "Start with an auto-seeded cascade, like the usual free first click.")
	flagWatch   = flag.Bool("watch", false, "Watch mode: a solver plays instead of you.")
	flagConfig  = flag.String("config", solvers.DefaultSolverConfig, "Solver configuration to watch, e.g. \"single:seed=42\".")
	flagDelay   = flag.Duration("delay", 500*time.Millisecond, "Pause between solver moves with -watch.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()
	defer spinning.Reset()

	board := must.M1(newBoard())
	if *flagOpen {
		must.M(board.Cascade())
	}
	ui := cli.New(true, true)
	if *flagWatch {
		must.M(watch(board, ui))
		return
	}
	must.M(ui.Run(board, 0))
}

// newBoard builds a single-slot batch from the preset, with the flag overrides applied.
func newBoard() (*mines.Board, error) {
	preset, err := mines.PresetByName(*flagPreset)
	if err != nil {
		return nil, err
	}
	if *flagRows > 0 {
		preset.Rows = *flagRows
	}
	if *flagColumns > 0 {
		preset.Columns = *flagColumns
	}
	if *flagHazards > 0 {
		preset.Hazards = *flagHazards
	}
	return preset.Batch(1)
}

// watch loops the configured solver over the board, printing every move.
func watch(board *mines.Board, ui *cli.UI) error {
	solver, err := solvers.New(0, "Watch", *flagConfig)
	if err != nil {
		return err
	}
	moveNumber := 1
	for board.IsActive(0) {
		if globalCtx.Err() != nil {
			return nil
		}
		ui.Print(board, 0, moveNumber)
		reveals, marks := solver.Propose(board)
		if !anyTrue(reveals) && !anyTrue(marks) {
			fmt.Println("Solver has nothing to propose, stopping.")
			return nil
		}
		if _, err = board.Move(reveals, marks); err != nil {
			return err
		}
		moveNumber++
		time.Sleep(*flagDelay)
	}
	ui.PrintOutcome(board, 0)
	return nil
}

func anyTrue(mask []bool) bool {
	for _, v := range mask {
		if v {
			return true
		}
	}
	return false
}
