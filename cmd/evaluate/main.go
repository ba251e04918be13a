// Command evaluate measures a solver configuration over many batches of
// mine-discovery boards and reports win rate, progress and fatal moves.
package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gomlx/gomlx/types/tensors"
	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/minesGo/internal/dataset"
	"github.com/janpfeifer/minesGo/internal/mines"
	"github.com/janpfeifer/minesGo/internal/profilers"
	"github.com/janpfeifer/minesGo/internal/solvers"
	"github.com/janpfeifer/minesGo/internal/ui/cli"
	"github.com/janpfeifer/minesGo/internal/ui/spinning"
)

var (
	flagConfig      = flag.String("config", solvers.DefaultSolverConfig, "Solver configuration to evaluate.")
	flagPreset      = flag.String("preset", "beginner", "Preset board to evaluate on.")
	flagPresetsFile = flag.String("presets_file", "", "YAML file with extra presets, merged over the built-in ones.")
	flagNumBatches  = flag.Int("num_batches", 100, "Number of batches to play.")
	flagBatchSize   = flag.Int("batch_size", 64, "Boards per batch, all advanced in lockstep.")
	flagMaxMoves    = flag.Int("max_moves", 256, "Max solver moves per batch before giving up on the remaining boards.")
	flagOpen        = flag.Bool("open", true, "Start each batch with an auto-seeded cascade, like the usual free first click.")
	flagSeed        = flag.Uint64("seed", 0, "Seed for reproducible board generation. 0 picks a random one.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many batches simultaneously.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print a board at each step. "+
		"Very verbose, and you probably want to set flagParallelism to 1.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagNumBatches <= 0 || *flagBatchSize <= 0 {
		klog.Fatalf("Invalid -num_batches=%d / -batch_size=%d, both must be > 0", *flagNumBatches, *flagBatchSize)
	}
	if *flagMaxMoves <= 0 {
		klog.Fatalf("Invalid -max_moves=%d", *flagMaxMoves)
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	preset := must.M1(loadPreset())
	must.M(runBatches(globalCtx, preset))
}

// loadPreset merges -presets_file (if given) over the built-in presets and
// resolves -preset.
func loadPreset() (mines.Preset, error) {
	if *flagPresetsFile != "" {
		data, err := os.ReadFile(*flagPresetsFile)
		if err != nil {
			return mines.Preset{}, err
		}
		custom, err := mines.ParsePresets(data)
		if err != nil {
			return mines.Preset{}, err
		}
		maps.Copy(mines.Presets, custom)
	}
	return mines.PresetByName(*flagPreset)
}

type Results struct {
	mu                          sync.Mutex
	start                       time.Time
	batchesPlayed, batchesTotal int

	boards, won, lost, stalled int
	progressSum                float64
	moves                      int
	wrongReveals, wrongMarks   int
}

func (r *Results) add(o batchOutcome, boards int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchesPlayed++
	r.boards += boards
	r.won += o.won
	r.lost += o.lost
	r.stalled += o.stalled
	r.progressSum += o.progressSum
	r.moves += o.moves
	r.wrongReveals += o.wrongReveals
	r.wrongMarks += o.wrongMarks
}

func (r *Results) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d batches: ", r.batchesPlayed, r.batchesTotal))
	if r.boards > 0 {
		parts = append(parts, fmt.Sprintf("won %d/%d (%.1f%%), stalled %d / ",
			r.won, r.boards, 100*float64(r.won)/float64(r.boards), r.stalled))
		parts = append(parts, fmt.Sprintf("mean progress %.1f%% - ",
			100*r.progressSum/float64(r.boards)))
	}
	parts = append(parts, time.Since(r.start).Round(time.Millisecond).String())
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

// report prints the final numbers, once all batches finished.
func (r *Results) report() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Printf("Evaluated %q on %d boards (%d batches of %d, preset %q):\n",
		*flagConfig, r.boards, r.batchesPlayed, *flagBatchSize, *flagPreset)
	if r.boards == 0 {
		return
	}
	fmt.Printf("  won %d (%.1f%%), lost %d, stalled %d\n",
		r.won, 100*float64(r.won)/float64(r.boards), r.lost, r.stalled)
	fmt.Printf("  mean progress %.1f%%, mean moves per batch %.1f\n",
		100*r.progressSum/float64(r.boards), float64(r.moves)/float64(r.batchesPlayed))
	fmt.Printf("  fatal cells: %d wrong reveals, %d wrong marks\n", r.wrongReveals, r.wrongMarks)
	fmt.Printf("  elapsed %s\n", time.Since(r.start).Round(time.Millisecond))
}

func runBatches(ctx context.Context, preset mines.Preset) error {
	r := &Results{
		start:        time.Now(),
		batchesTotal: *flagNumBatches,
	}
	var wg errgroup.Group
	parallelism := getParallelism()
	wg.SetLimit(parallelism)
	spinner := spinning.NewWithStatus(ctx, r.String)

	for batchIdx := range r.batchesTotal {
		wg.Go(func() error {
			o, err := runBatch(ctx, batchIdx, preset)
			if err != nil || ctx.Err() != nil {
				return err
			}
			r.add(o, *flagBatchSize)
			return nil
		})
	}
	err := wg.Wait()
	spinner.Done()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	if err != nil {
		return err
	}
	r.report()
	return nil
}

// batchOutcome aggregates what happened to one batch.
type batchOutcome struct {
	won, lost, stalled       int
	progressSum              float64
	moves                    int
	wrongReveals, wrongMarks int
}

var (
	stepUI   = cli.New(true, false)
	muStepUI sync.Mutex
)

// runBatch plays one batch to completion (or stall/move cap) with a fresh
// solver and returns its outcome.
func runBatch(ctx context.Context, batchIdx int, preset mines.Preset) (o batchOutcome, err error) {
	if ctx.Err() != nil {
		// Evaluation already interrupted.
		return
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting batch %d", batchIdx)
		defer klog.Infof("Finished batch %d", batchIdx)
	}

	var board *mines.Board
	if *flagSeed != 0 {
		rng := rand.New(rand.NewPCG(*flagSeed, uint64(batchIdx)))
		board, err = preset.BatchWithRand(rng, *flagBatchSize)
	} else {
		board, err = preset.Batch(*flagBatchSize)
	}
	if err != nil {
		return
	}
	runName := fmt.Sprintf("Batch-%05d", batchIdx)
	solver, err := solvers.New(uint64(batchIdx), runName, *flagConfig)
	if err != nil {
		return
	}

	if *flagOpen {
		if err = board.Cascade(); err != nil {
			return
		}
	}
	for board.NumActive() > 0 && o.moves < *flagMaxMoves {
		if ctx.Err() != nil {
			klog.V(1).Infof("Batch %d interrupted: %s", batchIdx, ctx.Err())
			return batchOutcome{}, nil
		}
		reveals, marks := solver.Propose(board)
		if !anyTrue(reveals) && !anyTrue(marks) {
			// Solver gave up on the remaining boards.
			break
		}
		if _, err = board.Move(reveals, marks); err != nil {
			return
		}
		o.moves++
		if *flagPrintSteps {
			printStep(board, runName, o.moves)
		}
	}

	o.stalled = board.NumActive()
	for slot := range board.N() {
		if board.HasWon(slot) {
			o.won++
		} else if !board.IsActive(slot) {
			o.lost++
		}
	}
	for _, p := range board.Progress(false) {
		o.progressSum += float64(p)
	}
	for _, code := range tensors.CopyFlatData[int8](dataset.Fatal(board)) {
		switch code {
		case -1:
			o.wrongReveals++
		case 1:
			o.wrongMarks++
		}
	}
	return
}

func printStep(board *mines.Board, runName string, moveNumber int) {
	muStepUI.Lock()
	defer muStepUI.Unlock()
	fmt.Printf("%s, move #%d\n\n", runName, moveNumber)
	slot := 0
	if actives := board.ActiveSlots(); len(actives) > 0 {
		slot = actives[0]
	}
	stepUI.PrintBoard(board, slot)
	fmt.Println()
	fmt.Println("------------------")
}

func anyTrue(mask []bool) bool {
	for _, v := range mask {
		if v {
			return true
		}
	}
	return false
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
