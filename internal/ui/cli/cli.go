// Package cli implements a command-line UI for playing mine-discovery boards.
package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/janpfeifer/minesGo/internal/mines"
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

func printCentered(block string) {
	lines := strings.Split(block, "\n")
	terminalWidth, _, _ := term.GetSize(int(os.Stdout.Fd()))
	blockWidth := 0
	for _, line := range lines {
		if w := displayWidth(line); w > blockWidth {
			blockWidth = w
		}
	}
	indent := (terminalWidth - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if len(line) == 0 {
			fmt.Println()
			continue
		}
		fmt.Printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// UI plays one slot of a batch interactively on the terminal.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
}

// New creates a UI reading commands from stdin.
func New(color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(os.Stdin),
	}
}

// CommandKind enumerates what the player can ask for.
type CommandKind int

const (
	CommandReveal CommandKind = iota
	CommandMark
	CommandCascade
	CommandQuit
)

// Command is one parsed player command. Cell is meaningful for reveal, mark
// and, when HasCell is set, cascade.
type Command struct {
	Kind    CommandKind
	Cell    mines.Cell
	HasCell bool
}

var (
	actionParser  = regexp.MustCompile(`^\s*([rRmM])[\s,]+(\d+)[\s,]+(\d+)[\s,]*$`)
	cascadeParser = regexp.MustCompile(`^\s*[cC](?:[\s,]+(\d+)[\s,]+(\d+))?[\s,]*$`)
	quitParser    = regexp.MustCompile(`^\s*[qQ](?:uit)?\s*$`)

	parsingErrorMsg = "failed to read command 3 times"
)

// ReadCommand prompts for and parses the next command for the given slot:
//
//	r ROW COL   reveal a cell
//	m ROW COL   mark a cell as a hazard
//	c [ROW COL] cascade from a cell, or auto-seeded when no cell is given
//	q           quit
func (ui *UI) ReadCommand(b *mines.Board, slot int) (cmd Command, err error) {
	// ANSI escape codes for:
	// - \033[7m:  Reverse video (swap foreground and background)
	// - \033[45m: Set background color to magenta (purple-ish)
	// - \033[0m:  Reset all attributes to defaults
	const (
		inputAreaColor = "\033[30;45;2m"        // Purplish background
		inputAreaReset = "\033[39;49;0m\033[0K" // Reset color and clear to the end-of-line.
		inputWidth     = 14                     // Width of the input area
	)

	for numErrs := 0; numErrs < 3; numErrs++ {
		cmd = Command{}
		fmt.Print("    move > ")

		// Print "input area" in purple, and move the cursor back to the beginning of the input area.
		fmt.Printf("%s%s", inputAreaColor, strings.Repeat(" ", inputWidth))
		fmt.Printf("\033[%dD", inputWidth-1) // Left 1 char padding.

		var text string
		text, err = ui.reader.ReadString('\n')
		fmt.Printf(inputAreaReset) // We don't want the purple color to leak.
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)

		if quitParser.MatchString(text) {
			return Command{Kind: CommandQuit}, nil
		}
		if matches := actionParser.FindStringSubmatch(text); len(matches) == 4 {
			cmd.Kind = CommandReveal
			if strings.EqualFold(matches[1], "m") {
				cmd.Kind = CommandMark
			}
			cmd.Cell, err = ui.parseCell(b, slot, matches[2], matches[3])
			if err != nil {
				fmt.Printf("    * %v, please try again.\n", err)
				continue
			}
			cmd.HasCell = true
			if b.IsRevealed(slot, cmd.Cell.Row, cmd.Cell.Col) {
				fmt.Printf("    * Cell (%d, %d) is already revealed.\n", cmd.Cell.Row, cmd.Cell.Col)
				continue
			}
			return cmd, nil
		}
		if matches := cascadeParser.FindStringSubmatch(text); matches != nil {
			cmd.Kind = CommandCascade
			if matches[1] != "" {
				cmd.Cell, err = ui.parseCell(b, slot, matches[1], matches[2])
				if err != nil {
					fmt.Printf("    * %v, please try again.\n", err)
					continue
				}
				cmd.HasCell = true
			}
			return cmd, nil
		}
		fmt.Printf("    * Failed to parse your input %q, please try again.\n", text)
	}
	err = errors.New(parsingErrorMsg)
	return
}

func (ui *UI) parseCell(b *mines.Board, slot int, rowStr, colStr string) (mines.Cell, error) {
	row, err := strconv.Atoi(rowStr)
	if err != nil {
		return mines.Cell{}, fmt.Errorf("failed to parse row %q", rowStr)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return mines.Cell{}, fmt.Errorf("failed to parse column %q", colStr)
	}
	if row >= b.Rows() || col >= b.Columns() {
		return mines.Cell{}, fmt.Errorf("cell (%d, %d) is outside the %dx%d board",
			row, col, b.Rows(), b.Columns())
	}
	return mines.Cell{Slot: slot, Row: row, Col: col}, nil
}

// Run plays the slot until it completes or the player quits: print the
// board, read one command, apply it, repeat. The final board and outcome
// banner are printed when the slot completes.
func (ui *UI) Run(b *mines.Board, slot int) error {
	moveNumber := 1
	for b.IsActive(slot) {
		ui.Print(b, slot, moveNumber)
		fmt.Println()
		cmd, err := ui.ReadCommand(b, slot)
		if err == io.EOF {
			return nil
		}
		if err != nil && err.Error() == parsingErrorMsg {
			continue
		}
		if err != nil {
			return err
		}
		switch cmd.Kind {
		case CommandQuit:
			return nil
		case CommandCascade:
			if cmd.HasCell {
				err = b.Cascade(cmd.Cell)
			} else {
				err = b.Cascade()
			}
		case CommandReveal:
			_, err = b.Move(cellMask(b, cmd.Cell), nil)
		case CommandMark:
			_, err = b.Move(nil, cellMask(b, cmd.Cell))
		}
		if err != nil {
			return err
		}
		moveNumber++
	}
	ui.PrintOutcome(b, slot)
	return nil
}

func cellMask(b *mines.Board, c mines.Cell) []bool {
	mask := make([]bool, b.N()*b.Size())
	mask[c.Slot*b.Size()+c.Row*b.Columns()+c.Col] = true
	return mask
}

// Print clears the screen (if configured), prints the header line and the
// board of the given slot.
func (ui *UI) Print(b *mines.Board, slot, moveNumber int) {
	if ui.clearScreen {
		fmt.Print("\033c")
	}
	if ui.color {
		fmt.Print("\033[37;03;1m")
	}
	fmt.Printf("\nMove #%d, %d hazards, progress %.0f%%%s\n\n",
		moveNumber, b.HazardCounts()[slot], b.Progress(false)[slot]*100, ui.colorEnd())
	ui.PrintBoard(b, slot)
}

// PrintBoard prints the slot's grid as the player may see it: the status
// view while the slot is active, the full-knowledge view once it completed.
func (ui *UI) PrintBoard(b *mines.Board, slot int) {
	ui.PrintBoardOverlay(b, slot, nil)
}

// PrintBoardOverlay is PrintBoard with an optional per-cell probability
// overlay (one float32 per cell of the slot, row-major): hidden cells show
// the probability as a single 0..9 digit of tenths instead of their glyph.
// Solvers can use it to display their hazard estimates; nil disables it.
func (ui *UI) PrintBoardOverlay(b *mines.Board, slot int, probs []float32) {
	codes := b.Status(false)
	if !b.IsActive(slot) {
		codes = b.ExportCells()
	}
	plane := codes[slot*b.Size() : (slot+1)*b.Size()]
	fatal := b.FatalCells()[slot*b.Size() : (slot+1)*b.Size()]

	var buf bytes.Buffer
	// Column ruler (units digit), readable up to the widest preset.
	_, _ = fmt.Fprint(&buf, "    ")
	for col := 0; col < b.Columns(); col++ {
		_, _ = fmt.Fprintf(&buf, "%d ", col%10)
	}
	_, _ = fmt.Fprintln(&buf)
	for row := 0; row < b.Rows(); row++ {
		_, _ = fmt.Fprintf(&buf, "%3d ", row)
		for col := 0; col < b.Columns(); col++ {
			idx := row*b.Columns() + col
			var overlay float32 = -1
			if probs != nil && plane[idx] == mines.StatusHidden {
				overlay = probs[idx]
			}
			_, _ = fmt.Fprint(&buf, ui.cellGlyph(plane[idx], fatal[idx], overlay), " ")
		}
		_, _ = fmt.Fprintln(&buf)
	}
	printCentered(buf.String())
}

// cellGlyph renders one cell: numbers in the classic palette, dimmed dots
// for hidden cells, flags for marks, asterisks for hazards (only present in
// completed slots) and a blinking highlight on the fatal cell.
func (ui *UI) cellGlyph(code int8, fatal int8, overlay float32) string {
	if overlay >= 0 {
		digit := int(overlay * 10)
		if digit > 9 {
			digit = 9
		}
		return ui.dimStart() + strconv.Itoa(digit) + ui.colorEnd()
	}
	switch {
	case code == 0:
		return " "
	case code >= 1 && code <= 8:
		return ui.numberColor(code) + strconv.Itoa(int(code)) + ui.colorEnd()
	case code == mines.StatusHidden:
		return ui.dimStart() + "·" + ui.colorEnd()
	case code == mines.StatusMarked:
		return ui.markColor() + "⚑" + ui.colorEnd()
	case code == mines.StatusHazard:
		glyph := ui.hazardColor() + "✱" + ui.colorEnd()
		if fatal == -1 {
			glyph = ui.blinkStart() + ui.hazardColor() + "✱" + ui.colorEnd()
		}
		return glyph
	}
	return "?"
}

// PrintOutcome prints the final board with a win or loss banner.
func (ui *UI) PrintOutcome(b *mines.Board, slot int) {
	fmt.Println()
	ui.PrintBoard(b, slot)
	fmt.Println()
	if b.HasWon(slot) {
		printCentered(
			lipgloss.NewStyle().
				Background(lipgloss.Color("10")).
				Foreground(lipgloss.Color("0")).
				Padding(1, 2).
				Render("*** BOARD CLEARED! Congratulations! ***"))
	} else {
		printCentered(
			lipgloss.NewStyle().
				Background(lipgloss.Color("9")).
				Foreground(lipgloss.Color("0")).
				Padding(1, 2).
				Render(fmt.Sprintf("*** HAZARD HIT, progress %.0f%% ***",
					b.Progress(false)[slot]*100)))
	}
	fmt.Println()
}

// Classic number palette: 1 blue, 2 green, 3 red, 4 navy, 5 maroon, 6 teal,
// 7 magenta, 8 white.
var numberColors = [9]string{
	"",
	"\033[34;1m", "\033[32;1m", "\033[31;1m", "\033[34m",
	"\033[31m", "\033[36m", "\033[35m", "\033[37;1m",
}

func (ui *UI) numberColor(code int8) string {
	if !ui.color {
		return ""
	}
	return numberColors[code]
}

func (ui *UI) markColor() string {
	if !ui.color {
		return ""
	}
	return "\033[33;1m"
}

func (ui *UI) hazardColor() string {
	if !ui.color {
		return ""
	}
	return "\033[31;1m"
}

func (ui *UI) dimStart() string {
	if !ui.color {
		return ""
	}
	return "\033[2m"
}

func (ui *UI) blinkStart() string {
	if !ui.color {
		return ""
	}
	return "\033[5m"
}

func (ui *UI) colorEnd() string {
	if !ui.color {
		return ""
	}
	return "\033[39;49;0m"
}
