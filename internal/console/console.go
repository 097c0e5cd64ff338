// Package console implements a line-oriented command loop for setting up
// positions and inspecting the move generator.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/perft"
	"github.com/hailam/chessrules/internal/render"
	"golang.org/x/exp/slices"
)

// ErrUnknownCommand is returned by Execute for an unrecognised command.
var ErrUnknownCommand = errors.New("unknown command")

// Console holds the current position of an interactive session.
type Console struct {
	position *board.Position
	out      io.Writer
	errOut   io.Writer

	// Last move applied by a position command, highlighted by render.
	lastMove board.Move
	hasLast  bool

	counter *perft.Counter

	// RenderOptions are used by the render command.
	RenderOptions render.Options
}

// New creates a console at the starting position. Command output goes to
// out and error reports to errOut.
func New(out, errOut io.Writer) *Console {
	return &Console{
		position: board.NewPosition(),
		out:      out,
		errOut:   errOut,
		counter:  perft.NewCounter(perft.NewCache(1 << 20)),
	}
}

// Position returns the current position.
func (c *Console) Position() *board.Position {
	return c.position
}

// Run reads commands from in until "quit" or end of input. Command errors
// are reported as "info string" lines and do not stop the loop.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := c.Execute(line)
		if err != nil {
			fmt.Fprintf(c.errOut, "info string %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. quit is true for the quit command.
func (c *Console) Execute(line string) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "position":
		err = c.handlePosition(args)
	case "moves":
		fmt.Fprintln(c.out, strings.Join(c.position.PseudoLegalMoves().Strings(), " "))
	case "legal":
		moves := c.position.LegalMoves().Strings()
		slices.Sort(moves)
		fmt.Fprintln(c.out, strings.Join(moves, " "))
	case "d":
		fmt.Fprint(c.out, c.position.String())
		fmt.Fprintf(c.out, "Fen: %s\n", c.position.ToFEN())
	case "fen":
		fmt.Fprintln(c.out, c.position.ToFEN())
	case "perft":
		err = c.handlePerft(args)
	case "divide":
		err = c.handleDivide(args)
	case "attacked":
		err = c.handleAttacked(args)
	case "render":
		err = c.handleRender(args)
	case "quit":
		return true, nil
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, err
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves e2e4 e7e5]
//   - position fen <fen> [moves e2e4]
//
// The current position is only replaced when every move applies.
func (c *Console) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("position: expected startpos or fen, got %q", args[0])
	}

	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	if err := ApplyMoves(pos, moves); err != nil {
		return err
	}

	c.position = pos
	c.hasLast = len(moves) > 0
	if c.hasLast {
		c.lastMove = board.MustParseMove(moves[len(moves)-1])
	}
	return nil
}

// ApplyMoves plays moves in coordinate notation on pos. Each move must be
// generated in pos and must not leave the mover's king attacked. The full
// move number is advanced after every Black move. On error pos holds the
// position reached before the failing move.
func ApplyMoves(pos *board.Position, moves []string) error {
	for _, s := range moves {
		m, err := board.ParseMove(s)
		if err != nil {
			return err
		}
		if !pos.PseudoLegalMoves().Contains(m) {
			return fmt.Errorf("%w: %s is not playable here", board.ErrInvalidMove, s)
		}

		next := *pos
		if !next.MakeMove(m) {
			return fmt.Errorf("%w: %s leaves the king in check", board.ErrInvalidMove, s)
		}
		if pos.SideToMove == board.Black {
			next.FullMoveNumber++
		}
		*pos = next
	}
	return nil
}

func parseDepth(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing depth")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("invalid depth %q", args[0])
	}
	return depth, nil
}

// handlePerft runs a perft test.
func (c *Console) handlePerft(args []string) error {
	depth, err := parseDepth(args)
	if err != nil {
		return err
	}

	start := time.Now()
	nodes := c.counter.Count(c.position, depth)
	elapsed := time.Since(start)

	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(c.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(c.out, "NPS: %.0f\n", nps)
	}
	return nil
}

func (c *Console) handleDivide(args []string) error {
	depth, err := parseDepth(args)
	if err != nil {
		return err
	}
	if depth < 1 {
		return errors.New("divide: depth must be at least 1")
	}

	divide := c.counter.Divide(c.position, depth)
	for _, m := range perft.SortedMoves(divide) {
		fmt.Fprintf(c.out, "%s: %d\n", m, divide[m])
	}
	fmt.Fprintf(c.out, "\nNodes searched: %d\n", perft.Total(divide))
	return nil
}

// handleAttacked reports whether a square is attacked by a side.
func (c *Console) handleAttacked(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: attacked <square> <w|b>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	var by board.Color
	switch args[1] {
	case "w":
		by = board.White
	case "b":
		by = board.Black
	default:
		return fmt.Errorf("attacked: invalid side %q", args[1])
	}

	attacked := c.position.IsAttacked(sq, by)
	fmt.Fprintf(c.out, "%v", attacked)
	for _, from := range c.position.AttackersOf(sq, by).Squares() {
		fmt.Fprintf(c.out, " %s", from)
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *Console) handleRender(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: render <file.png>")
	}

	opts := c.RenderOptions
	if c.hasLast {
		opts.Highlight = append(slices.Clone(opts.Highlight), c.lastMove.From(), c.lastMove.To())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, c.position, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "info string wrote %s\n", args[0])
	return nil
}
