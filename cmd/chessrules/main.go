package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/console"
	"github.com/hailam/chessrules/internal/perft"
	"github.com/hailam/chessrules/internal/render"
	"github.com/hailam/chessrules/internal/storage"
)

// errMismatch reports a failed -verify run; the mismatches are already printed.
var errMismatch = errors.New("perft counts differ from the reference generator")

type config struct {
	fen         string
	depth       int
	divide      bool
	verify      bool
	parallel    int
	useStore    bool
	dbDir       string
	renderPath  string
	squareSize  int
	flip        bool
	consoleMode bool
	cpuprofile  string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("chessrules", flag.ContinueOnError)
	fs.StringVar(&cfg.fen, "fen", board.StartFEN, "position to work on (FEN or \"startpos\")")
	fs.IntVar(&cfg.depth, "depth", 5, "perft depth")
	fs.BoolVar(&cfg.divide, "divide", false, "print the node count below every root move")
	fs.BoolVar(&cfg.verify, "verify", false, "compare per-move counts with an independent move generator")
	fs.IntVar(&cfg.parallel, "parallel", 0, "split root moves over this many goroutines (0 runs sequentially)")
	fs.BoolVar(&cfg.useStore, "store", false, "look up and record results in the perft store")
	fs.StringVar(&cfg.dbDir, "db", "", "perft store directory (default: data dir, or $CHESSRULES_DB)")
	fs.StringVar(&cfg.renderPath, "render", "", "write a PNG diagram of the position to this file and exit")
	fs.IntVar(&cfg.squareSize, "size", render.DefaultSquareSize, "diagram square size in pixels")
	fs.BoolVar(&cfg.flip, "flip", false, "draw the diagram from Black's side")
	fs.BoolVar(&cfg.consoleMode, "console", false, "read commands from stdin")
	fs.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes one invocation and returns the process exit code. Deferred
// cleanup, such as stopping the CPU profile, completes before it returns.
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, err := parseFlags(args)
	if err != nil {
		return 2
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := cfg.cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Print("could not create CPU profile: ", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Print("could not start CPU profile: ", err)
			return 1
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := dispatch(cfg, stdin, stdout); err != nil {
		if !errors.Is(err, errMismatch) {
			log.Print(err)
		}
		return 1
	}
	return 0
}

func dispatch(cfg *config, stdin io.Reader, stdout io.Writer) error {
	pos, err := board.ParseFEN(cfg.fen)
	if err != nil {
		return err
	}

	renderOpts := render.Options{SquareSize: cfg.squareSize, Flip: cfg.flip, Coordinates: true}

	switch {
	case cfg.consoleMode:
		return runConsole(cfg, renderOpts, stdin, stdout)
	case cfg.renderPath != "":
		return writeDiagram(cfg, pos, renderOpts)
	case cfg.verify:
		return runVerify(cfg, pos, stdout)
	case cfg.divide:
		return runDivide(cfg, pos, stdout)
	default:
		return runPerft(cfg, pos, stdout)
	}
}

func runConsole(cfg *config, opts render.Options, stdin io.Reader, stdout io.Writer) error {
	c := console.New(stdout, os.Stderr)
	c.RenderOptions = opts
	if cfg.fen != board.StartFEN {
		if _, err := c.Execute("position fen " + cfg.fen); err != nil {
			return err
		}
	}
	return c.Run(stdin)
}

func writeDiagram(cfg *config, pos *board.Position, opts render.Options) error {
	f, err := os.Create(cfg.renderPath)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, pos, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Diagram written to %s", cfg.renderPath)
	return nil
}

func runVerify(cfg *config, pos *board.Position, stdout io.Writer) error {
	mismatches := perft.Verify(pos, cfg.depth)
	if len(mismatches) == 0 {
		fmt.Fprintf(stdout, "perft(%d) verified: %d nodes\n", cfg.depth, perft.Count(pos, cfg.depth))
		return nil
	}
	for _, m := range mismatches {
		fmt.Fprintf(stdout, "%s: got %d, want %d\n", m.Move, m.Got, m.Want)
	}
	return errMismatch
}

// divideCounts runs a divide, in parallel when -parallel is set.
func divideCounts(cfg *config, pos *board.Position) (map[string]uint64, error) {
	counter := perft.NewCounter(perft.NewCache(1 << 22))
	if cfg.parallel < 1 {
		return counter.Divide(pos, cfg.depth), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return counter.Parallel(ctx, pos, cfg.depth, cfg.parallel)
}

func runDivide(cfg *config, pos *board.Position, stdout io.Writer) error {
	result, err := divideCounts(cfg, pos)
	if err != nil {
		return err
	}
	for _, m := range perft.SortedMoves(result) {
		fmt.Fprintf(stdout, "%s: %d\n", m, result[m])
	}
	fmt.Fprintf(stdout, "\nNodes searched: %d\n", perft.Total(result))
	return nil
}

func openStore(cfg *config) (*storage.Storage, error) {
	if cfg.dbDir != "" {
		return storage.Open(cfg.dbDir)
	}
	return storage.NewStorage()
}

func runPerft(cfg *config, pos *board.Position, stdout io.Writer) error {
	fen := pos.ToFEN()

	var store *storage.Storage
	if cfg.useStore {
		var err error
		store, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if r, ok, err := store.Get(fen, cfg.depth); err != nil {
			log.Printf("Warning: store lookup failed: %v", err)
		} else if ok {
			log.Printf("Stored result from %s", r.RecordedAt.Format(time.RFC3339))
			fmt.Fprintf(stdout, "Nodes: %d\n", r.Nodes)
			return nil
		}
	}

	start := time.Now()
	var nodes uint64
	if cfg.depth > 0 {
		result, err := divideCounts(cfg, pos)
		if err != nil {
			return err
		}
		nodes = perft.Total(result)
	} else {
		nodes = perft.Count(pos, cfg.depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Nodes: %d\n", nodes)
	fmt.Fprintf(stdout, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(stdout, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}

	if store != nil {
		r := storage.Result{FEN: fen, Depth: cfg.depth, Nodes: nodes, Elapsed: elapsed}
		if err := store.Put(r); err != nil {
			log.Printf("Warning: could not store result: %v", err)
		}
	}
	return nil
}
