// Package uci implements the input loop and command dispatch for the
// Universal Chess Interface protocol described in the engine's external
// interface.
package uci

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomholub/chesscore/internal/board"
	"github.com/tomholub/chesscore/internal/engine"
	"github.com/tomholub/chesscore/internal/storage"
)

// defaultGoNodes is the node budget a bare `go` with no sub-command uses.
const defaultGoNodes = 500000

// UCI drives the protocol's main loop: one input-reader goroutine reads
// stdin and handles each command in order on that goroutine; only `go`
// hands its search to a separate goroutine, so `stop` and `quit` stay
// responsive while it runs. mu guards the fields below it against concurrent access from
// a `go`-spawned search goroutine racing a `position`/`setoption` issued
// while it runs.
type UCI struct {
	eng *engine.Engine

	store *storage.Store
	opts  *storage.Options

	mu sync.Mutex

	searching  bool
	searchDone chan struct{}

	debugOn bool

	// uciReceived gates every command but `uci` and `quit` until the
	// handshake has happened, per the Idle state of the protocol's state
	// machine: the engine refuses to do anything else until it has
	// announced itself.
	uciReceived bool
}

// New creates a UCI handler around eng, loading persisted options from
// store if one is supplied (nil disables persistence entirely, e.g. in
// tests).
func New(eng *engine.Engine, store *storage.Store) *UCI {
	u := &UCI{eng: eng, store: store, opts: storage.DefaultOptions()}
	if store != nil {
		if opts, err := store.LoadOptions(); err == nil {
			u.opts = opts
		}
	}
	return u
}

// Run reads UCI commands from stdin until `quit` or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if !u.uciReceived && cmd != "uci" && cmd != "quit" {
			fmt.Printf("info string StateError: %q refused before the uci handshake\n", cmd)
			continue
		}

		switch cmd {
		case "uci":
			u.uciReceived = true
			u.handleUCI()
		case "debug":
			u.handleDebug(args)
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "setoption":
			u.handleSetOption(args)
		case "register":
			u.handleRegister(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			// No pondering support: treated as a no-op observation point.
		case "quit":
			u.handleQuit()
			return
		case "d":
			fmt.Print(u.eng.Position().Render(u.renderOptions()))
		case "perft":
			u.handlePerft(args)
		}
	}
}

func (u *UCI) renderOptions() board.RenderOptions {
	return board.RenderOptions{
		Indexes:     u.opts.DebugIndexes,
		SetsDisplay: u.opts.DebugSetsDisplay,
		UseSymbols:  u.opts.DebugUseSymbols,
	}
}

// handleUCI announces the engine, its options, and readiness.
func (u *UCI) handleUCI() {
	fmt.Println("id name chesscore")
	fmt.Println("id author chesscore contributors")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name MultiPV type spin default 1 min 1 max 10")
	fmt.Println("option name DebugIndexes type check default false")
	fmt.Println("option name DebugSetsDisplay type check default false")
	fmt.Println("option name DebugUseSymbols type check default false")
	fmt.Println("uciok")
}

// handleDebug toggles verbose board printing: once on, handlePosition
// prints a board dump after installing the position and after each applied
// move.
func (u *UCI) handleDebug(args []string) {
	if len(args) == 0 {
		return
	}
	u.debugOn = args[0] == "on"
}

// handleNewGame clears the transposition cache and repetition history.
func (u *UCI) handleNewGame() {
	u.eng.Clear()
}

// handlePosition parses and installs a new position:
//
//	position startpos [moves m1 m2 ...]
//	position fen <FEN> [moves m1 m2 ...]
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		moveStart = findMovesKeyword(args, 1)
	case "fen":
		moveStart = findMovesKeyword(args, 1)
		fenEnd := moveStart
		if args[fenEnd-1] == "moves" {
			fenEnd--
		}
		fenStr := strings.Join(args[1:fenEnd], " ")
		parsed, err := board.ParseFEN(fenStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		pos = parsed
	default:
		return
	}

	u.eng.SetPosition(pos)
	if u.debugOn {
		fmt.Print(u.eng.Position().Render(u.renderOptions()))
	}

	for _, moveStr := range args[moveStart:] {
		m := parseUCIMove(moveStr, u.eng.Position())
		if m == board.NoMove {
			fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", moveStr)
			return
		}
		u.eng.Push(m)
		if u.debugOn {
			fmt.Print(u.eng.Position().Render(u.renderOptions()))
		}
	}
}

// findMovesKeyword returns the index just past the first "moves" in args at
// or after `from` (the index of the first move), or len(args) if absent.
func findMovesKeyword(args []string, from int) int {
	for i := from; i < len(args); i++ {
		if args[i] == "moves" {
			return i + 1
		}
	}
	return len(args)
}

// parseUCIMove resolves a long-algebraic UCI move string against the set
// of moves legal in pos.
func parseUCIMove(s string, pos *board.Position) board.Move {
	m, err := board.ParseUCIMove(s, pos)
	if err != nil {
		return board.NoMove
	}
	return m
}

// goOptions holds the parsed `go` sub-command arguments.
type goOptions struct {
	perftDepth int
	isPerft    bool
	depth      int
	nodes      uint64
	moveTime   time.Duration
	infinite   bool
	wtime      time.Duration
	btime      time.Duration
	winc       time.Duration
	binc       time.Duration
	movesToGo  int
}

func (u *UCI) parseGoOptions(args []string) goOptions {
	opts := goOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "perft":
			opts.isPerft = true
			if i+1 < len(args) {
				opts.perftDepth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "depth":
			if i+1 < len(args) {
				opts.depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.moveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.wtime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.btime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.winc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.binc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.movesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	if !opts.isPerft && opts.depth == 0 && opts.nodes == 0 && opts.moveTime == 0 &&
		!opts.infinite && opts.wtime == 0 && opts.btime == 0 {
		opts.nodes = defaultGoNodes
	}

	return opts
}

// handleGo starts a search (or a perft run) in its own goroutine, per the
// concurrency model's one-search-goroutine-per-`go` rule.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	if opts.isPerft {
		u.runPerft(opts.perftDepth)
		return
	}

	limits := u.calculateLimits(opts)

	u.mu.Lock()
	u.searching = true
	u.searchDone = make(chan struct{})
	done := u.searchDone
	u.mu.Unlock()

	u.eng.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	go func() {
		defer close(done)

		result := u.eng.SearchWithLimits(limits)

		u.mu.Lock()
		u.searching = false
		u.mu.Unlock()

		if result.Move != board.NoMove {
			fmt.Printf("bestmove %s\n", result.Move.String())
			return
		}

		// No move at all: checkmate or stalemate at the root.
		fmt.Println("bestmove 0000")
	}()
}

func (u *UCI) calculateLimits(opts goOptions) engine.SearchLimits {
	limits := engine.SearchLimits{}

	if opts.infinite {
		limits.Infinite = true
		return limits
	}
	if opts.depth > 0 {
		limits.Depth = opts.depth
	}
	if opts.nodes > 0 {
		limits.Nodes = opts.nodes
	}

	if opts.moveTime > 0 {
		limits.MoveTime = opts.moveTime
	} else if opts.wtime > 0 || opts.btime > 0 {
		limits.MoveTime = u.calculateTimeForMove(opts)
	}

	return limits
}

// calculateTimeForMove is a hard-deadline-only time allocation: split the
// side to move's remaining clock across an estimate of the moves left, add
// most of the increment, and cap at 90% of the remaining clock. There is
// no further heuristic layer (stability tracking, aspiration-driven early
// stop) beyond this single deadline.
func (u *UCI) calculateTimeForMove(opts goOptions) time.Duration {
	pos := u.eng.Position()

	var ourTime, ourInc time.Duration
	if pos.SideToMove == board.White {
		ourTime, ourInc = opts.wtime, opts.winc
	} else {
		ourTime, ourInc = opts.btime, opts.binc
	}

	movesRemaining := opts.movesToGo
	if movesRemaining == 0 {
		movesRemaining = estimateMovesRemaining(pos)
	}

	baseTime := ourTime / time.Duration(movesRemaining)
	moveTime := baseTime + (ourInc * 90 / 100)

	if maxTime := ourTime * 90 / 100; moveTime > maxTime {
		moveTime = maxTime
	}
	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}
	return moveTime
}

func estimateMovesRemaining(pos *board.Position) int {
	total := pos.AllOccupied.PopCount()
	switch {
	case total > 24:
		return 40
	case total > 12:
		return 30
	default:
		return 20
	}
}

// sendInfo emits one `info` line per completed iterative-deepening depth.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateScore-engine.MaxPly {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+engine.MaxPly {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	if len(info.PV) > 0 {
		parts = append(parts, "currmove "+info.PV[0].String())
	}
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		moveStrs := make([]string, len(info.PV))
		for i, m := range info.PV {
			moveStrs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(moveStrs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop requests the active search to abort and waits for its
// `bestmove` to be emitted, per the UCI state machine's Stopping state.
func (u *UCI) handleStop() {
	u.mu.Lock()
	searching := u.searching
	done := u.searchDone
	u.mu.Unlock()

	if !searching {
		return
	}
	u.eng.Stop()
	<-done
}

// handleQuit stops any active search, persists options, and exits.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.store != nil {
		if err := u.store.SaveOptions(u.opts); err != nil {
			log.Printf("uci: failed to persist options: %v", err)
		}
		u.store.Close()
	}
}

// handleSetOption processes `setoption name <N> value <V>`.
func (u *UCI) handleSetOption(args []string) {
	name, value := parseNameValue(args)

	switch strings.ToLower(name) {
	case "hash":
		// Accepted for UCI conformance; the per-depth cache grows lazily
		// rather than being preallocated to a fixed byte budget.
	case "multipv":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			u.opts.MultiPV = n
		}
	case "debugindexes":
		u.opts.DebugIndexes = strings.EqualFold(value, "true")
	case "debugsetsdisplay":
		u.opts.DebugSetsDisplay = strings.EqualFold(value, "true")
	case "debugusesymbols":
		u.opts.DebugUseSymbols = strings.EqualFold(value, "true")
	}

	if u.store != nil {
		if err := u.store.SaveOptions(u.opts); err != nil {
			log.Printf("uci: failed to persist options: %v", err)
		}
	}
}

func parseNameValue(args []string) (name, value string) {
	readingName, readingValue := false, false
	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			switch {
			case readingName:
				if name != "" {
					name += " "
				}
				name += arg
			case readingValue:
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}
	return name, value
}

// handleRegister processes `register later` or `register name <N> code <C>`.
func (u *UCI) handleRegister(args []string) {
	if u.store == nil || len(args) == 0 {
		return
	}

	reg := &storage.Registration{}
	if args[0] == "later" {
		reg.Later = true
	} else {
		for i := 0; i < len(args)-1; i++ {
			switch args[i] {
			case "name":
				reg.Name = args[i+1]
			case "code":
				reg.Code = args[i+1]
			}
		}
	}

	if err := u.store.SaveRegistration(reg); err != nil {
		log.Printf("uci: failed to persist registration: %v", err)
	}
}

// handlePerft runs a synchronous perft test rooted at the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	u.runPerft(depth)
}

func (u *UCI) runPerft(depth int) {
	pos := u.eng.Position()

	start := time.Now()
	nodes := engine.Perft(pos, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
