// Command chesscore-uci runs the engine as a UCI-speaking subprocess,
// reading commands from stdin and writing protocol responses to stdout.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/tomholub/chesscore/internal/engine"
	"github.com/tomholub/chesscore/internal/storage"
	"github.com/tomholub/chesscore/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	hashMB := 64
	if v := os.Getenv("CHESSCORE_HASH_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hashMB = n
		}
	}

	eng := engine.NewEngine(hashMB)

	store, err := openConfigStore()
	if err != nil {
		log.Printf("config store unavailable, options won't persist: %v", err)
		store = nil
	}

	protocol := uci.New(eng, store)
	protocol.Run()
}

// openConfigStore opens the badger-backed option/registration store,
// honoring CHESSCORE_DATA_DIR to redirect it away from the platform
// default (used in tests and containerized deployments).
func openConfigStore() (*storage.Store, error) {
	if dir := os.Getenv("CHESSCORE_DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		return storage.OpenAt(dir)
	}
	return storage.Open()
}
