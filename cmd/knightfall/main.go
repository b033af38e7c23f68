// Command knightfall runs the engine as a UCI-speaking process, reading
// commands from stdin and writing responses to stdout.
package main

import (
	"flag"
	"os"

	"github.com/arjunp/knightfall/engine"
	"github.com/arjunp/knightfall/internal/config"
	"github.com/arjunp/knightfall/internal/xlog"
	"github.com/arjunp/knightfall/protocol"
	"github.com/arjunp/knightfall/search"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file (optional)")
	sanDebug := flag.Bool("san", false, "additionally print each PV in Standard Algebraic Notation as an info string line")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			xlog.Warningf("config: %v (using defaults)", err)
		} else {
			cfg = loaded
		}
	}

	search.ConfigureTime(cfg.Time.MovesToGoDefault, cfg.Time.IncrementFraction, cfg.Time.SafetyMarginMillis)

	h := engine.NewFromConfig(cfg)
	protocol.UCIWithOptions(h, os.Stdin, os.Stdout, protocol.Options{SAN: *sanDebug})
}
