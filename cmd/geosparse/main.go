// SPDX-License-Identifier: MIT

// Command geosparse assembles, converts, stores and solves sparse
// finite-element systems from the command line.
//
//	geosparse grid --nx 64 --ny 64 --h 0.1 --shift 1 --out K.txt --store K
//	geosparse solve --store K --out x.txt
//	geosparse spy --in K.map --out K.png
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "geosparse:", err)
		stop()
		os.Exit(1)
	}
}
