// Command keel runs the editor.
//
// Usage:
//
//	keel [-config DIR] [file ...]
//
// Exit code 0 on clean shutdown, 1 on unrecoverable init failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/keel/internal/app"
)

func main() {
	configDir := flag.String("config", "", "configuration folder (default ~/.keel)")
	flag.Parse()

	ed, err := app.New(app.Options{
		ConfigDir: *configDir,
		Files:     flag.Args(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "keel: %v\n", err)
		os.Exit(1)
	}

	if err := ed.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "keel: %v\n", err)
		os.Exit(1)
	}
}
