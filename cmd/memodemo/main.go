// Command memodemo runs memoized computations from the command line and
// logs every cache hit and eviction.
//
//	memodemo square 2 3 2 4 5 2
//	memodemo --capacity 4 power 2 3 2 3 3 2
//	memodemo factorial 5 4 6
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	configFile := os.Getenv("MEMODEMO_CONFIG")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	app := newApp(stdout, stderr, configFile)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
