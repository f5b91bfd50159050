// platdef inspects platform definition images from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "platdef error: %s\n", err)
		os.Exit(1)
	}
}
