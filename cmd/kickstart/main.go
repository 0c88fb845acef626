// Command kickstart inspects the bootstrap lifecycle. It prints the
// checkpoint catalog and runs a demo bootstrap that reports every
// checkpoint it reaches.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Stderr.Write(fmt.Appendf(nil, "kickstart: %s\n", err))
		os.Exit(1)
	}
}
