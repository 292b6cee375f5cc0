// Command dbgm manages a catalog of desktop backgrounds drawn from image folders.
package main

import (
	"os"

	"github.com/custodia-labs/dbgm/internal/adapters/driving/cli"
)

// version is set by the linker at release time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(buildServices); err != nil {
		os.Exit(1)
	}
}
