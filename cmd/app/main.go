// Command app runs the core: the HTTP API of spec.md §6 and the NEFT hourly
// batch ticker of spec.md §4.3, sharing one process and one Launcher.
package main

import (
	"github.com/fernbank/core/internal/bootstrap"
)

func main() {
	bootstrap.InitServers().Run()
}
