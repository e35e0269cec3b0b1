// Command engramd is the incremental-learning review engine's
// executable: an HTTP API plus a terminal review workflow.
package main

import "github.com/engramd/engram/internal/cli"

func main() {
	cli.Execute()
}
