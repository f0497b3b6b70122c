// Command goecma is the CLI host harness around the evaluation core: it
// decodes a JSON-encoded parse tree and runs it through realm bootstrap and
// the evaluator (spec §1, §6 — the source-text parser itself is a separate,
// out-of-scope concern).
package main

import (
	"os"

	"github.com/cwbudde/goecma/cmd/goecma/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.ExitWithError("%v", err)
		os.Exit(1)
	}
}
