package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/astjson"
	"github.com/cwbudde/goecma/internal/evaluator"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run <tree.json>",
	Short: "Evaluate a JSON-encoded parse tree",
	Long: `Decode a tagged JSON parse tree (see internal/astjson) and run it
through realm bootstrap and the evaluator, printing the inspector's
textual rendering of the completion.

A source-text parser is out of scope for this engine; the tree a host
hands over here stands in for "parse source text" (spec §1, §6).`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTree(_ *cobra.Command, args []string) error {
	path := args[0]
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	features, err := opts.FeatureSet()
	if err != nil {
		return err
	}
	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		return err
	}
	realm.SetLogger(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	program, err := astjson.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "decoded %d top-level statement(s) from %s (module: %v)\n", len(program.Body), path, program.IsModule)
	}

	agent := realm.NewAgent(features, &realm.HostCallbacks{}, opts.MaxCallDepth)
	r := realm.NewRealm(agent)
	ev := evaluator.New(r)

	var result runtime.Completion
	if program.IsModule {
		result = runModule(ev, path, program)
	} else {
		result = ev.EvalProgram(program)
	}

	fmt.Println(result.Value.Display())
	if result.Type == runtime.Throw {
		return fmt.Errorf("uncaught exception")
	}
	return nil
}

// runModule wires a Loader whose Fetch resolves a bare specifier to a
// sibling "<specifier>.json" file next to the entry tree — the simplest
// possible host-loader policy, since a real module resolution algorithm
// (bundler/node_modules/import maps) is a host concern out of scope here.
func runModule(ev *evaluator.Evaluator, entryPath string, entry *ast.Program) runtime.Completion {
	dir := filepath.Dir(entryPath)
	fetch := func(referrer, specifier string) ([]ast.Statement, error) {
		if referrer == "" {
			return entry.Body, nil
		}
		p := filepath.Join(dir, specifier+".json")
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		mod, err := astjson.Decode(data)
		if err != nil {
			return nil, err
		}
		return mod.Body, nil
	}
	loader := ev.NewModuleLoader(fetch)
	return ev.EvalModule(loader, "")
}
