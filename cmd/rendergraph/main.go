// Command rendergraph edits and builds a render-task graph from the
// shell: create a session, add nodes by name, mark roots, run the
// builder pipeline, and dump the result as an SVG diagram.
//
// Grounded on original_source/cli/src/main.rs's subcommand set
// (init/node/root/svg/list, plus an explicit build subcommand where
// the original leaves one implicit), using
// github.com/spf13/cobra the way
// junjiewwang-perf-analysis/cmd/cli/cmd structures its own CLI: one
// file per subcommand under a shared root command.
package main

func main() {
	Execute()
}
