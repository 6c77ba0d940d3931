// The main package for the hadithanalyzer executable.
package main

import (
	"github.com/johannesgottschalk/hadithAnalyzer/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
