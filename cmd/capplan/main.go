// capplan is the command-line front end for the fab capacity planning
// engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fabworks/capacity-planner/cmd/capplan/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
