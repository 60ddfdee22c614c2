// Command twitter-mcp serves Twitter tools to agents over the Model Context Protocol.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamzaessahbaoui/twitter-mcp/internal/cmd"
)

func main() {
	if err := cmd.NewRoot().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
