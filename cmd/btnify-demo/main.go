// Command btnify-demo serves a small panel of buttons over a shared counter.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "btnify-demo:", err)
		os.Exit(1)
	}
}
