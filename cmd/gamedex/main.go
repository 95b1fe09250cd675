package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	app := newAppContext()
	cmd := newRootCommand(app)
	err := cmd.Execute()
	app.shutdown()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
