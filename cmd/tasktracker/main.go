// Command tasktracker manages a personal task list stored in a JSON file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/tasktracker/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args[1:])
	interrupted := ctx.Err() != nil
	stop()

	if err == nil {
		return
	}
	if interrupted {
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "%s%v\n", cmd.ErrorPrefix, err)
	os.Exit(1)
}
