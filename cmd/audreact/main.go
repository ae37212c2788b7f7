// SPDX-License-Identifier: EPL-2.0

// Command audreact measures and renders audio-reactive values of tracks.
//
//	audreact calibrate [-config file] [-fps n] [-save] [-name s] [-quiet] <track>
//	audreact watch [-config file] <track | id=track ...>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const defaultConfigPath = "./audreact.toml"

var errUsage = errors.New(`usage:
  audreact calibrate [-config file] [-fps n] [-save] [-name s] [-quiet] <track>
  audreact watch [-config file] <track | id=track ...>`)

func run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "calibrate":
		return runCalibrate(ctx, args[1:])
	case "watch":
		return runWatch(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Println(errUsage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
