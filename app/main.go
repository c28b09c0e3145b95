package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/mtpmedia/mtp-newsletter/app/cfg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var root rootOptions

	parser := flags.NewParser(&root, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		// Global options are only final once parsing reached the
		// active command.
		cfg.Apply(root.Options)
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil
		}
		return err
	}

	return nil
}
