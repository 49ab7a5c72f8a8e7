// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dalzilio/dvn/internal/session"
)

func runQuery(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	runner := session.New(logger, nil, cfg.Options()...)
	res := runner.Run(cmd.Context(), data)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("query failed: %s", res.Error)
	}
	return nil
}

// readInput reads the file given as argument, or the standard input when
// there is no argument or the argument is "-".
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}
