// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command dvn queries Bayesian and decision networks.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
