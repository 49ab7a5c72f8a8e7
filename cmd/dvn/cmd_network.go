// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dalzilio/dvn"
	"github.com/dalzilio/dvn/internal/netdef"
)

func loadNetwork(path string) (*dvn.FactorSet, error) {
	n, err := netdef.Load(path)
	if err != nil {
		return nil, err
	}
	return n.Build(append(cfg.Options(), dvn.Logger(logger))...)
}

// parseAssignments reads a list of name=state pairs. The state is the label
// of a state of the variable or its index.
func parseAssignments(cat *dvn.Catalog, pairs []string) (dvn.Clause, error) {
	var res []dvn.Assignment
	for _, p := range pairs {
		name, label, ok := strings.Cut(p, "=")
		if !ok {
			return dvn.Clause{}, fmt.Errorf("assignment %q: expected name=state", p)
		}
		id, err := cat.MustLookup(strings.TrimSpace(name))
		if err != nil {
			return dvn.Clause{}, err
		}
		label = strings.TrimSpace(label)
		state := cat.StateIndex(id, label)
		if state < 0 {
			n, err := strconv.Atoi(label)
			if err != nil || n < 0 || n >= cat.Domain(id) {
				return dvn.Clause{}, fmt.Errorf("variable %s has no state %q", name, label)
			}
			state = n
		}
		res = append(res, dvn.Assignment{Var: id, State: state})
	}
	return dvn.ClauseOf(cat, res...), nil
}

func printResult(cmd *cobra.Command, fs *dvn.FactorSet, res dvn.Result) error {
	fmt.Fprintf(cmd.OutOrStdout(), "value: %g\n", res.Value)
	fmt.Fprintf(cmd.OutOrStdout(), "assignment: %s\n", res.Assignment)
	return printStats(cmd, fs)
}

func printStats(cmd *cobra.Command, fs *dvn.FactorSet) error {
	if !statsOut {
		return nil
	}
	return fs.FprintStats(cmd.OutOrStdout())
}

func runMPE(cmd *cobra.Command, args []string) error {
	fs, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	evidence, err := parseAssignments(fs.Catalog(), sample)
	if err != nil {
		return err
	}
	res, err := fs.MPE(evidence)
	if err != nil {
		return err
	}
	return printResult(cmd, fs, res)
}

func runMAP(cmd *cobra.Command, args []string) error {
	fs, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	evidence, err := parseAssignments(fs.Catalog(), sample)
	if err != nil {
		return err
	}
	query, err := fs.Catalog().VarSetOf(queryVars...)
	if err != nil {
		return err
	}
	res, err := fs.MAP(query, evidence)
	if err != nil {
		return err
	}
	return printResult(cmd, fs, res)
}

func runSolve(cmd *cobra.Command, args []string) error {
	fs, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	cat := fs.Catalog()
	obs, err := parseAssignments(cat, sample)
	if err != nil {
		return err
	}
	policy, err := fs.SolveDecisionPolicy()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if policyOut {
		for _, df := range policy.Functions() {
			fmt.Fprintf(out, "decision %s observes %s\n", cat.Name(df.Var()), df.Factor().Vars())
			if err := df.Factor().Fprint(out); err != nil {
				return err
			}
		}
	}
	decisions, value := policy.Resolve(obs)
	fmt.Fprintf(out, "decisions: %s\n", decisions)
	fmt.Fprintf(out, "expected utility: %g\n", value)
	return printStats(cmd, fs)
}

func runOrder(cmd *cobra.Command, args []string) error {
	fs, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	g := dvn.NewInteractionGraph(fs)
	if graphDot {
		return g.WriteDot(cmd.OutOrStdout())
	}
	for _, id := range g.EliminationOrder().IDs() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", fs.Catalog().Name(id), g.Degree(id))
	}
	return nil
}

func runDot(cmd *cobra.Command, args []string) error {
	fs, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	if dotOutput != "" {
		return fs.FPrintDot(dotOutput)
	}
	return fs.WriteDot(cmd.OutOrStdout())
}
