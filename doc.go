// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package dvn implements exact inference in discrete Bayesian networks and
decision networks (influence diagrams) by variable elimination.

Basics

Variables are declared in a Catalog, that assigns each of them an identity
(VarID), a finite list of states and a role: Normal for chance variables,
Decision or Utility. A VarSet is an ordered set of variables; the order of
insertion defines the mixed-radix addressing of the instances of the set, with
the first variable the least significant. A Clause is one instance of a
VarSet, that is a state for each of its variables.

A Factor is a table of values indexed by the instances of a VarSet. Factors
are the building blocks of networks: conditional probabilities, decision
factors and utility tables. The main operations on factors are the product
(Merge), sum-out (EliminateVar), max-out (MaximizeVar), and restriction by
evidence (ApplyClause). Maximizing a variable records the state that reaches
the maximum in a trace, so that the best assignment can be read back from the
result.

A FactorSet is an ordered collection of factors: the network. It provides the
elimination primitives (EliminateVariables, MaximizeVariables), the pruning
operations used before a query and the high-level queries: MPE (most probable
explanation), MAP (maximum a posteriori) and Posterior. An InteractionGraph
computes a greedy elimination order that keeps the intermediate factors small.

Decision networks

SolveDecisionPolicy computes, for every decision of an influence diagram, the
choice that maximizes the expected utility given the observations available
when the decision is taken. The result is a Policy that can be applied to a
sample of observations with Resolve.

Errors and logging

Reading outside a structure (an unknown name, an out of range instance)
returns a neutral value: 0, an empty set or -1. Using an invalid VarID when
building a VarSet is a programming error and panics. Structural errors, like a
factor too large for the MaxFactorSize limit, are accumulated in the Catalog
or the FactorSet and can be tested with Errored and Err; the exported error
values can be matched with errors.Is.

A FactorSet can be given a structured logger (option Logger) that receives a
debug record for each elimination step. To unlock more logging, as well as
the output of the factor tables in FprintStats, you can compile your executable
with the build tag `debug`.
*/
package dvn
