// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

// FprintStats writes a textual representation of the statistics of fs to w.
// With the debug build tag, the factors of fs are also logged.
func (fs *FactorSet) FprintStats(w io.Writer) error {
	fmt.Fprintln(w, "==============")
	fmt.Fprintf(w, "Factors:       %d\n", len(fs.factors))
	fmt.Fprintf(w, "Variables:     %d\n", fs.AllVariables().Len())
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w, fs.stats)
	if _DEBUG {
		fs.logFactorSet()
	}
	_, err := fmt.Fprintln(w, "==============")
	return err
}

// ******************************************************************************************************

// Fprint writes the table of f, one instance per line. Absent instances are
// printed with a dash. When f has a trace, the states of the maximized
// variables are added at the end of each line.
func (f *Factor) Fprint(w io.Writer) error {
	cat := f.vars.cat
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "# %s head %s (%s)\n", f.vars, f.head, f.role)
	for _, id := range f.vars.ids {
		fmt.Fprintf(tw, "%s\t", cat.Name(id))
	}
	fmt.Fprint(tw, "value")
	if f.trace != nil {
		fmt.Fprint(tw, "\ttrace")
	}
	fmt.Fprintln(tw)
	c := NewClause(f.vars)
	for i := range f.values {
		for k, id := range f.vars.ids {
			fmt.Fprintf(tw, "%s\t", cat.StateName(id, c.states[k]))
		}
		if f.present[i] {
			fmt.Fprint(tw, strconv.FormatFloat(f.values[i], 'g', 6, 64))
		} else {
			fmt.Fprint(tw, "-")
		}
		if f.trace != nil {
			fmt.Fprintf(tw, "\t%s", f.Trace(i))
		}
		fmt.Fprintln(tw)
		c.Increment()
	}
	return tw.Flush()
}

func (f *Factor) String() string {
	return fmt.Sprintf("%s|%s %v", f.head, f.Tail(), f.Values())
}

// Fprint writes all the factors of fs.
func (fs *FactorSet) Fprint(w io.Writer) error {
	if fs.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", fs.error)
	}
	for k, f := range fs.factors {
		fmt.Fprintf(w, "factor %d\n", k)
		if err := f.Fprint(w); err != nil {
			return err
		}
	}
	return nil
}

// ******************************************************************************************************

// FPrintDot writes the DOT description of fs in a file. Chance variables are
// drawn as ellipses, decisions as boxes and utilities as diamonds. We use the
// standard output when filename is "-".
func (fs *FactorSet) FPrintDot(filename string) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return fs.printDot(bufio.NewWriter(out))
}

// WriteDot writes the DOT description of fs to w.
func (fs *FactorSet) WriteDot(w io.Writer) error {
	return fs.printDot(bufio.NewWriter(w))
}

// printDot draws one arc from every tail variable to the head of a factor,
// when the head is a single variable.
func (fs *FactorSet) printDot(w *bufio.Writer) error {
	fmt.Fprintln(w, "digraph G {")
	for _, id := range fs.AllVariables().ids {
		fmt.Fprintf(w, "%d %s\n", id, dotlabel(fs.cat.Name(id), fs.cat.RoleOf(id)))
	}
	for _, f := range fs.factors {
		if f.head.Len() != 1 {
			continue
		}
		h := f.head.First()
		for _, t := range f.Tail().ids {
			fmt.Fprintf(w, "%d -> %d;\n", t, h)
		}
	}
	fmt.Fprintln(w, "}")
	return w.Flush()
}

func dotlabel(name string, r Role) string {
	shape := "ellipse"
	switch r {
	case Decision:
		shape = "box"
	case Utility:
		shape = "diamond"
	}
	return fmt.Sprintf("[label=%q, shape=%s];", name, shape)
}
