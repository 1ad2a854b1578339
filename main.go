package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rillig/gocase/casetable"
	"github.com/rillig/gocase/emitter"
	"github.com/rillig/gocase/locator"
	"github.com/rillig/gocase/server"
)

const version = "gocase 0.3.0"

var exit = os.Exit

func main() {
	exit(gocaseMain(os.Stdout, os.Stderr, os.Args...))
}

func gocaseMain(stdout, stderr io.Writer, args ...string) int {
	g := newGocase(stdout, stderr)
	g.parseCommandLine(args)
	if g.httpAddr != "" {
		g.serve()
		return g.exitCode
	}
	g.locate()
	g.analyze()
	g.printOutput()
	if g.samplesFilename != "" {
		g.emit()
	}
	return g.exitCode
}

type gocase struct {
	funcName        string
	paramArgs       []string
	guardArgs       []string
	listAll         bool
	format          string
	samplesFilename string
	outFilename     string
	force           bool
	lenient         bool
	httpAddr        string

	// The Go source file, or "" when analyzing the guards from the
	// command line.
	filename string

	fn     *locator.Function
	params []casetable.Parameter
	guards []locator.Guard
	result *casetable.Result

	exitCode int

	logger
}

func newGocase(stdout io.Writer, stderr io.Writer) *gocase {
	var g gocase
	g.logger.init(stdout, stderr)
	return &g
}

func (g *gocase) parseCommandLine(argv []string) {
	args := g.parseOptions(argv)
	g.parseArgs(args)
}

func (g *gocase) parseOptions(argv []string) []string {
	var help, ver bool

	flags := flag.NewFlagSet(filepath.Base(argv[0]), flag.ContinueOnError)
	flags.StringVar(&g.funcName, "func", "",
		"analyze the function or method with this `name`, such as Type.Method")
	flags.Var(newSliceFlag(&g.guardArgs, ""), "guard",
		"analyze this `condition` instead of a source file")
	flags.BoolVar(&g.force, "force", false,
		"overwrite an existing test file")
	flags.StringVar(&g.format, "format", "text",
		"print the decision table as text, json or yaml")
	flags.BoolVar(&help, "help", false,
		"print the available command line options")
	flags.StringVar(&g.httpAddr, "http", "",
		"serve the analysis over HTTP on this `address`, such as :8080")
	flags.BoolVar(&g.lenient, "lenient", false,
		"skip malformed guards and non-numeric parameters")
	flags.BoolVar(&g.listAll, "list-all", false,
		"print also the infeasible combinations")
	flags.StringVar(&g.outFilename, "o", "",
		"write the generated tests to this `file`")
	flags.Var(newSliceFlag(&g.paramArgs, ","), "param",
		"declare the parameter `name:type` for the -guard conditions")
	flags.StringVar(&g.samplesFilename, "samples", "",
		"generate tests from the sample values in this YAML `file`")
	flags.BoolVar(&g.verbose, "verbose", false,
		"show progress messages")
	flags.BoolVar(&ver, "version", false,
		"print the gocase version")

	flags.SetOutput(g.stderr)
	flags.Usage = func() {
		_, _ = fmt.Fprintf(flags.Output(),
			"usage: %s [options] file.go\n", flags.Name())
		flags.PrintDefaults()
		g.exitCode = 2
	}

	err := flags.Parse(argv[1:])
	if g.exitCode != 0 {
		exit(g.exitCode)
	}
	g.check(err)

	if help {
		flags.SetOutput(g.stdout)
		flags.Usage()
		exit(0)
	}

	if ver {
		g.outf("%s", version)
		exit(0)
	}

	return flags.Args()
}

func (g *gocase) parseArgs(args []string) {
	switch g.format {
	case "text", "json", "yaml":
	default:
		g.usageErrf("unknown output format %q", g.format)
	}

	if g.httpAddr != "" {
		if len(args) > 0 || len(g.guardArgs) > 0 {
			g.usageErrf("-http does not take a source file or guards")
		}
		return
	}

	if len(g.guardArgs) > 0 {
		if len(args) > 0 || g.funcName != "" {
			g.usageErrf("-guard cannot be combined with a source file")
		}
		if g.samplesFilename != "" {
			g.usageErrf("-samples needs a source file")
		}
		for _, arg := range g.paramArgs {
			g.params = append(g.params, g.parseParam(arg))
		}
		for i, guard := range g.guardArgs {
			g.guards = append(g.guards, locator.Guard{
				Start: fmt.Sprintf("guard %d", i+1),
				Code:  guard,
				Flat:  guard,
			})
		}
		return
	}

	if len(g.paramArgs) > 0 {
		g.usageErrf("-param only works together with -guard")
	}
	if len(args) != 1 {
		g.usageErrf("expected exactly one source file")
	}
	g.filename = args[0]
	if g.funcName == "" {
		names, err := locator.Functions(g.filename, nil)
		g.check(err)
		g.usageErrf("missing -func, the file defines: %s", strings.Join(names, ", "))
	}
}

func (g *gocase) parseParam(arg string) casetable.Parameter {
	name, kind, ok := strings.Cut(arg, ":")
	if !ok || name == "" || kind == "" {
		g.usageErrf("invalid -param %q, must be name:type", arg)
	}
	return casetable.Parameter{Name: name, Kind: casetable.Kind(kind)}
}

// locate finds the function in the source file. In -guard mode, the
// parameters and guards are already known.
func (g *gocase) locate() {
	if g.filename == "" {
		return
	}

	fn, err := locator.Locate(g.filename, nil, g.funcName)
	if errors.Is(err, locator.ErrNotFound) {
		names, _ := locator.Functions(g.filename, nil)
		g.errf("%s", err)
		g.errf("the file defines: %s", strings.Join(names, ", "))
		exit(1)
	}
	g.check(err)

	g.verbosef("Found %s with %d guards", fn.QualifiedName(), len(fn.Guards))
	g.fn = fn
	g.params = fn.Parameters()
	g.guards = fn.Guards
}

func (g *gocase) analyze() {
	if g.lenient {
		g.dropUnsupported()
	}

	flat := make([]string, len(g.guards))
	for i, guard := range g.guards {
		flat[i] = guard.Flat
	}

	res, err := casetable.Analyze(g.params, flat)
	var aerr *casetable.Error
	if errors.As(err, &aerr) && aerr.Guard >= 0 {
		g.errf("%s: %s", g.guards[aerr.Guard].Start, err)
		exit(1)
	}
	g.check(err)

	for _, w := range res.Warnings {
		g.errf("%s: warning: %s", g.guards[w.Condition.Guard].Start, w)
	}
	g.result = res
}

// dropUnsupported removes the parameters and guards that would make the
// analysis fail. The conditions on a dropped parameter end up as warnings.
func (g *gocase) dropUnsupported() {
	var params []casetable.Parameter
	for _, p := range g.params {
		if err := casetable.CheckKind(p); err != nil {
			g.errf("warning: skipping parameter %s: %s", p.Name, err)
			continue
		}
		params = append(params, p)
	}

	var guards []locator.Guard
	for _, guard := range g.guards {
		if _, err := casetable.Split(guard.Flat, len(guards)); err != nil {
			g.errf("%s: warning: skipping %s", guard.Start, err)
			continue
		}
		guards = append(guards, guard)
	}

	g.params, g.guards = params, guards
}

func (g *gocase) printOutput() {
	rep := g.result.Report(g.listAll)

	switch g.format {
	case "json":
		enc := json.NewEncoder(g.stdout)
		enc.SetIndent("", "  ")
		g.check(enc.Encode(rep))
	case "yaml":
		enc := yaml.NewEncoder(g.stdout)
		enc.SetIndent(2)
		g.check(enc.Encode(rep))
		g.check(enc.Close())
	default:
		g.printText(rep)
	}
}

func (g *gocase) printText(rep casetable.Report) {
	if g.fn != nil {
		g.outf("Function %s", g.fn.QualifiedName())
	}

	g.outf("Parameters:")
	for _, p := range rep.Parameters {
		g.outf("  %s %s", p.Name, p.Kind)
	}
	g.outf("Guards:")
	for _, guard := range g.guards {
		g.outf("  %s: %s", guard.Start, guard.Code)
	}
	g.outf("Conditions:")
	for i, c := range rep.Columns {
		g.outf("  c%d: %s", i+1, c)
	}

	g.outf("")
	tw := tabwriter.NewWriter(g.stdout, 0, 8, 2, ' ', 0)
	header := []string{"case"}
	for i := range rep.Columns {
		header = append(header, fmt.Sprintf("c%d", i+1))
	}
	for _, p := range rep.Parameters {
		header = append(header, p.Name)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range rep.Rows {
		cells := []string{"-"}
		if row.Feasible {
			cells[0] = fmt.Sprint(row.Case)
		}
		for _, t := range row.Truth {
			if t {
				cells = append(cells, "T")
			} else {
				cells = append(cells, "F")
			}
		}
		cells = append(cells, row.Ranges...)
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	g.check(tw.Flush())

	g.outf("")
	g.outf("%d of %d combinations are feasible.",
		len(g.result.Feasible), g.result.Table.Len())
}

func (g *gocase) emit() {
	samples, err := emitter.LoadSamples(g.samplesFilename)
	g.check(err)

	out, err := emitter.Emit(g.fn, g.result, samples)
	var verr *emitter.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Problems {
			g.errf("%s: %s", g.samplesFilename, p)
		}
		exit(1)
	}
	g.check(err)

	outFilename := g.outFilename
	if outFilename == "" {
		outFilename = strings.TrimSuffix(g.filename, ".go") + "_gocase_test.go"
	}
	if _, err := os.Lstat(outFilename); err == nil && !g.force {
		g.check(fmt.Errorf("%s already exists, use -force to overwrite it", outFilename))
	}
	g.check(writeFileAtomic(outFilename, out.Code))

	if out.Skipped > 0 {
		g.verbosef("Skipped %d incomplete samples", out.Skipped)
	}
	g.errf("Wrote %d tests to %s", len(out.Tests), outFilename)
}

func (g *gocase) serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(g.verbosef)
	g.check(srv.ListenAndServe(ctx, g.httpAddr))
}

// logger provides basic logging and error checking.
type logger struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

func (l *logger) init(stdout io.Writer, stderr io.Writer) {
	l.stdout = stdout
	l.stderr = stderr
}

func (l *logger) check(err error) {
	if err != nil {
		l.errf("%s", err)
		exit(1)
	}
}

func (l *logger) usageErrf(format string, args ...interface{}) {
	l.errf("error: "+format, args...)
	exit(2)
}

func (l *logger) outf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.stdout, format+"\n", args...)
}

func (l *logger) errf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.stderr, format+"\n", args...)
}

func (l *logger) verbosef(format string, args ...interface{}) {
	if l.verbose {
		l.errf(format, args...)
	}
}
