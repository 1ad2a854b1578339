// Package locator finds a function in a Go source file and collects the
// conditions of its 'if' statements.
package locator

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rillig/gocase/casetable"
)

var ErrNotFound = errors.New("function not found")

// Param is a parameter of the located function.
type Param struct {
	Name string `json:"name"` // blank and unnamed parameters are named argN
	Type string `json:"type"` // the type as written in the source code
}

// Guard is the condition of an 'if' statement.
type Guard struct {
	Start string `json:"start"` // human-readable position in the file, e.g. "main.go:17:13"
	Code  string `json:"code"`  // the source code of the condition

	// Flat is the condition as a flat list of comparisons, joined by
	// '&&' and '||', with all parentheses around subconditions removed.
	// Each operand is a single token without spaces.
	Flat string `json:"flat"`
}

// Function describes the located function or method.
type Function struct {
	File     string   `json:"file"` // as given to Locate
	Package  string   `json:"package"`
	Name     string   `json:"name"`
	Receiver string   `json:"receiver,omitempty"` // the receiver type, such as "*Calc", or "" for functions
	Params   []Param  `json:"params"`
	Results  []string `json:"results"`
	Guards   []Guard  `json:"guards"`
}

// QualifiedName returns the name of the function,
// prefixed with the receiver's base type name for methods.
func (fn *Function) QualifiedName() string {
	if fn.Receiver == "" {
		return fn.Name
	}
	return baseTypeName(fn.Receiver) + "." + fn.Name
}

// FlatGuards returns the flat form of each guard, see Guard.Flat.
func (fn *Function) FlatGuards() []string {
	flat := make([]string, len(fn.Guards))
	for i, g := range fn.Guards {
		flat[i] = g.Flat
	}
	return flat
}

// Parameters returns the parameters that take part in the analysis.
//
// Numeric parameters always take part. Other parameters only take part if
// a guard mentions them, in which case the analysis fails, since it only
// knows about numbers.
func (fn *Function) Parameters() []casetable.Parameter {
	mentioned := map[string]bool{}
	for _, g := range fn.Guards {
		for _, token := range strings.Fields(g.Flat) {
			mentioned[token] = true
		}
	}

	var params []casetable.Parameter
	for _, p := range fn.Params {
		kind := casetable.Kind(p.Type)
		if kind.IsNumeric() || mentioned[p.Name] {
			params = append(params, casetable.Parameter{Name: p.Name, Kind: kind})
		}
	}
	return params
}

// locator extracts the information about a single function from the AST.
type locator struct {
	fset *token.FileSet
	text string // the text of the current file
}

// Locate parses the Go file and returns the function with the given name.
// Methods are named "Type.Method"; a method can also be found by its plain
// name if no function has the same name.
//
// If src is nil, the file is read from disk.
func Locate(filename string, src []byte, funcName string) (*Function, error) {
	l, f, err := parse(filename, src)
	if err != nil {
		return nil, err
	}

	var methods []*ast.FuncDecl
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if fd.Recv == nil && fd.Name.Name == funcName {
			return l.function(filename, f, fd), nil
		}
		if fd.Recv != nil && l.qualifiedName(fd) == funcName {
			return l.function(filename, f, fd), nil
		}
		if fd.Recv != nil && fd.Name.Name == funcName {
			methods = append(methods, fd)
		}
	}

	if len(methods) == 1 {
		return l.function(filename, f, methods[0]), nil
	}
	if len(methods) > 1 {
		return nil, fmt.Errorf("%s: %q is ambiguous, use Type.%s", filename, funcName, funcName)
	}
	return nil, fmt.Errorf("%s: %w: %s", filename, ErrNotFound, funcName)
}

// Functions lists the names of all functions and methods in the file,
// sorted alphabetically.
func Functions(filename string, src []byte) ([]string, error) {
	l, f, err := parse(filename, src)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, decl := range f.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			names = append(names, l.qualifiedName(fd))
		}
	}
	sort.Strings(names)
	return names, nil
}

func parse(filename string, src []byte) (*locator, *ast.File, error) {
	if src == nil {
		var err error
		src, err = os.ReadFile(filename)
		if err != nil {
			return nil, nil, err
		}
	}

	l := locator{token.NewFileSet(), string(src)}
	f, err := parser.ParseFile(l.fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	return &l, f, nil
}

func (l *locator) qualifiedName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	return baseTypeName(l.str(fd.Recv.List[0].Type)) + "." + fd.Name.Name
}

// baseTypeName returns "T" for the receiver types "T", "*T" and "*T[K, V]".
func baseTypeName(recv string) string {
	name := strings.TrimLeft(recv, "*( ")
	if i := strings.IndexAny(name, "[)"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func (l *locator) function(filename string, f *ast.File, fd *ast.FuncDecl) *Function {
	fn := Function{File: filename, Package: f.Name.Name, Name: fd.Name.Name}

	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		fn.Receiver = l.str(fd.Recv.List[0].Type)
	}

	for _, field := range fd.Type.Params.List {
		typ := l.str(field.Type)
		if len(field.Names) == 0 {
			fn.Params = append(fn.Params, Param{fmt.Sprintf("arg%d", len(fn.Params)), typ})
		}
		for _, name := range field.Names {
			paramName := name.Name
			if paramName == "_" {
				paramName = fmt.Sprintf("arg%d", len(fn.Params))
			}
			fn.Params = append(fn.Params, Param{paramName, typ})
		}
	}

	if fd.Type.Results != nil {
		for _, field := range fd.Type.Results.List {
			typ := l.str(field.Type)
			for n := len(field.Names); n > 1; n-- {
				fn.Results = append(fn.Results, typ)
			}
			fn.Results = append(fn.Results, typ)
		}
	}

	if fd.Body != nil {
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			if is, ok := n.(*ast.IfStmt); ok {
				fn.Guards = append(fn.Guards, l.guard(is.Cond))
			}
			return true
		})
	}

	return &fn
}

func (l *locator) guard(cond ast.Expr) Guard {
	return Guard{
		l.fset.Position(cond.Pos()).String(),
		l.str(cond),
		l.flat(cond),
	}
}

// flat renders the condition in the form that casetable.Split expects.
func (l *locator) flat(cond ast.Expr) string {
	switch e := cond.(type) {
	case *ast.ParenExpr:
		return l.flat(e.X)
	case *ast.BinaryExpr:
		switch e.Op {
		case token.LAND, token.LOR:
			return l.flat(e.X) + " " + e.Op.String() + " " + l.flat(e.Y)
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
			return l.operand(e.X) + " " + e.Op.String() + " " + l.operand(e.Y)
		}
	}
	return l.operand(cond)
}

// operand returns the source code of the expression as a single token,
// by removing the whitespace between its tokens.
func (l *locator) operand(expr ast.Expr) string {
	if p, ok := expr.(*ast.ParenExpr); ok {
		return l.operand(p.X)
	}
	code := l.str(expr)

	var s scanner.Scanner
	file := token.NewFileSet().AddFile("", -1, len(code))
	s.Init(file, []byte(code), nil, 0)

	var sb strings.Builder
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		switch {
		case tok == token.STRING || tok == token.CHAR:
			sb.WriteString(compactLiteral(tok, lit))
		case lit != "":
			sb.WriteString(lit)
		default:
			sb.WriteString(tok.String())
		}
	}
	return sb.String()
}

// compactLiteral rewrites a string or character literal so that it
// contains no whitespace, keeping its value.
func compactLiteral(tok token.Token, lit string) string {
	if strings.IndexFunc(lit, unicode.IsSpace) < 0 {
		return lit
	}
	value, err := strconv.Unquote(lit)
	if err != nil {
		return lit
	}
	quoted := strconv.Quote(value)
	if tok == token.CHAR {
		r, _ := utf8.DecodeRuneInString(value)
		quoted = strconv.QuoteRune(r)
	}
	return strings.Replace(quoted, " ", `\x20`, -1)
}

func (l *locator) str(expr ast.Node) string {
	start := l.fset.Position(expr.Pos())
	end := l.fset.Position(expr.End())
	return l.text[start.Offset:end.Offset]
}
