// Package binder walks a parsed ast.Program and produces a SymbolTable:
// a map from name to its binding span and kind, used by the validator. Grounded on cadence-core/src/parser/binder.rs.
package binder

import "cadence/internal/cadence/ast"

// SymbolKind classifies a bound name.
type SymbolKind int

const (
	SymbolLet SymbolKind = iota
	SymbolFunction
	SymbolParam
	SymbolForVar
)

// Symbol is one entry of a SymbolTable.
type Symbol struct {
	Name string
	Kind SymbolKind
	Span ast.Span // real span for top-level let/fn; ast.Zero for nested
	Doc  string
	// Params is populated for SymbolFunction entries.
	Params []string
}

// SymbolTable maps every bound name in a program to its Symbol. Nested
// definitions of the same name shadow the outer one (last write wins),
// matching the Rust reference's flat binder table.
type SymbolTable struct {
	Symbols map[string]Symbol
}

// Bind walks prog's statements (recursively, through blocks/control
// flow) and produces a SymbolTable.
func Bind(prog ast.Program) SymbolTable {
	table := SymbolTable{Symbols: map[string]Symbol{}}
	bindStatements(prog.Statements, &table, true)
	return table
}

func bindStatements(stmts []ast.Statement, table *SymbolTable, topLevel bool) {
	for _, stmt := range stmts {
		bindStatement(stmt, table, topLevel)
	}
}

func bindStatement(stmt ast.Statement, table *SymbolTable, topLevel bool) {
	span := stmt.Span
	if !topLevel {
		span = ast.Zero
	}

	switch stmt.Kind {
	case ast.StmtLet:
		table.Symbols[stmt.Name] = Symbol{Name: stmt.Name, Kind: SymbolLet, Span: span, Doc: stmt.Doc}
	case ast.StmtFunctionDef:
		table.Symbols[stmt.Name] = Symbol{Name: stmt.Name, Kind: SymbolFunction, Span: span, Doc: stmt.Doc, Params: stmt.Params}
		for _, param := range stmt.Params {
			table.Symbols[param] = Symbol{Name: param, Kind: SymbolParam, Span: ast.Zero}
		}
		bindStatements(stmt.Body, table, false)
	case ast.StmtIf:
		bindStatements(stmt.Body, table, false)
		bindStatements(stmt.Else, table, false)
	case ast.StmtRepeat, ast.StmtLoop, ast.StmtBlock, ast.StmtTrack:
		bindStatements(stmt.Body, table, false)
	case ast.StmtFor:
		table.Symbols[stmt.LoopVar] = Symbol{Name: stmt.LoopVar, Kind: SymbolForVar, Span: ast.Zero}
		bindStatements(stmt.Body, table, false)
	}
}
