package ast

import (
	"strings"
)

// VisitSyncTracks walks every expression reachable from the program —
// render-target size expressions and all function bodies — and calls visit
// with the joined track name ("a:b") of every sync.a.b property access.
// The traversal is read-only; visitation order is unspecified.
func (p *Program) VisitSyncTracks(src string, visit func(track string)) {
	for i := range p.RenderTargets {
		visitExprSyncTracks(p.RenderTargets[i].Width, src, visit)
		visitExprSyncTracks(p.RenderTargets[i].Height, src, visit)
	}
	for i := range p.Functions {
		visitBlockSyncTracks(p.Functions[i].Body, src, visit)
	}
}

func visitBlockSyncTracks(block []Stmt, src string, visit func(string)) {
	for _, stmt := range block {
		switch s := stmt.(type) {
		case *CallStmt:
			for _, arg := range s.Call.Args {
				visitExprSyncTracks(arg, src, visit)
			}
		case *ReturnStmt:
			visitExprSyncTracks(s.Expr, src, visit)
		case *IfStmt:
			visitExprSyncTracks(s.Cond, src, visit)
			visitBlockSyncTracks(s.Then, src, visit)
			if s.Else != nil {
				visitBlockSyncTracks(s.Else, src, visit)
			}
		}
	}
}

func visitExprSyncTracks(expr Expr, src string, visit func(string)) {
	switch e := expr.(type) {
	case *PropertyExpr:
		base, ok := e.Base.(*VarExpr)
		if ok && base.Name.Text(src) == "sync" {
			parts := make([]string, len(e.Path))
			for i, p := range e.Path {
				parts[i] = p.Text(src)
			}
			visit(strings.Join(parts, ":"))
		}
	case *CallExpr:
		for _, arg := range e.Args {
			visitExprSyncTracks(arg, src, visit)
		}
	case *BinaryExpr:
		visitExprSyncTracks(e.Left, src, visit)
		visitExprSyncTracks(e.Right, src, visit)
	case *DictExpr:
		for i := range e.Entries {
			visitExprSyncTracks(e.Entries[i].Value, src, visit)
		}
	}
}
