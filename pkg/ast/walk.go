package ast

// Children returns the direct sub-nodes of node in source order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *VarDecl:
		return []Node{n.Init}
	case *FunctionGroup:
		out := make([]Node, len(n.Functions))
		for i, fn := range n.Functions {
			out[i] = fn
		}
		return out
	case *FunctionDecl:
		out := make([]Node, 0, len(n.Params)+1)
		for _, param := range n.Params {
			out = append(out, param)
		}
		return append(out, n.Body)
	case *TypeGroup:
		out := make([]Node, len(n.Types))
		for i, decl := range n.Types {
			out[i] = decl
		}
		return out
	case *TypeDecl:
		return []Node{n.Type}
	case *RecordType:
		out := make([]Node, len(n.Fields))
		for i, field := range n.Fields {
			out[i] = field
		}
		return out
	case *ArrayExpr:
		return []Node{n.Size, n.Init}
	case *RecordExpr:
		out := make([]Node, len(n.Fields))
		for i, field := range n.Fields {
			out[i] = field
		}
		return out
	case *FieldInit:
		return []Node{n.Value}
	case *AssignExpr:
		return []Node{n.Target, n.Value}
	case *CallExpr:
		return exprNodes(n.Args)
	case *ForExpr:
		return []Node{n.Lo, n.Hi, n.Body}
	case *IfExpr:
		return []Node{n.Test, n.Then}
	case *IfElseExpr:
		return []Node{n.Test, n.Then, n.Else}
	case *LetExpr:
		out := make([]Node, 0, len(n.Decls)+1)
		for _, decl := range n.Decls {
			out = append(out, decl)
		}
		return append(out, n.Body)
	case *OpExpr:
		return []Node{n.Left, n.Right}
	case *SeqExpr:
		return exprNodes(n.Exprs)
	case *VarExpr:
		return []Node{n.Var}
	case *WhileExpr:
		return []Node{n.Test, n.Body}
	case *FieldVar:
		return []Node{n.Var}
	case *SubscriptVar:
		return []Node{n.Var, n.Index}
	default:
		return nil
	}
}

func exprNodes(exprs []Expr) []Node {
	out := make([]Node, len(exprs))
	for i, expr := range exprs {
		out[i] = expr
	}
	return out
}

// Walk visits node and its descendants in pre-order. Returning false from
// visit skips the children of that node.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}
