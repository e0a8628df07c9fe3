package graph

// Topological returns every op reachable from roots with args ahead of
// their users. The order depends only on the graph and the order of roots.
func Topological(roots ...Op) []Op {
	type frame struct {
		op   Op
		next int
	}
	visited := make(map[int64]bool)
	var order []Op
	var stack []frame

	for _, root := range roots {
		if root == nil || visited[root.ID()] {
			continue
		}
		visited[root.ID()] = true
		stack = append(stack, frame{op: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			args := top.op.Args()
			if top.next < len(args) {
				arg := args[top.next]
				top.next++
				if !visited[arg.ID()] {
					visited[arg.ID()] = true
					stack = append(stack, frame{op: arg})
				}
				continue
			}
			order = append(order, top.op)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

// Variables returns the variables reachable from roots in topological order.
func Variables(roots ...Op) []*VariableOp {
	var out []*VariableOp
	for _, op := range Topological(roots...) {
		if v, ok := op.(*VariableOp); ok {
			out = append(out, v)
		}
	}
	return out
}

// Placeholders returns the placeholders reachable from roots in topological order.
func Placeholders(roots ...Op) []*PlaceholderOp {
	var out []*PlaceholderOp
	for _, op := range Topological(roots...) {
		if p, ok := op.(*PlaceholderOp); ok {
			out = append(out, p)
		}
	}
	return out
}
