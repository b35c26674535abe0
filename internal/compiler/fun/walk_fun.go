package fun

// WalkProgram visits every node of program in post-order: children before
// their parent, functions in source order, the program itself last.
func WalkProgram(program *Program, f func(interface{})) {
	for _, function := range program.Functions {
		walkFunction(function, f)
	}
	f(program)
}

func walkFunction(function *Function, f func(interface{})) {
	for _, parameter := range function.Parameters {
		f(parameter)
	}
	walkExpression(function.Body, f)
	f(function)
}

func walkExpression(expression Expression, f func(interface{})) {
	switch e := expression.(type) {
	case *Add:
		walkExpression(e.Left, f)
		walkExpression(e.Right, f)
	case *Equals:
		walkExpression(e.Left, f)
		walkExpression(e.Right, f)
	case *Conditional:
		walkExpression(e.Condition, f)
		walkExpression(e.Then, f)
		walkExpression(e.Else, f)
	case *Call:
		for _, argument := range e.Arguments {
			walkExpression(argument, f)
		}
	case *Let:
		walkExpression(e.Value, f)
		walkExpression(e.Body, f)
	case nil:
		return
	}
	f(expression)
}
