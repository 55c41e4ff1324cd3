package schemadoc

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	gospec "github.com/reoring/gospec"
)

// compileExpr compiles a boolean expression once, at load time. Variables the
// environment does not define evaluate to nil.
func compileExpr(src string) (*vm.Program, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrBadRuleArg)
	}
	p, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: expr: %v", ErrBadRuleArg, err)
	}
	return p, nil
}

// runBool evaluates p; evaluation errors count as a failed constraint.
func runBool(p *vm.Program, env map[string]any) bool {
	out, err := expr.Run(p, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

// exprPredicate binds the field value as `value`.
func exprPredicate(src string) (gospec.Predicate, error) {
	p, err := compileExpr(src)
	if err != nil {
		return nil, err
	}
	return func(v any) bool { return runBool(p, map[string]any{"value": v}) }, nil
}

// exprEntityPredicate exposes the entity's keys as variables.
func exprEntityPredicate(src string) (gospec.EntityPredicate, error) {
	p, err := compileExpr(src)
	if err != nil {
		return nil, err
	}
	return func(e gospec.Entity) bool { return runBool(p, e) }, nil
}
