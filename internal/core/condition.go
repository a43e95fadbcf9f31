package core

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// conditionEnv, when ifadelerinin görebildiği değişkenleri kurar.
// Örnek: `distro == "ubuntu" && !dry_run`
func conditionEnv(ctx *RunContext) map[string]interface{} {
	return map[string]interface{}{
		"os":          ctx.OS,
		"distro":      ctx.Distro,
		"version":     ctx.Version,
		"hostname":    ctx.Hostname,
		"init_system": ctx.InitSystem,
		"user":        ctx.User,
		"dry_run":     ctx.DryRun,
		"vars":        ctx.Vars,
		"outputs":     ctx.Outputs(),
	}
}

// EvaluateCondition compiles and runs a boolean expression against the
// run context. A non-boolean result is an error, not a truthy guess.
func EvaluateCondition(code string, ctx *RunContext) (bool, error) {
	env := conditionEnv(ctx)

	program, err := expr.Compile(code, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition: %w", err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition: %w", err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to bool", code)
	}
	return result, nil
}
