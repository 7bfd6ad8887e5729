package step

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

var plans = map[string][]string{
	"build": {AddSuperSourcesStepName, ImportSourcesStepName, MetadataStepName, GenerateModuleStepName, CompileStepName},
}

// Plan returns the steps of a named plan in execution order.
func Plan(name string) ([]string, error) {
	steps, ok := plans[name]
	if !ok {
		known := make([]string, 0, len(plans))
		for k := range plans {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown plan: %s (known: %s)", name, strings.Join(known, ", "))
	}
	return append([]string(nil), steps...), nil
}

// RunPlan runs every step of a plan in order and stops at the first error.
func RunPlan(ctx context.Context, name string, bc *Context) ([]Result, error) {
	steps, err := Plan(name)
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := Run(ctx, s, bc)
		out = append(out, res)
		if err != nil {
			return out, fmt.Errorf("%s: %w", s, err)
		}
	}
	return out, nil
}
