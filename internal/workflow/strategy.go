package workflow

import (
	"context"
	"errors"
	"fmt"
)

// ClickStrategy is one way of clicking an element.
type ClickStrategy struct {
	Name  string
	Click func(Element) error
}

// DefaultClickChain tries a native click, then a script click, then a pointer move-and-click.
func DefaultClickChain() []ClickStrategy {
	return []ClickStrategy{
		{Name: "native", Click: Element.Click},
		{Name: "script", Click: Element.ScriptClick},
		{Name: "pointer", Click: Element.PointerClick},
	}
}

// runChain walks the click chain until a strategy succeeds. When confirm is
// set, a strategy only wins if confirm also succeeds after its click.
func (r *runner) runChain(ctx context.Context, el Element, confirm func(context.Context) error) Outcome {
	var errs []error
	for _, strategy := range r.chain {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		err := strategy.Click(el)
		if err == nil && confirm != nil {
			err = confirm(ctx)
		}
		r.obs.Strategy(r.state, strategy.Name, err)
		if err == nil {
			return Outcome{Success: true, Strategy: strategy.Name}
		}
		errs = append(errs, fmt.Errorf("%s click: %w", strategy.Name, err))
	}
	return Outcome{Err: errors.Join(errs...)}
}
