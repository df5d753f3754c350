package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (r *runner) save(ctx context.Context) error {
	waits := r.cfg.Waits
	sel := r.cfg.Selectors

	if err := pause(ctx, 2*waits.Animation.Std()); err != nil {
		return r.fail(KindSaveFailed, "waiting before save: %w", err)
	}

	err := r.retry(ctx, "save", r.cfg.Retries, waits.Animation.Std(), func(int) error {
		button, err := r.locateSave(ctx)
		if err != nil {
			return err
		}
		if err := button.ScrollIntoView(); err != nil {
			r.obs.Warn(r.state, "could not scroll to save button", err)
		}
		if err := pause(ctx, waits.Animation.Std()); err != nil {
			return err
		}

		out := r.runChain(ctx, button, func(ctx context.Context) error {
			if err := pause(ctx, waits.Animation.Std()); err != nil {
				return err
			}
			return r.s.WaitGone(ctx, sel.HeadlineDialog, waits.WebDriver.Std())
		})
		if !out.Success {
			return fmt.Errorf("edit dialog stayed open: %w", out.Err)
		}
		r.res.Strategy = out.Strategy
		return nil
	})
	if err != nil {
		return r.fail(KindSaveFailed, "%w", err)
	}
	r.obs.Info(r.state, "💾 Edit dialog closed, save provisionally successful")

	out := r.verify(ctx)
	r.res.Verified = out.Success
	r.res.Observed = out.Observed
	if !out.Success {
		if r.cfg.StrictVerification {
			return r.fail(KindSaveFailed, "saved headline not confirmed: %w", out.Err)
		}
		r.obs.Warn(r.state, "could not confirm saved headline, accepting dialog dismissal", out.Err)
	} else {
		r.obs.Info(r.state, "✅ Saved headline matches target")
	}

	r.transition(StateSaved)
	return nil
}

// locateSave prefers the primary save selector and falls back to the first
// displayed, enabled candidate from the broader one.
func (r *runner) locateSave(ctx context.Context) (Element, error) {
	sel := r.cfg.Selectors

	button, err := r.s.Find(ctx, sel.SaveButton, r.cfg.Waits.WebDriver.Std())
	if err == nil {
		return button, nil
	}
	r.obs.Info(r.state, "Primary save button not found, trying alternatives")

	candidates, ferr := r.s.FindAll(ctx, sel.SaveButtonAlt)
	if ferr != nil {
		return nil, fmt.Errorf("save button not found: %w", errors.Join(err, ferr))
	}
	for _, c := range candidates {
		displayed, derr := c.Displayed()
		enabled, eerr := c.Enabled()
		if derr == nil && eerr == nil && displayed && enabled {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no displayed and enabled save button among %d candidates: %w", len(candidates), err)
}

// verify reads the headline back from the profile after a save.
func (r *runner) verify(ctx context.Context) Outcome {
	waits := r.cfg.Waits
	sel := r.cfg.Selectors

	if err := pause(ctx, 2*waits.Animation.Std()); err != nil {
		return Outcome{Err: err}
	}

	if sel.SuccessMessage != "" {
		if _, err := r.s.Find(ctx, sel.SuccessMessage, waits.WebDriver.Std()); err != nil {
			return Outcome{Err: fmt.Errorf("success message not found: %w", err)}
		}
	}

	el, err := r.s.Find(ctx, sel.HeadlineText, waits.WebDriver.Std())
	if err != nil {
		return Outcome{Err: fmt.Errorf("headline text not found: %w", err)}
	}
	text, err := el.Text()
	if err != nil {
		return Outcome{Err: fmt.Errorf("read headline text: %w", err)}
	}

	observed := normalizeText(text)
	out := Outcome{Observed: observed, URL: r.s.CurrentURL()}
	if !strings.Contains(observed, normalizeText(r.cfg.Headline)) {
		out.Err = errors.New("displayed headline does not contain the target text")
		return out
	}
	out.Success = true
	return out
}
