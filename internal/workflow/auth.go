package workflow

import (
	"context"
	"errors"
	"strings"
	"time"
)

func (r *runner) authenticate(ctx context.Context) error {
	r.transition(StateAuthenticating)
	cfg := r.cfg

	r.obs.Info(r.state, "🔐 Opening login page")
	if err := r.s.Navigate(ctx, cfg.LoginURL); err != nil {
		return r.fail(KindTargetNotFound, "open login page: %w", err)
	}

	if err := r.submitLogin(ctx); err != nil {
		return err
	}

	if err := pause(ctx, cfg.Waits.Login.Std()); err != nil {
		return r.fail(KindAuthentication, "waiting for login: %w", err)
	}

	//slow redirects are common, so a URL that never changes is only a warning
	err := poll(ctx, cfg.Waits.WebDriver.Std(), cfg.Waits.Poll.Std(), func() bool {
		return !r.onLoginPage()
	})
	if err != nil {
		r.obs.Warn(r.state, "login may not have completed, URL did not change", err)
	} else {
		r.obs.Info(r.state, "✅ Login successful, URL changed")
	}

	return r.checkChallenge(ctx)
}

// submitLogin fills both credential fields on the current page and submits.
func (r *runner) submitLogin(ctx context.Context) error {
	sel := r.cfg.Selectors
	keystroke := r.keystroke()

	fields := []struct {
		role     string
		selector string
		value    string
	}{
		{role: "username", selector: sel.UsernameField, value: r.creds.Username},
		{role: "password", selector: sel.PasswordField, value: r.creds.Password},
	}
	for _, f := range fields {
		el, err := r.s.Find(ctx, f.selector, r.cfg.Waits.WebDriver.Std())
		if err != nil {
			return r.fail(KindTargetNotFound, "%s field not found: %w", f.role, err)
		}
		if err := el.Clear(); err != nil {
			return r.fail(KindInteraction, "clear %s field: %w", f.role, err)
		}
		if err := el.Type(ctx, f.value, keystroke); err != nil {
			return r.fail(KindInteraction, "type %s: %w", f.role, err)
		}
	}

	button, err := r.s.Find(ctx, sel.LoginButton, r.cfg.Waits.WebDriver.Std())
	if err != nil {
		return r.fail(KindTargetNotFound, "login button not found: %w", err)
	}
	if out := r.runChain(ctx, button, nil); !out.Success {
		return r.fail(KindInteraction, "submit login: %w", out.Err)
	}
	return nil
}

// checkChallenge looks for rejected credentials and bot challenges after a submit.
func (r *runner) checkChallenge(ctx context.Context) error {
	sel := r.cfg.Selectors

	if err := r.checkRejected(ctx); err != nil {
		return err
	}

	hit := r.firstPresent(ctx, sel.ChallengeIndicators)
	if hit == "" {
		return nil
	}
	r.obs.Warn(r.state, "🛡️ Challenge detected ("+hit+")", nil)

	if !r.interactive {
		return r.bypassChallenge(ctx)
	}
	if err := r.awaitManualSolve(ctx); err != nil {
		return err
	}
	//the portal only validates the credentials once the challenge is out of the way
	return r.checkRejected(ctx)
}

func (r *runner) checkRejected(ctx context.Context) error {
	if hit := r.firstPresent(ctx, r.cfg.Selectors.AuthErrorIndicators); hit != "" {
		return r.fail(KindAuthentication, "portal rejected the credentials (matched %s)", hit)
	}
	return nil
}

// awaitManualSolve blocks until a human clears the challenge or the challenge wait expires.
func (r *runner) awaitManualSolve(ctx context.Context) error {
	wait := r.cfg.Waits.Challenge.Std()
	r.obs.Info(r.state, "⏳ Waiting up to "+wait.String()+" for the challenge to be solved in the browser window")

	err := poll(ctx, wait, r.cfg.Waits.Poll.Std(), func() bool {
		return !r.onLoginPage() || r.firstPresent(ctx, r.cfg.Selectors.ChallengeIndicators) == ""
	})
	if err != nil {
		return r.fail(KindChallengeBlocked, "challenge not solved within %s: %w", wait, err)
	}
	r.obs.Info(r.state, "✅ Challenge cleared")
	return nil
}

// bypassChallenge goes straight to the profile page and checks it is reachable.
func (r *runner) bypassChallenge(ctx context.Context) error {
	r.obs.Info(r.state, "Non-interactive run, trying the profile page directly")
	if err := r.s.Navigate(ctx, r.cfg.ProfileURL); err != nil {
		return r.fail(KindChallengeBlocked, "profile unreachable behind challenge: %w", err)
	}
	_, err := r.s.WaitFirst(ctx, []string{r.cfg.Selectors.HeadlineSection}, r.cfg.Waits.WebDriver.Std())
	if err != nil {
		return r.fail(KindChallengeBlocked, "profile unreachable behind challenge: %w", err)
	}
	r.obs.Info(r.state, "✅ Profile reachable despite challenge")
	return nil
}

// firstPresent returns the first selector currently on the page, or "".
func (r *runner) firstPresent(ctx context.Context, selectors []string) string {
	var errs []error
	for _, sel := range selectors {
		ok, err := r.s.Present(ctx, sel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return sel
		}
	}
	if len(errs) > 0 {
		r.obs.Warn(r.state, "indicator check failed", errors.Join(errs...))
	}
	return ""
}

func (r *runner) onLoginPage() bool {
	return strings.HasPrefix(r.s.CurrentURL(), r.cfg.LoginURL)
}

func (r *runner) keystroke() time.Duration {
	if r.cfg.HumanTyping {
		return r.cfg.Waits.Keystroke.Std()
	}
	return 0
}
