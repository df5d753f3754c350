package workflow

import "context"

// navigate opens the profile page and confirms the headline section is there,
// logging in again once if the page asks for it.
func (r *runner) navigate(ctx context.Context) error {
	r.transition(StateNavigating)
	sel := r.cfg.Selectors

	candidates := []string{sel.HeadlineSection}
	if sel.LoginPrompt != "" {
		candidates = append(candidates, sel.LoginPrompt)
	}

	found, err := r.openProfile(ctx, candidates)
	if err != nil {
		return r.fail(KindTargetNotFound, "headline section not found: %w", err)
	}

	if found == 1 {
		r.obs.Info(r.state, "🔁 Login required on profile page, re-authenticating once")
		r.transition(StateAuthenticating)
		if err := r.submitLogin(ctx); err != nil {
			return err
		}
		if err := pause(ctx, r.cfg.Waits.Login.Std()); err != nil {
			return r.fail(KindAuthentication, "waiting for login: %w", err)
		}

		r.transition(StateNavigating)
		if _, err := r.openProfile(ctx, []string{sel.HeadlineSection}); err != nil {
			return r.fail(KindTargetNotFound, "headline section not found after re-authentication: %w", err)
		}
	}

	section, err := r.s.Find(ctx, sel.HeadlineSection, r.cfg.Waits.WebDriver.Std())
	if err != nil {
		return r.fail(KindTargetNotFound, "headline section not found: %w", err)
	}
	if err := section.ScrollIntoView(); err != nil {
		r.obs.Warn(r.state, "could not scroll to headline section", err)
	}
	r.obs.Info(r.state, "📍 Found resume headline section")

	if err := pause(ctx, r.cfg.Waits.Animation.Std()); err != nil {
		return r.fail(KindTargetNotFound, "waiting for profile page: %w", err)
	}
	return nil
}

func (r *runner) openProfile(ctx context.Context, candidates []string) (int, error) {
	if err := r.s.Navigate(ctx, r.cfg.ProfileURL); err != nil {
		return -1, err
	}
	if err := pause(ctx, r.cfg.Waits.PageLoad.Std()); err != nil {
		return -1, err
	}
	return r.s.WaitFirst(ctx, candidates, r.cfg.Waits.WebDriver.Std())
}
