package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func (r *runner) activateEdit(ctx context.Context) error {
	waits := r.cfg.Waits

	button, err := r.s.Find(ctx, r.cfg.Selectors.HeadlineEditButton, waits.WebDriver.Std())
	if err != nil {
		return r.fail(KindInteraction, "edit control not found: %w", err)
	}
	if err := button.ScrollIntoView(); err != nil {
		r.obs.Warn(r.state, "could not scroll to edit control", err)
	}
	if err := pause(ctx, waits.Animation.Std()); err != nil {
		return r.fail(KindInteraction, "waiting for edit control: %w", err)
	}

	out := r.runChain(ctx, button, nil)
	if !out.Success {
		return r.fail(KindInteraction, "edit control did not respond to any click: %w", out.Err)
	}
	r.transition(StateEditActivated)
	r.obs.Info(r.state, "✏️ Edit dialog opened via "+out.Strategy+" click")

	if err := pause(ctx, 2*waits.Animation.Std()); err != nil {
		return r.fail(KindInteraction, "waiting for edit dialog: %w", err)
	}
	return nil
}

func (r *runner) replaceText(ctx context.Context) error {
	waits := r.cfg.Waits
	target := r.cfg.Headline

	field, err := r.s.Find(ctx, r.cfg.Selectors.HeadlineTextarea, waits.WebDriver.Std())
	if err != nil {
		return r.fail(KindTextEntry, "headline field not found: %w", err)
	}
	if err := field.ScrollIntoView(); err != nil {
		r.obs.Warn(r.state, "could not scroll to headline field", err)
	}
	if err := pause(ctx, waits.Animation.Std()); err != nil {
		return r.fail(KindTextEntry, "waiting for headline field: %w", err)
	}

	err = r.retry(ctx, "clear", r.cfg.Retries, waits.Input.Std(), func(int) error {
		return r.clearField(ctx, field)
	})
	if err != nil {
		return r.fail(KindTextEntry, "clear headline: %w", err)
	}

	keystroke := r.keystroke()
	err = r.retry(ctx, "type", r.cfg.Retries, waits.Input.Std(), func(int) error {
		if err := r.clearField(ctx, field); err != nil {
			return err
		}
		if err := field.Type(ctx, target, keystroke); err != nil {
			return fmt.Errorf("type: %w", err)
		}
		got, err := field.Value()
		if err != nil {
			return fmt.Errorf("read back: %w", err)
		}
		if got != target {
			return fmt.Errorf("read back %d chars that differ from the %d-char target", len(got), len(target))
		}
		return nil
	})
	if err != nil {
		return r.fail(KindTextEntry, "enter headline: %w", err)
	}

	//moving focus away fires the page's change/validation handlers
	if err := field.Press("Tab"); err != nil {
		r.obs.Warn(r.state, "could not move focus off the headline field", err)
	}
	if err := pause(ctx, 2*waits.Input.Std()); err != nil {
		return r.fail(KindTextEntry, "waiting after entry: %w", err)
	}

	r.transition(StateTextEntered)
	r.obs.Info(r.state, "⌨️ Headline entered")
	return nil
}

// clearField focuses the field and empties it, falling back to select-all + delete.
func (r *runner) clearField(ctx context.Context, field Element) error {
	if err := field.Click(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	if err := pause(ctx, r.cfg.Waits.Input.Std()); err != nil {
		return err
	}
	if err := field.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	value, err := field.Value()
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if value == "" {
		return nil
	}

	r.obs.Warn(r.state, "field not cleared, trying select-all + delete", nil)
	if err := field.SelectAllDelete(); err != nil {
		return fmt.Errorf("select-all delete: %w", err)
	}
	value, err = field.Value()
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if value != "" {
		return fmt.Errorf("%d chars left after clearing", len(value))
	}
	return nil
}

// normalizeText NFC-normalises DOM text, drops invisible format characters
// (zero-width spaces, joiners) and collapses whitespace runs.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Cf)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = norm.NFC.String(s)
	}
	return strings.Join(strings.Fields(result), " ")
}
