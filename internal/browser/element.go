package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-headline-sync/internal/workflow"
)

// Element adapts a playwright locator to workflow.Element. Click failures wrap
// workflow.ErrNotInteractable so the fallback chain can tell them apart.
type Element struct {
	page    playwright.Page
	loc     playwright.Locator
	timeout time.Duration
}

func notInteractable(err error) error {
	return fmt.Errorf("%w: %v", workflow.ErrNotInteractable, err)
}

func (e *Element) Click() error {
	if err := e.loc.Click(playwright.LocatorClickOptions{Timeout: ms(e.timeout)}); err != nil {
		return notInteractable(err)
	}
	return nil
}

// ScriptClick dispatches the click from page script, which ignores overlays.
func (e *Element) ScriptClick() error {
	if _, err := e.loc.Evaluate("el => el.click()", nil, playwright.LocatorEvaluateOptions{
		Timeout: ms(e.timeout),
	}); err != nil {
		return notInteractable(err)
	}
	return nil
}

// PointerClick moves the mouse onto the element's centre and clicks there.
func (e *Element) PointerClick() error {
	box, err := e.loc.BoundingBox(playwright.LocatorBoundingBoxOptions{Timeout: ms(e.timeout)})
	if err != nil {
		return notInteractable(err)
	}
	if box == nil {
		return notInteractable(errors.New("element has no bounding box"))
	}

	x := box.X + box.Width/2
	y := box.Y + box.Height/2
	if err := MouseApproach(e.page, x, y); err != nil {
		return notInteractable(err)
	}
	if err := e.page.Mouse().Click(x, y); err != nil {
		return notInteractable(err)
	}
	return nil
}

func (e *Element) ScrollIntoView() error {
	return e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: ms(e.timeout),
	})
}

func (e *Element) Clear() error {
	return e.loc.Clear(playwright.LocatorClearOptions{Timeout: ms(e.timeout)})
}

func (e *Element) SelectAllDelete() error {
	if err := e.loc.Press("ControlOrMeta+a"); err != nil {
		return err
	}
	return e.loc.Press("Backspace")
}

// Type enters text in one go, or one character at a time with jittered pauses
// when keystroke is positive. Cancelling ctx stops between characters.
func (e *Element) Type(ctx context.Context, text string, keystroke time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keystroke <= 0 {
		return e.loc.PressSequentially(text)
	}
	for _, r := range text {
		if err := e.loc.PressSequentially(string(r)); err != nil {
			return err
		}
		if err := sleepCtx(ctx, jitter(keystroke)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) Press(key string) error {
	return e.loc.Press(key)
}

func (e *Element) Value() (string, error) {
	return e.loc.InputValue()
}

func (e *Element) Text() (string, error) {
	return e.loc.InnerText()
}

func (e *Element) Displayed() (bool, error) {
	return e.loc.IsVisible()
}

func (e *Element) Enabled() (bool, error) {
	return e.loc.IsEnabled()
}
