package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-headline-sync/internal/config"
	"go-headline-sync/internal/workflow"
)

var errNotVisible = errors.New("no element became visible")

// Session adapts one playwright page to workflow.Session.
type Session struct {
	pm         *PlaywrightManager
	browserCtx playwright.BrowserContext
	page       playwright.Page
	waits      config.Waits
}

func newSession(pm *PlaywrightManager, browserCtx playwright.BrowserContext, page playwright.Page, waits config.Waits) *Session {
	page.SetDefaultTimeout(float64(waits.WebDriver.Std().Milliseconds()))
	return &Session{pm: pm, browserCtx: browserCtx, page: page, waits: waits}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(s.waits.WebDriver.Std()),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	//settle like a person reading the page
	return RandomDelay(ctx, 200, 600)
}

func (s *Session) CurrentURL() string {
	return s.page.URL()
}

func (s *Session) Find(ctx context.Context, selector string, timeout time.Duration) (workflow.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	loc := s.page.Locator(selector).First()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	}); err != nil {
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}

	//pages often render controls disabled and enable them from script
	err := waitEnabled(ctx, func() (bool, error) { return loc.IsEnabled() }, deadline, s.waits.Poll.Std())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", selector, err)
	}
	return s.element(loc), nil
}

// waitEnabled polls enabled every interval until it holds or deadline passes.
func waitEnabled(ctx context.Context, enabled func() (bool, error), deadline time.Time, interval time.Duration) error {
	for {
		ok, err := enabled()
		if err != nil {
			return fmt.Errorf("check enabled: %w", err)
		}
		if ok {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("still disabled: %w", workflow.ErrNotInteractable)
		}
		if err := sleepCtx(ctx, min(interval, remaining)); err != nil {
			return err
		}
	}
}

func (s *Session) FindAll(ctx context.Context, selector string) ([]workflow.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locs, err := s.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	elements := make([]workflow.Element, 0, len(locs))
	for _, loc := range locs {
		elements = append(elements, s.element(loc))
	}
	return elements, nil
}

func (s *Session) Present(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.page.Locator(selector).First().IsVisible()
}

func (s *Session) WaitFirst(ctx context.Context, selectors []string, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		for i, sel := range selectors {
			visible, err := s.page.Locator(sel).First().IsVisible()
			if err == nil && visible {
				return i, nil
			}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return -1, fmt.Errorf("none of %d selectors after %s: %w", len(selectors), timeout, errNotVisible)
		}
		if err := sleepCtx(ctx, min(s.waits.Poll.Std(), remaining)); err != nil {
			return -1, err
		}
	}
}

func (s *Session) WaitGone(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
}

func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close closes the context, the browser and the driver, in that order.
func (s *Session) Close() error {
	var errs []error
	if err := s.browserCtx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := s.pm.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) Kill() error {
	return s.pm.Kill()
}

func (s *Session) element(loc playwright.Locator) *Element {
	return &Element{page: s.page, loc: loc, timeout: s.waits.PageLoad.Std()}
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
