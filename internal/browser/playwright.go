package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"

	"go-headline-sync/internal/config"
	"go-headline-sync/internal/workflow"
)

// PlaywrightManager owns the driver process and the Chromium instance.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywright starts the driver and launches Chromium with automation flags suppressed.
func NewPlaywright(ctx context.Context, headless bool) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:          playwright.Bool(headless),
		Args:              launchArgs,
		IgnoreDefaultArgs: []string{"--enable-automation"},
	})
	if err != nil {
		//don't leak the driver when chromium fails
		if stopErr := pw.Stop(); stopErr != nil {
			log.Warnf("⚠️ Failed to stop playwright: %v", stopErr)
		}
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext creates an isolated browser context with the stealth script and optional cookies.
func (pm *PlaywrightManager) NewContext(userAgent string, viewport playwright.Size, cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &viewport,
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}

	if err := browserCtx.AddInitScript(playwright.Script{
		Content: playwright.String(StealthScript),
	}); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("add stealth script: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

// Close shuts down the browser, then the driver.
func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if err := pm.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// Kill stops the driver without waiting on the browser; the driver takes Chromium down with it.
func (pm *PlaywrightManager) Kill() error {
	return pm.pw.Stop()
}

// Launcher opens one stealth-configured page per Launch.
type Launcher struct {
	cfg *config.Config
}

func NewLauncher(cfg *config.Config) *Launcher {
	return &Launcher{cfg: cfg}
}

// Launch implements workflow.Launcher. Anything started before a failure is released.
func (l *Launcher) Launch(ctx context.Context) (workflow.Session, error) {
	pm, err := NewPlaywright(ctx, l.cfg.Headless)
	if err != nil {
		return nil, err
	}

	var cookies []playwright.OptionalCookie
	if l.cfg.CookiesPath != "" {
		cookies, err = LoadCookies(l.cfg.CookiesPath)
		if err != nil {
			log.Warnf("⚠️ Could not load cookies: %v. Continuing with a fresh login.", err)
		} else {
			log.Infof("🍪 Loaded %d cookies", len(cookies))
		}
	}

	viewport := RandomViewport()
	log.Debugf("🕵️ User agent: %s", l.cfg.UserAgent)
	log.Debugf("🕵️ Viewport: %dx%d, headless=%v", viewport.Width, viewport.Height, l.cfg.Headless)

	browserCtx, err := pm.NewContext(l.cfg.UserAgent, viewport, cookies)
	if err != nil {
		l.release(pm)
		return nil, err
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		l.release(pm)
		return nil, fmt.Errorf("new page: %w", err)
	}
	log.Info("✅ Browser initialized successfully!")

	return newSession(pm, browserCtx, page, l.cfg.Waits), nil
}

func (l *Launcher) release(pm *PlaywrightManager) {
	if err := pm.Close(); err != nil {
		log.Warnf("⚠️ Failed to release browser after launch error: %v", err)
	}
}
