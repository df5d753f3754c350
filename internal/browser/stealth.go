package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// StealthScript runs before any page script and hides the usual automation fingerprints.
const StealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
window.chrome = window.chrome || { runtime: {} };
`

// launchArgs keep Chromium from advertising itself as automated.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--disable-infobars",
}

// common desktop sizes
var viewports = []playwright.Size{
	{Width: 1920, Height: 1080},
	{Width: 1366, Height: 768},
	{Width: 1536, Height: 864},
	{Width: 1440, Height: 900},
	{Width: 1280, Height: 800},
}

// RandomViewport picks one of the common desktop window sizes.
func RandomViewport() playwright.Size {
	return viewports[rand.Intn(len(viewports))]
}

// RandomDelay waits for a random duration between min and max milliseconds, or until ctx ends.
func RandomDelay(ctx context.Context, min, max int) error {
	d := min
	if max > min {
		d = rand.Intn(max-min+1) + min
	}
	return sleepCtx(ctx, time.Duration(d)*time.Millisecond)
}

// sleepCtx waits for d unless ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jitter scales d by a random factor in [0.5, 1.5).
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d/2 + time.Duration(rand.Int63n(int64(d)))
}

// MouseApproach moves the pointer to (x, y) through a couple of nearby points,
// like a hand correcting its aim.
func MouseApproach(page playwright.Page, x, y float64) error {
	hops := rand.Intn(2) + 1
	for i := 0; i < hops; i++ {
		dx := float64(rand.Intn(81) - 40)
		dy := float64(rand.Intn(61) - 30)
		if err := page.Mouse().Move(x+dx, y+dy, playwright.MouseMoveOptions{
			Steps: playwright.Int(rand.Intn(8) + 5),
		}); err != nil {
			return err
		}
		time.Sleep(jitter(80 * time.Millisecond))
	}
	return page.Mouse().Move(x, y, playwright.MouseMoveOptions{Steps: playwright.Int(3)})
}
