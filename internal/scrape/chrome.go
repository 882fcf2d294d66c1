package scrape

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchHTML renders a page in headless Chrome and returns its HTML.
// Retail sites assemble their result grids client-side, so a plain GET
// is not enough; the anti-automation flags mirror what the sites
// tolerate from regular browsers.
func fetchHTML(ctx context.Context, url, userAgent string, scrollPasses int, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`, nil),
	}
	// Lazy-loaded grids need scroll passes before the full result set exists.
	for i := 0; i < scrollPasses; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
			chromedp.Sleep(500*time.Millisecond),
		)
	}
	actions = append(actions,
		chromedp.Evaluate(`window.scrollTo(0, 0);`, nil),
		chromedp.Sleep(500*time.Millisecond),
	)

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(bctx, actions...); err != nil {
		return "", err
	}
	return html, nil
}
