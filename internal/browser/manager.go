package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	browserManagerName = "BrowserManager"
	browserTracer      = "browser.manager"
	loadStateTimeout   = 5000
)

// Manager drives a single headless Chromium page used to snapshot live pages
// and capture baseline screenshots. It launches lazily on first use.
type Manager struct {
	config         *config.Config
	logger         *zap.Logger
	tracer         trace.Tracer
	mu             sync.Mutex
	playwright     *playwright.Playwright
	browser        playwright.Browser
	browserContext playwright.BrowserContext
	page           playwright.Page
	ready          bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, browserManagerName)),
		tracer: otel.Tracer(browserTracer),
		ready:  false,
	}
}

func (m *Manager) Launch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.launch(ctx)
}

func (m *Manager) launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := m.logger.With(zap.String(logg.Operation, op))

	if m.ready {
		return nil
	}

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching browser...")
	step.AddEvent("installing playwright")

	err = playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "playwright_install_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		JavaScriptEnabled: playwright.Bool(true),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.browserContext = browserContext

	page, err := browserContext.NewPage()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.page = page

	m.ready = true
	logger.Info("Browser launched successfully")

	return nil
}

func (m *Manager) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := m.logger.With(zap.String(logg.Operation, op))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playwright == nil {
		return nil
	}

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Closing browser...")

	if m.browserContext != nil {
		if err := m.browserContext.Close(); err != nil {
			logger.Warn("Failed to close context", zap.Error(err))
		}
	}

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			logger.Warn("Failed to close browser", zap.Error(err))
		}
	}

	err = m.playwright.Stop()

	m.playwright = nil
	m.browser = nil
	m.browserContext = nil
	m.page = nil
	m.ready = false

	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_stop_failed",
		})
	}

	logger.Info("Browser closed")

	return nil
}

func (m *Manager) ensurePageActive(ctx context.Context) error {
	if err := m.launch(ctx); err != nil {
		return err
	}

	if m.page != nil && !m.page.IsClosed() {
		return nil
	}

	m.logger.Info("Page closed, opening a new one...")

	page, err := m.browserContext.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create new page: %w", err)
	}

	m.page = page

	return nil
}

// Capture navigates to url and returns a snapshot of its addressable elements.
func (m *Manager) Capture(ctx context.Context, url string) (snap *entity.Snapshot, err error) {
	const op = "Capture"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if err := m.ensurePageActive(ctx); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeBrowserNotReady, err, map[string]any{
			apperr.MetaReason: "page_not_active",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	step.AddEvent("navigating to URL")

	_, err = m.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(m.config.BrowserConfig.Timeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	if err := m.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(loadStateTimeout),
	}); err != nil {
		logger.Debug("Network did not settle, snapshotting anyway", zap.Error(err))
	}

	step.AddEvent("enumerating elements")

	result, err := m.page.Evaluate(elementsScript())
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "evaluate_failed",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	elements, err := parseElements(result)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "unexpected_result_type",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	title, _ := m.page.Title()

	logger.Info("Page captured", zap.Int("elements", len(elements)))

	return &entity.Snapshot{
		URL:      m.page.URL(),
		Title:    title,
		Elements: elements,
	}, nil
}

// Screenshot saves a full-page PNG of the current page to path.
func (m *Manager) Screenshot(ctx context.Context, path string) (err error) {
	const op = "Screenshot"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.Path, path))

	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !m.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	if err := m.ensurePageActive(ctx); err != nil {
		return apperr.Wrap(op, apperr.CodeBrowserNotReady, err, map[string]any{
			apperr.MetaReason: "page_not_active",
		})
	}

	_, err = m.page.Screenshot(playwright.PageScreenshotOptions{
		Path:       playwright.String(path),
		FullPage:   playwright.Bool(true),
		Type:       playwright.ScreenshotTypePng,
		Animations: playwright.ScreenshotAnimationsDisabled,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "screenshot_failed",
			apperr.MetaStage:  apperr.StageScreenshot,
			apperr.MetaPath:   path,
		})
	}

	return nil
}

func (m *Manager) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ready
}

func parseElements(result any) ([]entity.ElementInfo, error) {
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected element list, got %T", result)
	}

	elements := make([]entity.ElementInfo, 0, len(list))

	for _, item := range list {
		elemMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		el := entity.ElementInfo{
			Ref:        getString(elemMap, "ref"),
			Tag:        getString(elemMap, "tag"),
			Role:       getString(elemMap, "role"),
			Text:       strings.TrimSpace(getString(elemMap, "text")),
			AriaLabel:  getString(elemMap, "ariaLabel"),
			TestID:     getString(elemMap, "testId"),
			ClassName:  getString(elemMap, "className"),
			ID:         getString(elemMap, "id"),
			Attributes: make(map[string]string),
		}

		if attrs, ok := elemMap["attributes"].(map[string]interface{}); ok {
			for k, v := range attrs {
				if str, ok := v.(string); ok {
					el.Attributes[k] = str
				}
			}
		}

		elements = append(elements, el)
	}

	return elements, nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}
