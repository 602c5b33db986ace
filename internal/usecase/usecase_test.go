package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/entity"
	"browserflow/internal/locator"
	"browserflow/pkg/apperr"
)

type fakeStore struct {
	lockfiles map[string]*entity.ExplorationLockfile
	reviews   map[string]*entity.ReviewData
}

func (f *fakeStore) LoadLockfile(_ context.Context, path string) (*entity.ExplorationLockfile, error) {
	lf, ok := f.lockfiles[path]
	if !ok {
		return nil, apperr.NotFoundError("LoadLockfile", errors.New(path))
	}

	return lf, nil
}

func (f *fakeStore) LoadReview(_ context.Context, path string) (*entity.ReviewData, error) {
	r, ok := f.reviews[path]
	if !ok {
		return nil, apperr.NotFoundError("LoadReview", errors.New(path))
	}

	return r, nil
}

type fakeWriter struct {
	written []*entity.GeneratedTest
}

func (f *fakeWriter) WriteTest(_ context.Context, test *entity.GeneratedTest) (string, error) {
	f.written = append(f.written, test)

	return "/out/" + test.Path, nil
}

type fakeSource struct {
	snap    *entity.Snapshot
	targets []string
}

func (f *fakeSource) Capture(_ context.Context, target string) (*entity.Snapshot, error) {
	f.targets = append(f.targets, target)

	return f.snap, nil
}

type fakeBrowser struct {
	fakeSource
	shots []string
}

func (f *fakeBrowser) Launch(context.Context) error { return nil }

func (f *fakeBrowser) Close(context.Context) error { return nil }

func (f *fakeBrowser) Screenshot(_ context.Context, path string) error {
	f.shots = append(f.shots, path)

	return nil
}

func (f *fakeBrowser) IsReady() bool { return true }

func testConfig() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{LogLevel: "info"},
		CompilerConfig: &config.CompilerConfig{
			PageVariable:     "page",
			IncludeComments:  true,
			OutputDir:        "e2e",
			MaxCandidates:    3,
			CompareThreshold: 0.1,
		},
		BrowserConfig: &config.BrowserConfig{Headless: true},
		HTTPConfig:    &config.HTTPConfig{},
	}
}

func sampleLockfile() *entity.ExplorationLockfile {
	return &entity.ExplorationLockfile{
		SpecName:      "search-flow",
		ExplorationID: "exp-9",
		Timestamp:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Steps: []entity.ExplorationStep{
			{
				StepIndex:  0,
				SpecAction: entity.SpecAction{Action: entity.ActionNavigate, URL: "https://shop.test"},
			},
			{
				StepIndex:  1,
				SpecAction: entity.SpecAction{Action: entity.ActionClick},
				Execution:  entity.StepExecution{SelectorUsed: "#go"},
			},
		},
	}
}

func newCompileService(store *fakeStore, writer *fakeWriter) *CompileService {
	svc := NewCompileService(CompileServiceParams{
		Config: testConfig(),
		Logger: zap.NewNop(),
		Store:  store,
		Writer: writer,
	})
	svc.now = func() time.Time { return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC) }

	return svc
}

func TestCompileService_Compile(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		lockfiles: map[string]*entity.ExplorationLockfile{"lock.json": sampleLockfile()},
		reviews: map[string]*entity.ReviewData{"review.json": {
			Reviewer: "kim",
			Steps: map[int]entity.StepReview{1: {
				LockedLocator: &entity.LocatorDescriptor{Method: locator.MethodGetByRole, Args: entity.LocatorArgs{Role: "button", Name: "Go"}},
			}},
		}},
	}
	writer := &fakeWriter{}
	svc := newCompileService(store, writer)

	test, written, err := svc.Compile(context.Background(), "lock.json", "review.json")
	require.NoError(t, err)

	assert.Equal(t, "/out/e2e/search-flow.spec.ts", written)
	require.Len(t, writer.written, 1)
	assert.Same(t, test, writer.written[0])
	assert.Contains(t, test.Content, " * Generated at: 2026-07-01T12:00:00Z")
	assert.Contains(t, test.Content, " * Reviewed by: kim")
	assert.Contains(t, test.Content, "await page.getByRole('button', { name: 'Go' }).click();")
}

func TestCompileService_CompileErrors(t *testing.T) {
	t.Parallel()

	broken := sampleLockfile()
	broken.Steps[1].Execution.SelectorUsed = ""

	store := &fakeStore{lockfiles: map[string]*entity.ExplorationLockfile{"broken.json": broken}}
	writer := &fakeWriter{}
	svc := newCompileService(store, writer)
	ctx := context.Background()

	_, _, err := svc.Compile(ctx, "", "")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, _, err = svc.Compile(ctx, "missing.json", "")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, _, err = svc.Compile(ctx, "broken.json", "")
	assert.Equal(t, apperr.CodeCompileFailed, apperr.CodeOf(err))
	assert.ErrorIs(t, err, locator.ErrNoLocatorAvailable)

	_, _, err = svc.Compile(ctx, "broken.json", "missing-review.json")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	assert.Empty(t, writer.written)
}

func TestCompileService_Options(t *testing.T) {
	t.Parallel()

	svc := newCompileService(&fakeStore{}, &fakeWriter{})
	svc.config.CompilerConfig.IncludeComments = false
	svc.config.CompilerConfig.PageVariable = "app"

	opts := svc.Options()
	assert.False(t, opts.IncludeComments)
	assert.Equal(t, "app", opts.PageVariable)
	assert.Equal(t, "e2e", opts.OutputDir)
	assert.Equal(t, 2026, opts.GeneratedAt.Year())
}

func shopSnapshot() *entity.Snapshot {
	return &entity.Snapshot{Elements: []entity.ElementInfo{
		{Ref: "e1", Tag: "a", Text: "Home"},
		{Ref: "e2", Tag: "button", Text: "Add to cart", TestID: "add-to-cart"},
	}}
}

func newCandidateService(files *fakeSource, browser *fakeBrowser) *CandidateService {
	return NewCandidateService(CandidateServiceParams{
		Config:  testConfig(),
		Logger:  zap.NewNop(),
		Browser: browser,
		Files:   files,
	})
}

func TestCandidateService_Candidates(t *testing.T) {
	t.Parallel()

	files := &fakeSource{snap: shopSnapshot()}
	browser := &fakeBrowser{fakeSource: fakeSource{snap: shopSnapshot()}}
	svc := newCandidateService(files, browser)

	views, err := svc.Candidates(context.Background(), "add to cart button", "pages/shop.html")
	require.NoError(t, err)
	assert.Equal(t, []string{"pages/shop.html"}, files.targets)
	assert.Empty(t, browser.targets)

	require.Len(t, views, 3)
	assert.Equal(t, entity.StrategyRef, views[0].Strategy)
	assert.Equal(t, `page.locator('[data-ref="e2"]')`, views[0].Code)
	assert.Equal(t, "page.getByTestId('add-to-cart')", views[1].Code)
	assert.Equal(t, "page.getByRole('button', { name: 'Add to cart' })", views[2].Code)

	_, err = svc.Candidates(context.Background(), "home", "HTTPS://shop.test/")
	require.NoError(t, err)
	assert.Equal(t, []string{"HTTPS://shop.test/"}, browser.targets)
}

func TestCandidateService_Errors(t *testing.T) {
	t.Parallel()

	svc := newCandidateService(&fakeSource{snap: shopSnapshot()}, &fakeBrowser{})

	_, err := svc.Candidates(context.Background(), "home", " ")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.Rank(context.Background(), "", *shopSnapshot())
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	views, err := svc.Rank(context.Background(), "checkout", entity.Snapshot{})
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestCandidateService_EmitLocator(t *testing.T) {
	t.Parallel()

	svc := newCandidateService(&fakeSource{}, &fakeBrowser{})
	svc.config.CompilerConfig.PageVariable = "tab"

	code, err := svc.EmitLocator(context.Background(), entity.BySelector(".row"), entity.EmitOptions{ChainFirst: true})
	require.NoError(t, err)
	assert.Equal(t, "tab.locator('.row').first()", code)

	_, err = svc.EmitLocator(context.Background(), entity.LocatorDescriptor{}, entity.EmitOptions{})
	assert.ErrorIs(t, err, locator.ErrMissingLocatorTarget)
}

func TestBaselineService_Capture(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{fakeSource: fakeSource{snap: shopSnapshot()}}
	cfg := testConfig()
	cfg.CompilerConfig.BaselinesPath = t.TempDir()

	svc := NewBaselineService(BaselineServiceParams{Config: cfg, Logger: zap.NewNop(), Browser: browser})

	path, err := svc.Capture(context.Background(), "https://shop.test", "home")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "home.png"))
	assert.Equal(t, []string{path}, browser.shots)
	assert.Equal(t, []string{"https://shop.test"}, browser.targets)

	_, err = svc.Capture(context.Background(), "pages/shop.html", "home")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.Capture(context.Background(), "https://shop.test", "")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestVisualService_Emit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CompilerConfig.BaselinesPath = "baselines"
	svc := NewVisualService(VisualServiceParams{Config: cfg, Logger: zap.NewNop()})
	ctx := context.Background()

	code, err := svc.Emit(ctx, entity.VisualRequest{Directive: entity.ScreenshotDirective{Name: "home"}})
	require.NoError(t, err)
	assert.Equal(t, "await expect(page).toHaveScreenshot('home.png');", code)

	code, err = svc.Emit(ctx, entity.VisualRequest{
		Mode:      entity.VisualAssert,
		Directive: entity.ScreenshotDirective{Name: "card"},
		Locator:   &entity.LocatorDescriptor{Method: locator.MethodGetByTestID, Args: entity.LocatorArgs{TestID: "card"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "await expect(page.getByTestId('card')).toHaveScreenshot('card.png');", code)

	code, err = svc.Emit(ctx, entity.VisualRequest{Mode: entity.VisualCapture, Directive: entity.ScreenshotDirective{Name: "home"}})
	require.NoError(t, err)
	assert.Equal(t, "await page.screenshot({ path: 'baselines/home.png' });", code)

	code, err = svc.Emit(ctx, entity.VisualRequest{Mode: entity.VisualCompare})
	require.NoError(t, err)
	assert.Equal(t, "const diffRatio = await compareImages(baseline, actual);\nexpect(diffRatio).toBeLessThanOrEqual(0.1);", code)

	zero := 0.0
	code, err = svc.Emit(ctx, entity.VisualRequest{Mode: entity.VisualCompare, Threshold: &zero})
	require.NoError(t, err)
	assert.Equal(t, "const diffRatio = await compareImages(baseline, actual);\nexpect(diffRatio).toBeLessThanOrEqual(0);", code)

	_, err = svc.Emit(ctx, entity.VisualRequest{Mode: "sketch"})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
