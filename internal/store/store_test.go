package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
)

const lockfileJSON = `{
  "specName": "search",
  "specPath": "specs/search.yaml",
  "explorationId": "exp-1",
  "timestamp": "2026-04-01T10:00:00Z",
  "explorerVersion": "1.4.0",
  "steps": [
    {
      "stepIndex": 0,
      "specAction": {"action": "wait", "wait": {"for": "time", "duration": 1500}},
      "execution": {"status": "passed", "durationMs": 1502}
    },
    {
      "stepIndex": 1,
      "specAction": {"action": "click", "target": "search button"},
      "execution": {"status": "passed", "durationMs": 80, "locator": {"method": "getByRole", "args": {"role": "button", "name": "Search"}}}
    }
  ]
}`

const lockfileYAML = `specName: search
specPath: specs/search.yaml
explorationId: exp-1
timestamp: 2026-04-01T10:00:00Z
steps:
  - stepIndex: 0
    specAction:
      action: wait
      wait:
        for: time
        duration: 1500
    execution:
      status: passed
      durationMs: 1502
  - stepIndex: 1
    specAction:
      action: click
      target: search button
    execution:
      status: passed
      durationMs: 80
      locator:
        method: getByRole
        args:
          role: button
          name: Search
`

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	dir := t.TempDir()

	return NewFileStoreAt(dir, zap.NewNop()), dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadLockfile_JSONAndYAMLAgree(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)
	ctx := context.Background()

	fromJSON, err := s.LoadLockfile(ctx, writeFile(t, dir, "search.json", lockfileJSON))
	require.NoError(t, err)

	fromYAML, err := s.LoadLockfile(ctx, writeFile(t, dir, "search.yml", lockfileYAML))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, "search", fromJSON.SpecName)
	require.Len(t, fromJSON.Steps, 2)
	assert.Equal(t, "Search", fromJSON.Steps[1].Execution.Locator.Args.Name)
	assert.Equal(t, "1500ms", fromJSON.Steps[0].SpecAction.Wait.Duration.String())
}

func TestLoadLockfile_Errors(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		file string
		body string
		code string
		is   error
	}{
		{name: "missing spec name", file: "a.json", body: `{"steps": [{"stepIndex": 0}]}`, code: apperr.CodeInvalidArgument, is: ErrMissingSpecName},
		{name: "no steps", file: "b.yaml", body: "specName: x\nsteps: []\n", code: apperr.CodeInvalidArgument, is: ErrNoSteps},
		{name: "malformed json", file: "c.json", body: `{"specName": `, code: apperr.CodeDecodeFailed},
		{name: "unknown extension", file: "d.txt", body: "specName: x", code: apperr.CodeDecodeFailed, is: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.LoadLockfile(ctx, writeFile(t, dir, tt.file, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.CodeOf(err))

			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}

	_, err := s.LoadLockfile(ctx, filepath.Join(dir, "absent.json"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestLoadReview(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)

	review, err := s.LoadReview(context.Background(), writeFile(t, dir, "review.yaml", `reviewer: kim
submittedAt: 2026-04-02T09:00:00Z
steps:
  1:
    status: approved
    comment: locked to role
    lockedLocator:
      method: getByRole
      args: {role: button, name: Go}
`))
	require.NoError(t, err)

	assert.Equal(t, "kim", review.Reviewer)
	require.Contains(t, review.Steps, 1)
	assert.Equal(t, "Go", review.Steps[1].LockedLocator.Args.Name)
}

func TestWriteTest(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)

	written, err := s.WriteTest(context.Background(), &entity.GeneratedTest{
		Path:     "tests/nested/search.spec.ts",
		Content:  "// generated\n",
		SpecName: "search",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tests", "nested", "search.spec.ts"), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "// generated\n", string(data))

	_, err = s.WriteTest(context.Background(), &entity.GeneratedTest{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
