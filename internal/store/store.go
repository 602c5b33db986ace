// Package store reads exploration lockfiles and reviews and writes generated tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
)

const (
	fileStoreName = "FileStore"

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrMissingSpecName   = errors.New("lockfile has no specName")
	ErrNoSteps           = errors.New("lockfile has no steps")
)

type FileStore struct {
	root   string
	logger *zap.Logger
}

type Params struct {
	fx.In

	Logger *zap.Logger
}

// NewFileStore writes generated tests relative to the working directory; the
// compiler already prefixes paths with the configured output directory.
func NewFileStore(params Params) *FileStore {
	return NewFileStoreAt("", params.Logger)
}

// NewFileStoreAt writes generated tests under root.
func NewFileStoreAt(root string, logger *zap.Logger) *FileStore {
	return &FileStore{
		root:   root,
		logger: logger.With(zap.String(logg.Layer, fileStoreName)),
	}
}

func (s *FileStore) LoadLockfile(ctx context.Context, path string) (*entity.ExplorationLockfile, error) {
	const op = "LoadLockfile"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Path, path))

	var lf entity.ExplorationLockfile
	if err := s.decodeFile(ctx, op, path, &lf); err != nil {
		return nil, err
	}

	if strings.TrimSpace(lf.SpecName) == "" {
		return nil, apperr.InvalidReqError(op, "specName", fmt.Errorf("%s: %w", path, ErrMissingSpecName))
	}

	if len(lf.Steps) == 0 {
		return nil, apperr.InvalidReqError(op, "steps", fmt.Errorf("%s: %w", path, ErrNoSteps))
	}

	logger.Debug("Lockfile loaded",
		zap.String(logg.SpecName, lf.SpecName),
		zap.Int("steps", len(lf.Steps)))

	return &lf, nil
}

func (s *FileStore) LoadReview(ctx context.Context, path string) (*entity.ReviewData, error) {
	const op = "LoadReview"

	var review entity.ReviewData
	if err := s.decodeFile(ctx, op, path, &review); err != nil {
		return nil, err
	}

	s.logger.Debug("Review loaded",
		zap.String(logg.Operation, op),
		zap.String(logg.Path, path),
		zap.String("reviewer", review.Reviewer))

	return &review, nil
}

// WriteTest writes test.Content to root/test.Path and returns the written path.
func (s *FileStore) WriteTest(ctx context.Context, test *entity.GeneratedTest) (string, error) {
	const op = "WriteTest"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if test == nil || strings.TrimSpace(test.Path) == "" {
		return "", apperr.InvalidReqError(op, "path", errors.New("generated test has no path"))
	}

	target := filepath.Join(s.root, filepath.FromSlash(test.Path))

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return "", storageError(op, target, "mkdir_failed", err)
	}

	if err := os.WriteFile(target, []byte(test.Content), filePerm); err != nil {
		return "", storageError(op, target, "write_failed", err)
	}

	s.logger.Info("Test written",
		zap.String(logg.Operation, op),
		zap.String(logg.Path, target),
		zap.String(logg.SpecName, test.SpecName))

	return target, nil
}

func (s *FileStore) decodeFile(ctx context.Context, op, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFoundError(op, fmt.Errorf("%s: %w", path, err))
		}

		return storageError(op, path, "read_failed", err)
	}

	if err := Decode(path, data, out); err != nil {
		return apperr.Wrap(op, apperr.CodeDecodeFailed, err, map[string]any{
			apperr.MetaStage: apperr.StageStorage,
			apperr.MetaPath:  path,
		})
	}

	return nil
}

// Decode unmarshals data as JSON or YAML depending on the extension of name.
func Decode(name string, data []byte, out any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return json.Unmarshal(data, out)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

func storageError(op, path, reason string, err error) error {
	return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
		apperr.MetaReason: reason,
		apperr.MetaStage:  apperr.StageStorage,
		apperr.MetaPath:   path,
	})
}
