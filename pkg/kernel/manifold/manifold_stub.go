//go:build !manifold

// Package manifold binds kernel.Kernel to the Manifold C API. This build
// was made without -tags=manifold, so New always fails.
package manifold

import (
	"errors"

	"github.com/chazu/kerf/pkg/kernel"
)

var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

func New() (kernel.Kernel, error) { return nil, ErrUnavailable }
