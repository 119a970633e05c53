//go:build !cgo

package main

import (
	"context"
	"errors"

	"github.com/appengine-ltd/steelball/internal/config"
)

func runPlay(_ context.Context, _ config.Config) error {
	return errors.New("the 3D client needs a cgo build with raylib; try `steelball term`")
}
