// Package framework wraps the host framework's own command-line tool.
//
// The installer never talks to `php artisan` directly; it calls the named
// operations of Framework so that tests can substitute a fake.
package framework

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/conneroisu/balkit/internal/runner"
)

// Framework is the set of host framework operations the installer uses.
type Framework interface {
	ClearConfig(ctx context.Context) error
	DiscoverPackages(ctx context.Context) error
	// HasCommand reports whether any registered command starts with prefix.
	HasCommand(ctx context.Context, prefix string) (bool, error)
	PublishLivewireConfig(ctx context.Context) error
	InstallBreeze(ctx context.Context, stack string) error
}

// Artisan implements Framework with `php artisan`.
type Artisan struct {
	runner runner.Runner
}

// NewArtisan creates an Artisan bound to r.
func NewArtisan(r runner.Runner) *Artisan {
	return &Artisan{runner: r}
}

// ClearConfig runs `artisan config:clear`.
func (a *Artisan) ClearConfig(ctx context.Context) error {
	_, err := a.runner.Run(ctx, runner.Artisan("config:clear"))
	return err
}

// DiscoverPackages runs `artisan package:discover` so newly required
// packages register their commands.
func (a *Artisan) DiscoverPackages(ctx context.Context) error {
	_, err := a.runner.Run(ctx, runner.Artisan("package:discover"))
	return err
}

// HasCommand lists the registered commands with `artisan list --raw`, one
// command per line followed by its description.
func (a *Artisan) HasCommand(ctx context.Context, prefix string) (bool, error) {
	res, err := a.runner.Run(ctx, runner.Artisan("list", "--raw").Quiet())
	if err != nil {
		return false, err
	}
	return ContainsCommand(res.Output, prefix), nil
}

// PublishLivewireConfig runs `artisan livewire:publish --config`.
func (a *Artisan) PublishLivewireConfig(ctx context.Context) error {
	_, err := a.runner.Run(ctx, runner.Artisan("livewire:publish", "--config"))
	return err
}

// InstallBreeze scaffolds Breeze with the given stack, without prompting.
func (a *Artisan) InstallBreeze(ctx context.Context, stack string) error {
	_, err := a.runner.Run(ctx, runner.Artisan("breeze:install", stack, "--no-interaction"))
	return err
}

// ContainsCommand scans `artisan list --raw` output for a command name with
// the given prefix.
func ContainsCommand(listing []byte, prefix string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], prefix) {
			return true
		}
	}
	return false
}
