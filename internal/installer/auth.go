package installer

import (
	"context"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/afero"

	"github.com/conneroisu/balkit/internal/config"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/prompt"
	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
)

const (
	breezePackage = "laravel/breeze"
	breezeStack   = "blade"

	// RoutesFile receives the commented auth route template.
	RoutesFile = "routes/web.php"
)

// AuthRoutes is appended to the routes file by the simple auth install.
var AuthRoutes = heredoc.Doc(`
	// Basic Authentication Routes Template
	// For full authentication, we recommend using Laravel Breeze:
	//   composer require laravel/breeze --dev
	//   php artisan breeze:install blade
	//
	// Or add custom authentication routes here:
	// Route::get('/login', [LoginController::class, 'showLoginForm'])->name('login');
	// Route::post('/login', [LoginController::class, 'login']);
	// Route::post('/logout', [LoginController::class, 'logout'])->name('logout');
	// Route::get('/register', [RegisterController::class, 'showRegistrationForm'])->name('register');
	// Route::post('/register', [RegisterController::class, 'register']);
`)

// authRoutesMarker identifies an already appended route template.
const authRoutesMarker = "// Basic Authentication Routes Template"

func (in *Installer) installAuth(ctx context.Context, r *Report) {
	r.info("Installing authentication scaffolding...")

	r.comment("BAL Kit provides Bootstrap-styled authentication views.")
	r.comment("For complete authentication functionality, we recommend Laravel Breeze.")
	r.newLine()

	if in.useBreeze(ctx, r) {
		in.installBreezeAuth(ctx, r)
	} else {
		r.comment("Installing Bootstrap-styled authentication view templates only...")
		in.installSimpleAuth(ctx, r)
	}

	r.info("Authentication scaffolding installed")
}

// useBreeze decides between Breeze and the simple views: an explicit mode
// wins, then an interactive confirm, then Breeze.
func (in *Installer) useBreeze(ctx context.Context, r *Report) bool {
	switch in.authMode {
	case config.AuthModeBreeze:
		return true
	case config.AuthModeViews:
		return false
	}

	if in.prompter == nil || !in.prompter.Interactive() {
		in.logger.Debug(ctx, "No interactive terminal, defaulting to Breeze")
		return true
	}

	answer, err := in.prompter.Confirm(ctx, prompt.ConfirmConfig{
		Message: "Install Laravel Breeze for complete authentication?",
		Default: true,
		Help:    "Breeze adds controllers and routes. Answer no to copy the login and register views only.",
	})
	if err != nil {
		r.Notices.Warn(phaseAuth, err)
		in.logger.Warn(ctx, err, "Auth prompt failed, defaulting to Breeze")
		return true
	}
	return answer
}

func (in *Installer) installBreezeAuth(ctx context.Context, r *Report) {
	if in.composerRequires(breezePackage, true) {
		r.info("Laravel Breeze already installed")
	} else {
		r.info("Installing Laravel Breeze...")
		in.run(ctx, r, phaseAuth, runner.ComposerRequireBreeze)
	}

	in.refreshFramework(ctx, r, phaseAuth)

	r.info("Setting up Breeze authentication...")
	if err := in.framework.InstallBreeze(ctx, breezeStack); err != nil {
		r.Notices.Warn(phaseAuth, err)
		in.logger.Warn(ctx, err, "Breeze scaffolder failed")
		r.warn("Breeze installation encountered an issue.")
		r.warn("You can run it manually after installation:")
		r.line("  " + runner.Artisan("breeze:install", breezeStack).String())
		r.line("  npm uninstall tailwindcss postcss autoprefixer")
		r.line("  " + runner.NPMInstallBalStack.String())
		return
	}

	r.info("Replacing Tailwind with Bootstrap...")
	in.run(ctx, r, phaseAuth, runner.NPMUninstallTailwind)
	in.run(ctx, r, phaseAuth, runner.NPMInstallBalStack)
	r.info("Breeze configured with Bootstrap successfully")
}

func (in *Installer) installSimpleAuth(ctx context.Context, r *Report) {
	opts := stubs.CopyOptions{SkipExisting: !in.force}
	for _, tf := range []stubs.TemplateFile{stubs.Login, stubs.Register} {
		if _, err := in.copier.Copy(ctx, tf, opts); err != nil {
			in.ioWarning(ctx, r, phaseAuth, tf.Destination, err)
		}
	}

	in.appendAuthRoutes(ctx, r)
}

// appendAuthRoutes appends the route template once. A host without a routes
// file is left alone.
func (in *Installer) appendAuthRoutes(ctx context.Context, r *Report) {
	content, err := afero.ReadFile(in.fs, RoutesFile)
	if err != nil {
		if !os.IsNotExist(err) {
			in.ioWarning(ctx, r, phaseAuth, RoutesFile, kiterrors.WrapIO(err, RoutesFile, "failed to read routes"))
		}
		return
	}
	if strings.Contains(string(content), authRoutesMarker) {
		in.logger.Debug(ctx, "Route template already present", "path", RoutesFile)
		return
	}

	f, err := in.fs.OpenFile(RoutesFile, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		in.ioWarning(ctx, r, phaseAuth, RoutesFile, kiterrors.WrapIO(err, RoutesFile, "failed to open routes"))
		return
	}
	_, err = f.WriteString("\n" + AuthRoutes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		in.ioWarning(ctx, r, phaseAuth, RoutesFile, kiterrors.WrapIO(err, RoutesFile, "failed to append routes"))
		return
	}

	r.info("Authentication routes template added to " + RoutesFile)
	r.info("For full authentication, install Laravel Breeze:")
	r.line("   " + runner.ComposerRequireBreeze.String())
	r.line("   " + runner.Artisan("breeze:install", breezeStack).String())
}
