package installer

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/balkit/internal/config"
	"github.com/conneroisu/balkit/internal/console"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/manifest"
	"github.com/conneroisu/balkit/internal/prompt"
	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/testutils"
)

var fixedNow = time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC)

const stamp = "2025-01-27-10-30-00"

const (
	breezeInstall = "php artisan breeze:install blade --no-interaction"
	artisanList   = "php artisan list --raw"
)

type fixture struct {
	fs  afero.Fs
	rec *runner.Recorder
	in  *Installer
}

func newFixture(t *testing.T, host afero.Fs, opts Options) *fixture {
	t.Helper()
	if host == nil {
		host = afero.NewMemMapFs()
	}
	rec := runner.NewRecorder()

	opts.Fs = host
	opts.Runner = rec
	opts.Now = func() time.Time { return fixedNow }
	if opts.Templates == nil {
		opts.Templates = stubs.Embedded()
	}

	return &fixture{fs: host, rec: rec, in: New(opts)}
}

func stub(t *testing.T, source string) string {
	t.Helper()
	data, err := fs.ReadFile(stubs.Embedded(), source)
	require.NoError(t, err)
	return string(data)
}

func TestInstallNothingSelected(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	before := testutils.Snapshot(t, host)
	f := newFixture(t, host, Options{})

	report := f.in.Install(context.Background(), features.Options{})

	assert.False(t, report.Performed)
	assert.Equal(t, before, testutils.Snapshot(t, host), "nothing selected must not touch the host")
	assert.Empty(t, f.rec.Calls())
	assert.Equal(t, []string{
		"Installing BAL Kit for Laravel...",
		"",
		"No components specified. Use --bootstrap, --alpine, --livewire, --sass, or --auth",
		"   Or use a preset: --preset=full|minimal|standard",
	}, report.Texts())
	assert.Empty(t, report.Texts(console.LevelWarn, console.LevelError))
}

func TestInstallBlankPresetIsNothingSelected(t *testing.T) {
	for _, preset := range []string{" ", "\t", "  \n"} {
		host := testutils.NewLaravelHost(t)
		before := testutils.Snapshot(t, host)
		f := newFixture(t, host, Options{})

		report := f.in.Install(context.Background(), features.Options{Preset: preset})

		assert.False(t, report.Performed, "%q", preset)
		assert.Empty(t, f.rec.Calls())
		assert.Equal(t, before, testutils.Snapshot(t, host))
		assert.Contains(t, report.Texts(), "No components specified. Use --bootstrap, --alpine, --livewire, --sass, or --auth")
	}
}

func TestInstallPresetNameIsTrimmed(t *testing.T) {
	f := newFixture(t, testutils.NewLaravelHost(t), Options{})

	report := f.in.Install(context.Background(), features.Options{Preset: " minimal "})

	assert.True(t, report.Performed)
	assert.Contains(t, report.Texts(), "Installing 'minimal' preset...")
}

func TestInstallUnknownPreset(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	before := testutils.Snapshot(t, host)
	f := newFixture(t, host, Options{})

	report := f.in.Install(context.Background(), features.Options{Preset: "enterprise", Bootstrap: true})

	assert.False(t, report.Performed)
	assert.Equal(t, before, testutils.Snapshot(t, host))
	assert.Empty(t, f.rec.Calls())
	assert.Equal(t, []string{"Unknown preset: enterprise"}, report.Texts(console.LevelError))
	assert.Contains(t, report.Texts(console.LevelInfo), "Available presets: full, minimal, standard")

	errs := report.Notices.Errors()
	require.Len(t, errs, 1)
	assert.True(t, kiterrors.HasCode(errs[0], kiterrors.ErrCodeUnknownPreset))
}

func TestInstallMinimalPreset(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	f := newFixture(t, host, Options{})

	report := f.in.Install(context.Background(), features.Options{Preset: "minimal"})
	require.True(t, report.Performed)

	assert.Equal(t, []string{
		"npm install bootstrap @popperjs/core",
		"npm install alpinejs",
		"npm uninstall tailwindcss postcss autoprefixer @tailwindcss/forms",
		"npm install bootstrap @popperjs/core",
		"npm install --save-dev sass",
		"npm run build",
	}, f.rec.Lines())
	calls := f.rec.Calls()
	assert.True(t, calls[len(calls)-1].Silent, "the build check runs silently")

	// backups of the pre-existing host files
	for _, path := range []string{
		"vite.config.js.bal-kit-backup-" + stamp,
		"package.json.bal-kit-backup-" + stamp,
		"resources/js/app.js.bal-kit-backup-" + stamp,
		"resources/js/bootstrap.js.bal-kit-backup-" + stamp,
		"resources/views/welcome.blade.php.laravel-original-" + stamp,
	} {
		exists, err := afero.Exists(host, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}

	// foundation
	assert.Equal(t, stub(t, "js/bootstrap.js"), testutils.ReadFile(t, host, "resources/js/bootstrap.js"))
	assert.Equal(t, stub(t, "vite.config.js"), testutils.ReadFile(t, host, "vite.config.js"))
	assert.Equal(t, stub(t, "layouts/app.blade.php"), testutils.ReadFile(t, host, "resources/views/layouts/app.blade.php"))
	assert.Equal(t, stub(t, "pages/welcome.blade.php"), testutils.ReadFile(t, host, "resources/views/welcome.blade.php"))

	pkg, err := manifest.Load(host, manifest.PackageFile)
	require.NoError(t, err)
	assert.True(t, pkg.HasScripts(manifest.BalKitScripts))
	assert.True(t, pkg.HasScripts([]manifest.Script{{Name: "dev", Command: "vite"}, {Name: "build", Command: "vite build"}}))

	// reconciliation moved the incompatible toolchain aside
	for _, path := range []string{"tailwind.config.js", "postcss.config.js", "resources/css"} {
		exists, _ := afero.Exists(host, path)
		assert.False(t, exists, path)
	}
	assert.Equal(t, "@tailwind base;\n", testutils.ReadFile(t, host, "resources/css.bal-kit-backup-"+stamp+"/app.css"))
	assert.Equal(t, "export default { content: [] };\n", testutils.ReadFile(t, host, "tailwind.config.js.bal-kit-backup-"+stamp))

	// verify installed the missing SASS tree
	assert.Equal(t, []string{IssueSassMissing}, report.IssueNames())
	assert.Contains(t, report.Texts(), "Auto-fixed 1 issues:")
	assert.Contains(t, report.Texts(), "  - "+IssueSassMissing)
	for _, dir := range config.DefaultSassDirectories() {
		ok, _ := afero.DirExists(host, "resources/sass/"+dir)
		assert.True(t, ok, dir)
	}

	assert.Empty(t, report.Warnings())
	assert.Contains(t, report.Texts(), "Assets compile successfully!")
	assert.Contains(t, report.Texts(), "BAL Kit installation completed!")
}

func TestInstallTwiceWithForceIsIdempotent(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	f := newFixture(t, host, Options{Force: true, AuthMode: config.AuthModeViews})
	f.rec.Outputs[artisanList] = "livewire:publish  Publish Livewire configuration\n"

	ctx := context.Background()
	f.in.Install(ctx, features.Options{Preset: "full"})
	first := testutils.Snapshot(t, host)

	report := f.in.Install(ctx, features.Options{Preset: "full"})
	second := testutils.Snapshot(t, host)

	assert.Equal(t, first, second)
	assert.Empty(t, report.IssueNames())
	assert.Contains(t, report.Texts(), "All checks passed! BAL Kit is properly installed.")
	assert.Equal(t, 1, strings.Count(testutils.ReadFile(t, host, RoutesFile), authRoutesMarker))
}

func TestReconcileRestoresLayoutWithIncompatibleMarkers(t *testing.T) {
	markers := []string{"resources/css/app.css", "font-sans antialiased", "min-h-screen bg-gray-100"}

	for _, marker := range markers {
		t.Run(marker, func(t *testing.T) {
			host := afero.NewMemMapFs()
			testutils.WriteFile(t, host, stubs.Layout.Destination, "<body class=\""+marker+"\">@vite('resources/sass/app.scss')</body>\n")
			f := newFixture(t, host, Options{})

			f.in.Run(context.Background(), features.NewFeatureSet())

			assert.Equal(t, stub(t, stubs.Layout.Source), testutils.ReadFile(t, host, stubs.Layout.Destination))
			exists, _ := afero.Exists(host, stubs.Layout.Destination+BackupSuffix+stamp)
			assert.True(t, exists, "the overwritten layout is backed up first")
		})
	}
}

func TestReconcileLeavesCustomLayoutUntouched(t *testing.T) {
	host := afero.NewMemMapFs()
	custom := "<html><body class=\"container\">@vite('resources/js/app.js')</body></html>\n"
	testutils.WriteFile(t, host, stubs.Layout.Destination, custom)
	f := newFixture(t, host, Options{})

	report := f.in.Install(context.Background(), features.Options{Bootstrap: true})

	assert.Equal(t, custom, testutils.ReadFile(t, host, stubs.Layout.Destination))
	assert.NotContains(t, report.Texts(), "BAL Kit layout restored")

	// the layout is still reported, but its fix never writes a marker-free layout
	assert.Contains(t, report.IssueNames(), IssueLayoutNotSass)
	exists, _ := afero.Exists(host, stubs.Layout.Destination+BackupSuffix+stamp+"-1")
	assert.False(t, exists, "only the backup phase copies the layout")
}

func TestPartialTemplateOverride(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, stubs.PublishedDir+"/js/app.js", "// published\n")
	tree, dir := stubs.Resolve(host, "")
	require.Equal(t, stubs.PublishedDir, dir)
	f := newFixture(t, host, Options{Templates: tree})

	report := f.in.Install(context.Background(), features.Options{Bootstrap: true})

	assert.Equal(t, "// published\n", testutils.ReadFile(t, host, stubs.JSApp.Destination))
	assert.Equal(t, stub(t, stubs.JSBootstrap.Source), testutils.ReadFile(t, host, stubs.JSBootstrap.Destination))
	assert.Equal(t, stub(t, stubs.Layout.Source), testutils.ReadFile(t, host, stubs.Layout.Destination))
	assert.NotContains(t, report.IssueNames(), IssueJavaScriptMissing)
}

func TestBreezeOverwritesAreReconciled(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	f := newFixture(t, host, Options{AuthMode: config.AuthModeBreeze})
	f.rec.Outputs[artisanList] = "livewire:make  Create a new component\n"
	f.rec.OnRun = func(cmd runner.Command) {
		if cmd.String() != breezeInstall {
			return
		}
		testutils.WriteFile(t, host, stubs.Layout.Destination, "<body class=\"font-sans antialiased\">@vite(['resources/css/app.css'])</body>\n")
		testutils.WriteFile(t, host, stubs.ViteConfig.Destination, "input: ['resources/css/app.css']\n")
		testutils.WriteFile(t, host, stubs.Welcome.Destination, "<link href=\"resources/css/app.css\">\n")
		testutils.WriteFile(t, host, "tailwind.config.js", "export default {};\n")
		testutils.WriteFile(t, host, "resources/css/app.css", "@tailwind components;\n")
	}

	report := f.in.Install(context.Background(), features.Options{Preset: "full"})

	assert.Equal(t, []string{
		"npm install bootstrap @popperjs/core",
		"npm install alpinejs",
		"composer require livewire/livewire",
		"php artisan config:clear",
		"php artisan package:discover",
		artisanList,
		"php artisan livewire:publish --config",
		"npm install --save-dev sass",
		"composer require laravel/breeze --dev",
		"php artisan config:clear",
		"php artisan package:discover",
		breezeInstall,
		"npm uninstall tailwindcss postcss autoprefixer @tailwindcss/forms",
		"npm install bootstrap @popperjs/core alpinejs",
		"npm uninstall tailwindcss postcss autoprefixer @tailwindcss/forms",
		"npm install bootstrap @popperjs/core",
		"npm run build",
	}, f.rec.Lines())

	assert.Equal(t, stub(t, stubs.Layout.Source), testutils.ReadFile(t, host, stubs.Layout.Destination))
	assert.Equal(t, stub(t, stubs.ViteConfig.Source), testutils.ReadFile(t, host, stubs.ViteConfig.Destination))
	assert.Equal(t, stub(t, stubs.Welcome.Source), testutils.ReadFile(t, host, stubs.Welcome.Destination))
	assert.Equal(t, []string{IssueWelcomeIncompatible}, report.IssueNames())

	// the second welcome backup does not clobber the first
	assert.Equal(t, "<script src=\"https://cdn.tailwindcss.com\"></script>\n",
		testutils.ReadFile(t, host, stubs.Welcome.Destination+OriginalSuffix+stamp))
	assert.Equal(t, "<link href=\"resources/css/app.css\">\n",
		testutils.ReadFile(t, host, stubs.Welcome.Destination+OriginalSuffix+stamp+"-1"))

	exists, _ := afero.Exists(host, "tailwind.config.js")
	assert.False(t, exists)
	assert.Contains(t, report.Texts(), "BAL Kit layout restored")
	assert.Contains(t, report.Texts(), "Vite configuration fixed")
}

func TestBreezeFailurePrintsManualSteps(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	f := newFixture(t, host, Options{AuthMode: config.AuthModeBreeze})
	f.rec.Fail[breezeInstall] = true

	report := f.in.Install(context.Background(), features.Options{Auth: true})

	assert.Contains(t, report.Warnings(), "Breeze installation encountered an issue.")
	assert.Contains(t, report.Texts(console.LevelLine), "  php artisan breeze:install blade")
	assert.Contains(t, report.Texts(console.LevelLine), "  npm install bootstrap @popperjs/core alpinejs")
	assert.NotContains(t, f.rec.Lines(), "npm install bootstrap @popperjs/core alpinejs")
	assert.True(t, report.Performed)
}

func TestAuthChoice(t *testing.T) {
	tests := []struct {
		name       string
		authMode   string
		prompter   *prompt.Static
		wantBreeze bool
		wantAsked  bool
	}{
		{name: "explicit breeze", authMode: "breeze", prompter: &prompt.Static{Tty: true}, wantBreeze: true},
		{name: "explicit views", authMode: "Views", prompter: &prompt.Static{Tty: true, Answer: true}, wantBreeze: false},
		{name: "prompt yes", prompter: &prompt.Static{Tty: true, Answer: true}, wantBreeze: true, wantAsked: true},
		{name: "prompt no", prompter: &prompt.Static{Tty: true, Answer: false}, wantBreeze: false, wantAsked: true},
		{name: "no terminal", prompter: &prompt.Static{Tty: false}, wantBreeze: true},
		{name: "prompt error", prompter: &prompt.Static{Tty: true, Err: kiterrors.NewInteractivityError(kiterrors.ErrCodePromptAborted, "aborted")}, wantBreeze: true, wantAsked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := afero.NewMemMapFs()
			testutils.WriteFile(t, host, RoutesFile, "<?php\n")
			f := newFixture(t, host, Options{AuthMode: tt.authMode, Prompter: tt.prompter})

			f.in.Install(context.Background(), features.Options{Auth: true})

			if tt.wantBreeze {
				assert.Contains(t, f.rec.Lines(), breezeInstall)
				exists, _ := afero.Exists(host, stubs.Login.Destination)
				assert.False(t, exists)
			} else {
				assert.NotContains(t, f.rec.Lines(), breezeInstall)
				assert.Equal(t, stub(t, stubs.Login.Source), testutils.ReadFile(t, host, stubs.Login.Destination))
				assert.Equal(t, stub(t, stubs.Register.Source), testutils.ReadFile(t, host, stubs.Register.Destination))
			}
			assert.Equal(t, tt.wantAsked, len(tt.prompter.Asked) == 1)
		})
	}
}

func TestAuthRoutesAppendedOnce(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, RoutesFile, "<?php\n")
	f := newFixture(t, host, Options{AuthMode: config.AuthModeViews})

	ctx := context.Background()
	f.in.Install(ctx, features.Options{Auth: true})
	f.in.Install(ctx, features.Options{Auth: true})

	assert.Equal(t, "<?php\n\n"+AuthRoutes, testutils.ReadFile(t, host, RoutesFile))
	assert.True(t, strings.HasSuffix(AuthRoutes, "->name('register');\n// Route::post('/register', [RegisterController::class, 'register']);\n"))
}

func TestAuthRoutesSkippedWithoutRoutesFile(t *testing.T) {
	host := afero.NewMemMapFs()
	f := newFixture(t, host, Options{AuthMode: config.AuthModeViews})

	report := f.in.Install(context.Background(), features.Options{Auth: true})

	exists, _ := afero.Exists(host, RoutesFile)
	assert.False(t, exists)
	assert.NotContains(t, report.Texts(), "Authentication routes template added to "+RoutesFile)
	assert.Empty(t, report.Warnings())
}

func TestSubprocessFailureIsDowngraded(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	f := newFixture(t, host, Options{})
	f.rec.Fail["npm install alpinejs"] = true

	report := f.in.Install(context.Background(), features.Options{Alpine: true, Bootstrap: true})

	assert.Equal(t, []string{"Command failed: npm install alpinejs"}, report.Warnings())
	assert.Contains(t, f.rec.Lines(), "npm run build", "the run continues after a failure")

	subprocess := report.Notices.ByType(kiterrors.ErrorTypeSubprocess)
	require.Len(t, subprocess, 1)
	assert.Equal(t, phasePackages, subprocess[0].Phase)
}

func TestLivewireAlreadyRequired(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, "composer.json", `{"require": {"livewire/livewire": "^3.0"}}`)
	f := newFixture(t, host, Options{})

	report := f.in.Install(context.Background(), features.Options{Livewire: true})

	assert.NotContains(t, f.rec.Lines(), "composer require livewire/livewire")
	assert.NotContains(t, f.rec.Lines(), "php artisan config:clear")
	assert.Contains(t, report.Texts(), "Livewire already installed")
	assert.Contains(t, report.Warnings(), "Livewire commands not yet available. You can publish config manually:")
	assert.Contains(t, report.Texts(console.LevelLine), "  php artisan livewire:publish --config")
}

func TestBackupSkipsFilesAlreadyFromBalKit(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, "vite.config.js", stub(t, "vite.config.js"))
	testutils.WriteFile(t, host, "resources/js/app.js", "// custom\n")
	f := newFixture(t, host, Options{})

	f.in.Run(context.Background(), features.NewFeatureSet())

	exists, _ := afero.Exists(host, "vite.config.js"+BackupSuffix+stamp)
	assert.False(t, exists)
	assert.Equal(t, "// custom\n", testutils.ReadFile(t, host, "resources/js/app.js"+BackupSuffix+stamp))
}

func TestWelcomeAlreadyBalKitIsNotBackedUp(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, stubs.Welcome.Destination, "@vite('resources/sass/app.scss')\n")
	f := newFixture(t, host, Options{})

	f.in.Run(context.Background(), features.NewFeatureSet())

	exists, _ := afero.Exists(host, stubs.Welcome.Destination+OriginalSuffix+stamp)
	assert.False(t, exists)
	assert.Equal(t, stub(t, stubs.Welcome.Source), testutils.ReadFile(t, host, stubs.Welcome.Destination))
}

func TestBuildFailureWarns(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.rec.Fail["npm run build"] = true

	report := f.in.Run(context.Background(), features.NewFeatureSet())

	assert.Equal(t, []string{`Asset compilation failed. Run "npm run build" to see details.`}, report.Warnings())
	assert.Contains(t, report.Texts(console.LevelComment), "This might be due to missing node_modules. Try: npm install")
}

func TestConfiguredBuildCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Install.BuildCommand = "npm run bal:build"
	f := newFixture(t, nil, Options{Config: cfg})

	f.in.Run(context.Background(), features.NewFeatureSet())

	lines := f.rec.Lines()
	assert.Equal(t, "npm run bal:build", lines[len(lines)-1])
}

func TestDiagnoseAndFix(t *testing.T) {
	host := afero.NewMemMapFs()
	testutils.WriteFile(t, host, stubs.Layout.Destination, "<body class=\"font-sans antialiased\">\n")
	testutils.WriteFile(t, host, stubs.Welcome.Destination, "<div class=\"tailwindcss\"></div>\n")
	f := newFixture(t, host, Options{})
	ctx := context.Background()

	issues := f.in.Diagnose(ctx)
	names := make([]string, 0, len(issues))
	for _, issue := range issues {
		names = append(names, issue.Name)
	}
	assert.Equal(t, []string{IssueSassMissing, IssueJavaScriptMissing, IssueWelcomeIncompatible, IssueLayoutNotSass}, names)

	report := f.in.Fix(ctx, issues)
	assert.True(t, report.Performed)
	assert.Len(t, report.Issues, 4)
	assert.Empty(t, f.in.Diagnose(ctx))

	assert.Equal(t, stub(t, stubs.Layout.Source), testutils.ReadFile(t, host, stubs.Layout.Destination))
	assert.Equal(t, "<body class=\"font-sans antialiased\">\n", testutils.ReadFile(t, host, stubs.Layout.Destination+BackupSuffix+stamp))
	assert.Equal(t, "<div class=\"tailwindcss\"></div>\n", testutils.ReadFile(t, host, stubs.Welcome.Destination+OriginalSuffix+stamp))
}

func TestFixKeepsCustomLayout(t *testing.T) {
	host := afero.NewMemMapFs()
	custom := "<body class=\"container\">@vite('resources/js/app.js')</body>\n"
	testutils.WriteFile(t, host, stubs.Layout.Destination, custom)
	f := newFixture(t, host, Options{})
	ctx := context.Background()

	issues := f.in.Diagnose(ctx)
	require.Len(t, issues, 3)
	assert.Equal(t, IssueLayoutNotSass, issues[2].Name)

	f.in.Fix(ctx, issues)

	assert.Equal(t, custom, testutils.ReadFile(t, host, stubs.Layout.Destination))
	exists, _ := afero.Exists(host, stubs.Layout.Destination+BackupSuffix+stamp)
	assert.False(t, exists)
}

func TestCancelledContextTouchesNothing(t *testing.T) {
	host := testutils.NewLaravelHost(t)
	before := testutils.Snapshot(t, host)
	f := newFixture(t, host, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := f.in.Run(ctx, features.NewFeatureSet(features.Bootstrap))

	assert.Equal(t, before, testutils.Snapshot(t, host))
	assert.Empty(t, f.rec.Calls())
	assert.Equal(t, []string{"Installation interrupted before the backup phase"}, report.Warnings())
}

func TestPrinterReceivesMessages(t *testing.T) {
	var buf strings.Builder
	f := newFixture(t, nil, Options{Printer: console.New(&buf)})

	report := f.in.Install(context.Background(), features.Options{})

	assert.Equal(t, strings.Join(report.Texts(), "\n")+"\n", buf.String())
}
