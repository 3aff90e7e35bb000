package runner

// The fixed command table used by the install workflow.
var (
	NPMInstall          = Command{Name: "npm", Args: []string{"install"}}
	NPMInstallBootstrap = Command{Name: "npm", Args: []string{"install", "bootstrap", "@popperjs/core"}}
	NPMInstallAlpine    = Command{Name: "npm", Args: []string{"install", "alpinejs"}}
	NPMInstallSass      = Command{Name: "npm", Args: []string{"install", "--save-dev", "sass"}}
	NPMInstallBalStack  = Command{Name: "npm", Args: []string{"install", "bootstrap", "@popperjs/core", "alpinejs"}}

	NPMUninstallTailwind = Command{
		Name: "npm",
		Args: []string{"uninstall", "tailwindcss", "postcss", "autoprefixer", "@tailwindcss/forms"},
	}

	ComposerRequireLivewire = Command{Name: "composer", Args: []string{"require", "livewire/livewire"}}
	ComposerRequireBreeze   = Command{Name: "composer", Args: []string{"require", "laravel/breeze", "--dev"}}
)

// Artisan builds a `php artisan` invocation.
func Artisan(args ...string) Command {
	return Command{Name: "php", Args: append([]string{"artisan"}, args...)}
}
