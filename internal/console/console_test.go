package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterLevels(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Info("Installing Bootstrap...")
	p.Comment("Backed up package.json")
	p.Warn("Command failed: npm install alpinejs")
	p.Error("Unknown preset: enterprise")
	p.Line("  php artisan livewire:publish --config")
	p.NewLine()

	// a bytes.Buffer is not a terminal, so no escape sequences are emitted
	assert.Equal(t, "Installing Bootstrap...\n"+
		"Backed up package.json\n"+
		"Command failed: npm install alpinejs\n"+
		"Unknown preset: enterprise\n"+
		"  php artisan livewire:publish --config\n"+
		"\n", buf.String())
}

func TestPrinterQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.SetQuiet(true)

	p.Info("hidden")
	p.Title("hidden")
	p.Warn("shown")

	assert.Equal(t, "shown\n", buf.String())
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Infof("Installing '%s' preset...", "full")
	assert.Equal(t, "Installing 'full' preset...\n", buf.String())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "comment", LevelComment.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "line", LevelLine.String())
	assert.Equal(t, "unknown", Level(99).String())
}
