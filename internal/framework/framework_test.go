package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/balkit/internal/runner"
)

const artisanListing = `about                 Display basic information about your application
config:clear          Remove the configuration cache file
livewire:make         Create a new Livewire component
livewire:publish      Publish Livewire configuration
package:discover      Rebuild the cached package manifest
`

func TestArtisanCommands(t *testing.T) {
	rec := runner.NewRecorder()
	a := NewArtisan(rec)
	ctx := context.Background()

	require.NoError(t, a.ClearConfig(ctx))
	require.NoError(t, a.DiscoverPackages(ctx))
	require.NoError(t, a.PublishLivewireConfig(ctx))
	require.NoError(t, a.InstallBreeze(ctx, "blade"))

	assert.Equal(t, []string{
		"php artisan config:clear",
		"php artisan package:discover",
		"php artisan livewire:publish --config",
		"php artisan breeze:install blade --no-interaction",
	}, rec.Lines())
}

func TestArtisanHasCommand(t *testing.T) {
	rec := runner.NewRecorder()
	rec.Outputs["php artisan list --raw"] = artisanListing
	a := NewArtisan(rec)

	ok, err := a.HasCommand(context.Background(), "livewire:")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.HasCommand(context.Background(), "breeze:")
	require.NoError(t, err)
	assert.False(t, ok)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Silent, "listing commands must not echo to the console")
}

func TestArtisanHasCommandFailure(t *testing.T) {
	rec := runner.NewRecorder()
	rec.Fail["php artisan list --raw"] = true

	ok, err := NewArtisan(rec).HasCommand(context.Background(), "livewire:")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestContainsCommand(t *testing.T) {
	assert.True(t, ContainsCommand([]byte(artisanListing), "livewire:"))
	assert.False(t, ContainsCommand([]byte("Display livewire: things\n"), "livewire:"))
	assert.False(t, ContainsCommand(nil, "livewire:"))
}
