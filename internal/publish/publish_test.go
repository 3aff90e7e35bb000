package publish

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/balkit/internal/config"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/version"
)

func TestTagsListsNineTags(t *testing.T) {
	var names []string
	for _, tag := range Tags() {
		names = append(names, tag.Name)
		assert.NotEmpty(t, tag.Description, tag.Name)
	}
	assert.Equal(t, []string{
		TagConfig, TagStubs, TagSass, TagJS, TagLayouts,
		TagComponents, TagAuth, TagPages, TagVite,
	}, names)
	assert.NotContains(t, names, TagAll)
}

func TestLookup(t *testing.T) {
	tags, err := Lookup(TagAll)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, TagConfig, tags[0].Name)
	assert.Equal(t, TagStubs, tags[1].Name)

	_, err = Lookup("bal-kit-themes")
	require.Error(t, err)
	assert.True(t, kiterrors.HasCode(err, kiterrors.ErrCodeUnknownTag))
}

func TestPublishEachTag(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{TagConfig, []string{config.FileName}},
		{TagSass, []string{"resources/sass/app.scss", "resources/sass/abstracts/_variables.scss"}},
		{TagJS, []string{"resources/js/app.js", "resources/js/bootstrap.js"}},
		{TagLayouts, []string{"resources/views/layouts/app.blade.php"}},
		{TagComponents, []string{"app/Livewire/Counter.php", "resources/views/livewire/counter.blade.php"}},
		{TagAuth, []string{"resources/views/auth/login.blade.php", "resources/views/auth/register.blade.php"}},
		{TagPages, []string{"resources/views/welcome.blade.php"}},
		{TagVite, []string{"vite.config.js"}},
		{TagStubs, []string{"stubs/bal-kit/js/app.js", "stubs/bal-kit/sass/app.scss", "stubs/bal-kit/vite.config.js"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			host := afero.NewMemMapFs()
			p := NewPublisher(host, nil, nil)

			result, err := p.Publish(context.Background(), tt.tag, false)
			require.NoError(t, err)
			assert.Empty(t, result.Skipped)

			for _, path := range tt.want {
				exists, err := afero.Exists(host, filepath.FromSlash(path))
				require.NoError(t, err)
				assert.True(t, exists, path)
			}
		})
	}
}

func TestPublishKeepsExistingUnlessForced(t *testing.T) {
	ctx := context.Background()
	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "vite.config.js", []byte("// mine\n"), 0o644))
	p := NewPublisher(host, nil, nil)

	result, err := p.Publish(ctx, TagVite, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"vite.config.js"}, result.Skipped)
	data, _ := afero.ReadFile(host, "vite.config.js")
	assert.Equal(t, "// mine\n", string(data))

	result, err = p.Publish(ctx, TagVite, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"vite.config.js"}, result.Written)
	data, _ = afero.ReadFile(host, "vite.config.js")
	assert.Contains(t, string(data), "resources/sass/app.scss")
}

func TestPublishConfigRendersDefaults(t *testing.T) {
	ctx := context.Background()
	host := afero.NewMemMapFs()
	p := NewPublisher(host, nil, nil)

	_, err := p.Publish(ctx, TagConfig, false)
	require.NoError(t, err)

	data, err := afero.ReadFile(host, config.FileName)
	require.NoError(t, err)

	var rendered config.Config
	require.NoError(t, yaml.Unmarshal(data, &rendered))
	assert.Equal(t, config.DefaultSassDirectories(), rendered.Sass.Directories)
	assert.Equal(t, config.DefaultBackupFiles(), rendered.Backup.Files)
	assert.Equal(t, config.DefaultBuildCommand, rendered.Install.BuildCommand)
	assert.True(t, rendered.Presets["full"]["auth"])
	assert.False(t, rendered.Presets["minimal"]["livewire"])
	assert.Equal(t, version.Current(), rendered.Version)

	require.NoError(t, afero.WriteFile(host, config.FileName, []byte("stubs:\n  path: custom\n"), 0o644))
	result, err := p.Publish(ctx, TagConfig, false)
	require.NoError(t, err)
	assert.Equal(t, []string{config.FileName}, result.Skipped)
}

func TestPublishAggregate(t *testing.T) {
	host := afero.NewMemMapFs()
	result, err := NewPublisher(host, nil, nil).Publish(context.Background(), TagAll, false)
	require.NoError(t, err)

	assert.Contains(t, result.Written, config.FileName)
	exists, _ := afero.Exists(host, "stubs/bal-kit/layouts/app.blade.php")
	assert.True(t, exists)
}

func TestPublishUnknownTagWritesNothing(t *testing.T) {
	host := afero.NewMemMapFs()
	_, err := NewPublisher(host, nil, nil).Publish(context.Background(), "nope", true)
	require.Error(t, err)

	entries, err := afero.ReadDir(host, "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
