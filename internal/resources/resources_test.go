package resources

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_EmbeddedTemplate(t *testing.T) {
	content, err := Lookup(ApplicationWindowTemplate)
	require.NoError(t, err)
	assert.Contains(t, string(content), "parent: ApplicationWindow")
}

func TestLookup_NotFound(t *testing.T) {
	_, err := Lookup(BasePath + "/ui/Missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_OutsideBasePath(t *testing.T) {
	_, err := Lookup("/org/example/ui/ApplicationWindow.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Lookup(BasePath + "/../other/ApplicationWindow.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBundle_CustomBase(t *testing.T) {
	bundle := NewBundle("test/App/", fstest.MapFS{
		"ui/Window.yaml": {Data: []byte("from-fs")},
	})

	content, err := bundle.Lookup("/test/App/ui/Window.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-fs", string(content))

	_, err = bundle.Lookup("/test/App/ui/Other.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBundle_StaticResourceIcon(t *testing.T) {
	icon, err := Default().StaticResource(IconPath)
	require.NoError(t, err)
	assert.Equal(t, "irc-client.svg", icon.Name())
	assert.NotEmpty(t, icon.Content())
}

func TestTranslations(t *testing.T) {
	files, dir := Translations()
	entries, err := files.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "en.json")
	assert.Contains(t, names, "sv.json")
}
