package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xhcart/config"
	"xhcart/ds"
	"xhcart/xhgc/index"
	"xhcart/xherr"
)

func writeTree(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func paths(files []index.File) []string {
	return lo.Map(
		files,
		func(file index.File, _ int) string {
			return file.Path
		},
	)
}

func TestGlob_Discover(t *testing.T) {
	dir := writeTree(
		t,
		map[string]string{
			"src/main.lua":     "return 1",
			"src/lib/util.lua": "return 2",
			"src/b.lua":        "return 3",
			"src/notes.txt":    "skip",
			"res/logo.png":     "png",
			"res/logo.psd":     "psd",
			"res/sub/clip.wav": "wav",
			"res/sub/clip.psd": "psd",
		},
	)

	luaFiles, err := Glob{}.Discover(dir, config.Chunk{Type: config.ChunkTypeLua, Glob: "src/**/*.lua", StripPrefix: "src/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.lua", "lib/util.lua", "main.lua"}, paths(luaFiles))
	assert.Equal(t, uint32(8), luaFiles[0].Size)
	assert.Equal(t, ds.Crc32([]byte("return 3")), luaFiles[0].CRC32)
	assert.Equal(t, filepath.Join(dir, "src", "b.lua"), luaFiles[0].Source)

	resFiles, err := Glob{}.Discover(
		dir,
		config.Chunk{
			Type:        config.ChunkTypeRes,
			Glob:        "res/**",
			StripPrefix: "res",
			NamePrefix:  "assets/",
			Exclude:     []string{"*.psd"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/logo.png", "assets/sub/clip.wav"}, paths(resFiles))
}

func TestGlob_Discover_NoMatches(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "a"})

	files, err := Glob{}.Discover(dir, config.Chunk{Glob: "*.lua"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGlob_Discover_InvalidGlob(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "a"})

	_, err := Glob{}.Discover(dir, config.Chunk{Glob: "[a-"})
	assert.True(t, xherr.Is(err, xherr.KindConfiguration))
}

func TestPackagedPath(t *testing.T) {
	assert.Equal(t, "main.lua", PackagedPath("src/main.lua", "src/", ""))
	assert.Equal(t, "main.lua", PackagedPath("src/main.lua", "src", ""))
	assert.Equal(t, "res/x.png", PackagedPath("assets/x.png", "assets/", "res/"))
	assert.Equal(t, "other/x.png", PackagedPath("other/x.png", "assets/", ""))
}

func TestIsExcluded(t *testing.T) {
	testCases := []struct {
		path     string
		patterns []string
		expected bool
	}{
		{"res/a.psd", []string{"*.psd"}, true},
		{"res/a.png", []string{"*.psd"}, false},
		{"res/tmp/a.png", []string{"tmp/*"}, true},
		{"res/tmp/a.png", []string{"res/tmp/a.png/extra"}, false},
		{"res/tmp/a.png", []string{"**/tmp/**"}, true},
		{"res/a.png", nil, false},
	}
	for _, testCase := range testCases {
		excluded, err := IsExcluded(testCase.path, testCase.patterns)
		require.NoError(t, err)
		assert.Equal(t, testCase.expected, excluded, testCase.path)
	}
}
