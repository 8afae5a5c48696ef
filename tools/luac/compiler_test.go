package luac

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xhcart/xherr"
)

func writeScript(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0755))
	return path
}

func TestProcess_Compile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler stub needs a POSIX shell")
	}
	dir := t.TempDir()
	// fake compiler: copies the source into the -o target, prefixed with a marker
	compiler := writeScript(t, dir, "fake-luac", "#!/bin/sh\nprintf 'BC:' > \"$2\"\ncat \"$3\" >> \"$2\"\n")
	source := writeScript(t, dir, "main.lua", "print('hi')")

	bytecode, err := Process{Path: compiler}.Compile(source)
	require.NoError(t, err)
	assert.Equal(t, "BC:print('hi')", string(bytecode))
}

func TestProcess_Compile_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler stub needs a POSIX shell")
	}
	dir := t.TempDir()
	compiler := writeScript(t, dir, "bad-luac", "#!/bin/sh\necho 'syntax error near end' >&2\nexit 1\n")
	source := writeScript(t, dir, "main.lua", "print(")

	_, err := Process{Path: compiler}.Compile(source)
	assert.True(t, xherr.Is(err, xherr.KindExternalTool))
	assert.Contains(t, err.Error(), "syntax error near end")
}

func TestProcess_Compile_MissingCompiler(t *testing.T) {
	dir := t.TempDir()
	source := writeScript(t, dir, "main.lua", "return 1")

	_, err := Process{Path: filepath.Join(dir, "no-such-luac")}.Compile(source)
	assert.True(t, xherr.Is(err, xherr.KindExternalTool))
}

func TestProcess_Compile_BadSource(t *testing.T) {
	dir := t.TempDir()
	notLua := writeScript(t, dir, "main.txt", "x")

	_, err := Process{Path: "st-luac"}.Compile(notLua)
	assert.True(t, xherr.Is(err, xherr.KindConfiguration))

	_, err = Process{Path: "st-luac"}.Compile(filepath.Join(dir, "absent.lua"))
	assert.True(t, xherr.Is(err, xherr.KindConfiguration))
}

func TestNewProcess(t *testing.T) {
	t.Setenv(EnvCompiler, "/opt/luac")
	assert.Equal(t, "/opt/luac", NewProcess().Path)
}
