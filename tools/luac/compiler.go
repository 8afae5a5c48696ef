// Package luac turns an entry script into bytecode by running an external compiler.
package luac

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
	"xhcart/xherr"
)

const (
	EnvCompiler     = "XHCART_LUAC"
	DefaultCompiler = "st-luac"
)

type (
	// Compiler is the capability the pipeline depends on.
	Compiler interface {
		Compile(source string) ([]byte, error)
	}
	// Process runs `<Path> -o <tmp> <source>` and reads the bytecode back.
	Process struct {
		Path string
	}
)

// NewProcess picks the compiler from $XHCART_LUAC, falling back to st-luac on PATH.
func NewProcess() Process {
	return Process{
		Path: env.Str(EnvCompiler, DefaultCompiler),
	}
}

func (r Process) Compile(source string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(source), ".lua") {
		return nil, xherr.Configuration(source, "entry file must be a .lua file")
	}
	if _, err := os.Stat(source); err != nil {
		return nil, xherr.Configuration(source, "lua file not found")
	}

	compilerPath, err := exec.LookPath(r.Path)
	if err != nil {
		return nil, xherr.ExternalTool(r.Path, "compiler not found: %s", err)
	}

	tmp, err := os.CreateTemp("", "xhcart-*.luac")
	if err != nil {
		return nil, xherr.IO("luac output", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if err := tmp.Close(); err != nil {
		return nil, xherr.IO(tmpPath, err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(compilerPath, "-o", tmpPath, source)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, xherr.ExternalTool(
			r.Path, "failed to compile %s: %s: %s",
			source, err, strings.TrimSpace(stderr.String()),
		)
	}

	bytecode, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, errors.Wrap(xherr.IO(tmpPath, err), "luac.Process.Compile error")
	}
	return bytecode, nil
}

// Func adapts a plain function to Compiler.
type Func func(source string) ([]byte, error)

func (r Func) Compile(source string) ([]byte, error) {
	return r(source)
}
