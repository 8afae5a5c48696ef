package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/xherr"
)

var requiredMetaFields = []string{"title", "version", "cart_id", "entry"}

func newDefaultPackSpec() PackSpec {
	return PackSpec{
		Meta: Meta{
			MinFW:    DefaultMinFW,
			Category: DefaultCategory,
		},
		Build: Build{
			HeaderSize:     DefaultHeaderSize,
			AlignmentBytes: DefaultAlignment,
			Deterministic:  true,
			FailOnConflict: true,
		},
		Hash: Hash{
			HeaderCRC32: true,
		},
	}
}

// Load reads and validates the pack.json at path.
func Load(path string) (*PackSpec, error) {
	bs, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, xherr.Configuration(path, "file not found")
	}
	if err != nil {
		return nil, xherr.IO(path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, xherr.IO(path, err)
	}
	spec, err := Parse(bs, filepath.Dir(absPath))
	if err != nil {
		return nil, errors.Wrapf(err, "config.Load error reading %s", path)
	}
	return spec, nil
}

// Parse validates pack.json content; baseDir anchors relative paths.
func Parse(bs []byte, baseDir string) (*PackSpec, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bs, &raw); err != nil {
		return nil, xherr.Configuration("pack.json", "invalid JSON: %s", err)
	}

	spec := newDefaultPackSpec()
	if err := json.Unmarshal(bs, &spec); err != nil {
		return nil, xherr.Configuration("pack.json", "%s", err)
	}
	spec.BaseDir = baseDir

	if spec.Format != FormatName {
		return nil, xherr.Configuration("format", "must be %s", FormatName)
	}
	if spec.PackVersion != PackVersion {
		return nil, xherr.Configuration("pack_version", "must be %d", PackVersion)
	}

	rawMeta, ok := raw["meta"]
	if !ok || string(rawMeta) == "null" {
		return nil, xherr.Configuration("meta", "missing")
	}
	var metaKeys map[string]json.RawMessage
	if err := json.Unmarshal(rawMeta, &metaKeys); err != nil {
		return nil, xherr.Configuration("meta", "must be an object")
	}
	missing, found := lo.Find(
		requiredMetaFields,
		func(key string) bool {
			_, ok := metaKeys[key]
			return !ok
		},
	)
	if found {
		return nil, xherr.Configuration("meta."+missing, "missing")
	}

	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (r *PackSpec) validate() error {
	if r.Build.HeaderSize != DefaultHeaderSize {
		return xherr.Configuration("build.header_size", "must be %d", DefaultHeaderSize)
	}
	if r.Build.AlignmentBytes != DefaultAlignment {
		return xherr.Configuration("build.alignment_bytes", "must be %d", DefaultAlignment)
	}

	if r.Icons == nil && r.Icon != nil {
		r.Icons = map[string]Icon{MainIconKey: *r.Icon}
	}
	for key, icon := range r.Icons {
		if icon.Path == "" {
			return xherr.Configuration("icons."+key+".path", "missing")
		}
		icon.Preprocess = icon.Preprocess.withDefaults()
		if !lo.Contains([]string{ModeCover, ModeContain}, icon.Preprocess.Mode) {
			return xherr.Configuration("icons."+key+".preprocess.mode", "invalid mode %q", icon.Preprocess.Mode)
		}
		r.Icons[key] = icon
	}

	for i := range r.Chunks {
		chunk := &r.Chunks[i]
		chunk.Type = strings.TrimSpace(chunk.Type)
		if !lo.Contains([]string{ChunkTypeLua, ChunkTypeRes}, chunk.Type) {
			return xherr.Configuration(chunkField(i, "type"), "must be %s or %s, got %q", ChunkTypeLua, ChunkTypeRes, chunk.Type)
		}
		if chunk.Glob == "" {
			return xherr.Configuration(chunkField(i, "glob"), "missing")
		}
		if chunk.Order == "" {
			chunk.Order = OrderLex
		}
		if chunk.Order != OrderLex {
			return xherr.Configuration(chunkField(i, "order"), "unsupported order %q", chunk.Order)
		}
	}
	return nil
}

func (r Preprocess) withDefaults() Preprocess {
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	if r.Background == "" {
		r.Background = DefaultBackground
	}
	if r.Resample == "" {
		r.Resample = DefaultResample
	}
	return r
}

func chunkField(i int, name string) string {
	return fmt.Sprintf("chunks[%d].%s", i, name)
}
