package config

import (
	"path/filepath"

	"github.com/xyproto/env/v2"
	"xhcart/xhgc/header"
	"xhcart/xhgc/manifest"
)

const (
	EnvOutput = "XHCART_OUTPUT"
)

func (r PackSpec) HeaderMeta() header.Meta {
	return header.Meta{
		Title:     r.Meta.Title,
		TitleZh:   r.Meta.TitleZh,
		Publisher: r.Meta.Publisher,
		Version:   r.Meta.Version,
		CartID:    r.Meta.CartID,
		Entry:     r.Meta.Entry,
		MinFW:     r.Meta.MinFW,
	}
}

func (r PackSpec) ManifestMeta() manifest.Meta {
	return manifest.Meta{
		Title:              r.Meta.Title,
		TitleZh:            r.Meta.TitleZh,
		Publisher:          r.Meta.Publisher,
		Version:            r.Meta.Version,
		CartID:             r.Meta.CartID,
		Entry:              r.Meta.Entry,
		MinFW:              r.Meta.MinFW,
		ID:                 r.Meta.ID,
		DescriptionDefault: r.Meta.Description.Default,
		DescriptionZh:      r.Meta.Description.ZhCN,
		Category:           r.Meta.Category,
		Tags:               r.Meta.Tags,
		AuthorName:         r.Meta.Author.Name,
		AuthorContact:      r.Meta.Author.Contact,
	}
}

// MainIcon returns the 200x200 icon, if the pack has one.
func (r PackSpec) MainIcon() (Icon, bool) {
	icon, ok := r.Icons[MainIconKey]
	return icon, ok
}

// Resolve anchors a pack-relative path at BaseDir.
func (r PackSpec) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.BaseDir, path)
}

// OutputPath picks the image path: the explicit override, then $XHCART_OUTPUT,
// then build.output.
func (r PackSpec) OutputPath(override string) string {
	if override != "" {
		return override
	}
	if output := env.Str(EnvOutput); output != "" {
		return output
	}
	return r.Resolve(r.Build.Output)
}
