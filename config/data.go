// Package config loads and validates pack.json, the description of one cartridge build.
package config

type (
	PackSpec struct {
		Format      string          `json:"format"`
		PackVersion int             `json:"pack_version"`
		Meta        Meta            `json:"meta"`
		Build       Build           `json:"build"`
		Hash        Hash            `json:"hash"`
		Icon        *Icon           `json:"icon,omitempty"`
		Icons       map[string]Icon `json:"icons,omitempty"`
		Chunks      []Chunk         `json:"chunks"`
		// BaseDir is the directory of pack.json; relative paths resolve against it.
		BaseDir string `json:"-"`
	}
	Meta struct {
		Title       string      `json:"title"`
		TitleZh     string      `json:"title_zh"`
		Publisher   string      `json:"publisher"`
		Version     string      `json:"version"`
		CartID      string      `json:"cart_id"`
		Entry       string      `json:"entry"`
		MinFW       string      `json:"min_fw"`
		ID          string      `json:"id,omitempty"`
		Description Description `json:"description,omitempty"`
		Category    string      `json:"category"`
		Tags        Tags        `json:"tags,omitempty"`
		Author      Author      `json:"author,omitempty"`
	}
	// Description is either a plain string or {"default": ..., "zh-CN": ...}.
	Description struct {
		Default string `json:"default,omitempty"`
		ZhCN    string `json:"zh-CN,omitempty"`
	}
	// Tags is either a list of strings or a single string.
	Tags []string
	// Author is either a plain name or {"name": ..., "contact": ...}.
	Author struct {
		Name    string `json:"name,omitempty"`
		Contact string `json:"contact,omitempty"`
	}
	Build struct {
		Output         string `json:"output"`
		HeaderSize     int    `json:"header_size"`
		AlignmentBytes int    `json:"alignment_bytes"`
		Deterministic  bool   `json:"deterministic"`
		FailOnConflict bool   `json:"fail_on_conflict"`
	}
	Hash struct {
		HeaderCRC32   bool `json:"header_crc32"`
		ImageCRC32    bool `json:"image_crc32"`
		PerChunkCRC32 bool `json:"per_chunk_crc32"`
		PerFileCRC32  bool `json:"per_file_crc32"`
	}
	Icon struct {
		Path       string     `json:"path"`
		Preprocess Preprocess `json:"preprocess"`
	}
	Preprocess struct {
		Mode       string `json:"mode"`
		Background string `json:"background"`
		Resample   string `json:"resample"`
	}
	Chunk struct {
		Type        string   `json:"type"`
		Glob        string   `json:"glob"`
		StripPrefix string   `json:"strip_prefix"`
		NamePrefix  string   `json:"name_prefix"`
		Exclude     []string `json:"exclude"`
		Order       string   `json:"order"`
	}
)

const (
	FormatName  = "XHGC_PACK"
	PackVersion = 1

	DefaultHeaderSize = 4096
	DefaultAlignment  = 4096
	DefaultMinFW      = "0.0.0"
	DefaultCategory   = "app"

	MainIconKey = "main_200"

	ChunkTypeLua = "LUA"
	ChunkTypeRes = "RES"

	OrderLex = "lex"

	ModeCover   = "cover"
	ModeContain = "contain"

	DefaultMode       = ModeContain
	DefaultBackground = "#000000"
	DefaultResample   = "lanczos"
)
