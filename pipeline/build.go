package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/config"
	"xhcart/tools/discover"
	"xhcart/tools/imgproc"
	"xhcart/tools/luac"
	"xhcart/xhgc/entry"
	"xhcart/xhgc/icon"
	"xhcart/xhgc/index"
	"xhcart/xhgc/manifest"
	"xhcart/xherr"
)

type (
	// Collaborators supply the payloads the core cannot produce itself.
	Collaborators struct {
		Icons      imgproc.Processor
		Compiler   luac.Compiler
		Discoverer discover.Discoverer
	}
)

func DefaultCollaborators() Collaborators {
	return Collaborators{
		Icons:      imgproc.Converter{},
		Compiler:   luac.NewProcess(),
		Discoverer: discover.Glob{},
	}
}

// Build packs spec into the image at output, one committed stage at a time:
// header (with the icon when the pack has one), manifest, entry, then index
// and data. Reports of the committed stages are returned even on failure.
func Build(spec *config.PackSpec, output string, collaborators Collaborators) ([]Report, error) {
	assembler := Assembler{
		Path: output,
		Meta: spec.HeaderMeta(),
		Options: Options{
			HeaderCRC32: spec.Hash.HeaderCRC32,
			ImageCRC32:  spec.Hash.ImageCRC32,
		},
	}

	files, luaFiles, err := discoverChunks(spec, collaborators.Discoverer)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.Build error")
	}
	entrySource, err := EntrySource(spec, luaFiles)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.Build error")
	}

	reports := make([]Report, 0, 4)
	commit := func(report *Report, err error) error {
		if err != nil {
			return errors.Wrap(err, "pipeline.Build error")
		}
		reports = append(reports, *report)
		return nil
	}

	if mainIcon, ok := spec.MainIcon(); ok {
		raw, err := collaborators.Icons.Process(spec.Resolve(mainIcon.Path), mainIcon.Preprocess, icon.Width, icon.Height)
		if err != nil {
			return reports, errors.Wrap(err, "pipeline.Build error")
		}
		iconSection, err := icon.Encode(raw)
		if err != nil {
			return reports, errors.Wrap(err, "pipeline.Build error")
		}
		if err := commit(assembler.RunStage(StageIcon, iconSection)); err != nil {
			return reports, err
		}
	} else {
		if err := commit(assembler.RunStage(StageHeader)); err != nil {
			return reports, err
		}
	}

	manifestSection, err := manifest.Encode(spec.ManifestMeta())
	if err != nil {
		return reports, errors.Wrap(err, "pipeline.Build error")
	}
	if err := commit(assembler.RunStage(StageManifest, manifestSection)); err != nil {
		return reports, err
	}

	bytecode, err := collaborators.Compiler.Compile(entrySource)
	if err != nil {
		return reports, errors.Wrap(err, "pipeline.Build error")
	}
	if err := commit(assembler.RunStage(StageEntry, entry.Encode(bytecode))); err != nil {
		return reports, err
	}

	indexSection, dataSection, err := index.Encode(files, spec.Build.FailOnConflict)
	if err != nil {
		return reports, errors.Wrap(err, "pipeline.Build error")
	}
	if err := commit(assembler.RunStage(StageData, indexSection, dataSection)); err != nil {
		return reports, err
	}
	return reports, nil
}

func discoverChunks(spec *config.PackSpec, discoverer discover.Discoverer) ([]index.File, []index.File, error) {
	var files, luaFiles []index.File
	for _, chunk := range spec.Chunks {
		chunkFiles, err := discoverer.Discover(spec.BaseDir, chunk)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pipeline.discoverChunks error in %s chunk %q", chunk.Type, chunk.Glob)
		}
		files = append(files, chunkFiles...)
		if chunk.Type == config.ChunkTypeLua {
			luaFiles = append(luaFiles, chunkFiles...)
		}
	}
	return files, luaFiles, nil
}

// EntrySource locates the script meta.entry names: a file relative to the
// pack.json directory, or else a discovered LUA file packaged under that name.
func EntrySource(spec *config.PackSpec, luaFiles []index.File) (string, error) {
	path := spec.Resolve(spec.Meta.Entry)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}
	file, ok := lo.Find(
		luaFiles,
		func(file index.File) bool {
			return file.Path == spec.Meta.Entry
		},
	)
	if !ok || file.Source == "" {
		return "", xherr.Configuration("meta.entry", "entry script %q not found", spec.Meta.Entry)
	}
	return file.Source, nil
}
