// Package compiler ties the generation pipeline together: it reads the
// project file, loads and validates the schema and executable documents,
// runs the artifact passes and writes the results to the target directory.
package compiler

import (
	"context"

	"github.com/syssam/gqlc/compiler/gen"
	"github.com/syssam/gqlc/compiler/load"
)

// Generate runs one full generation from the project file at cfgPath.
// Options given here override the project file.
func Generate(ctx context.Context, cfgPath string, opts ...gen.Option) error {
	fileCfg, err := load.ReadConfig(cfgPath)
	if err != nil {
		return err
	}
	cfg, err := gen.NewConfig(append(fileCfg.Options(), opts...)...)
	if err != nil {
		return err
	}

	schema, err := load.Schema(fileCfg.Schema...)
	if err != nil {
		return err
	}
	tagName := cfg.TagName
	if tagName == "" {
		tagName = gen.DefaultTagName
	}
	doc, err := load.Documents(tagName, fileCfg.Documents...)
	if err != nil {
		return err
	}
	if err := load.Validate(schema, doc); err != nil {
		return err
	}

	generator, err := gen.NewGenerator(cfg, schema, doc)
	if err != nil {
		return err
	}
	files, err := generator.Run(ctx)
	if err != nil {
		return err
	}

	writer := gen.NewWriter(cfg.Target).WithLogger(cfg.Logger)
	var cache *gen.BuildCache
	if cfg.CachePath != "" {
		cache = gen.LoadBuildCache(cfg.CachePath)
		writer.WithCache(cache)
	}
	if err := writer.WriteAll(ctx, files); err != nil {
		return err
	}
	if cache != nil {
		if err := cache.Save(cfg.CachePath); err != nil {
			return err
		}
	}

	if cfg.Persisted != nil && cfg.Persisted.Store != "" {
		store, err := gen.OpenManifestStore(ctx, cfg.Persisted.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, generator.Manifest()); err != nil {
			return err
		}
	}
	return nil
}
