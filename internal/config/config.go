// Package config loads the server's primary configuration from a KDL file
// and an optional TOML overlay restricted to scoring knobs.
//
// Grounded on the teacher's internal/config/config.go (struct layout,
// defaults-then-overlay loading order) and internal/config/kdl_config.go
// (the kdl-go document traversal helpers, reproduced here against this
// domain's much smaller schema).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"

	"github.com/michaelx11/associative-search/internal/types"
)

// Corpus describes where record files live and how they are discovered.
type Corpus struct {
	Root    string
	Pattern string
}

// IndexSettings controls stem generation at build time.
type IndexSettings struct {
	K            int
	IncludeWhole bool
}

// ServerSettings controls the HTTP boundary.
type ServerSettings struct {
	Addr           string
	MaxBodyBytes   int64
}

// PipelineSettings controls the default query pipeline behavior.
type PipelineSettings struct {
	// MaxSize is read from the config file but not passed to the pipeline:
	// each query uses its own max_size, or types.DefaultMaxSize when unset.
	MaxSize                  int
	DuplicateNormAtLayerZero bool
}

// Config is the fully resolved configuration for one server instance.
type Config struct {
	Corpus         Corpus
	Index          IndexSettings
	Server         ServerSettings
	Pipeline       PipelineSettings
	SynonymsPath   string
	HomophonesPath string
	CacheSize      int

	// Scoring is overridable by a TOML overlay file; it never appears in
	// the primary KDL config.
	Scoring ScoringOverlay
}

// Default returns the configuration used when no .search.kdl file exists.
func Default() *Config {
	return &Config{
		Corpus: Corpus{Pattern: "**/*.jsonl"},
		Index:  IndexSettings{K: 3, IncludeWhole: false},
		Server: ServerSettings{Addr: ":8080", MaxBodyBytes: 256 * 1024},
		Pipeline: PipelineSettings{
			MaxSize:                  types.DefaultMaxSize,
			DuplicateNormAtLayerZero: true,
		},
		CacheSize: 256,
		Scoring:   DefaultScoringOverlay(),
	}
}

// Load reads <projectRoot>/.search.kdl if present, overlaying it onto
// Default(); a missing file is not an error. It then applies a TOML scoring
// overlay if <projectRoot>/scoring.toml exists.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()

	kdlPath := filepath.Join(projectRoot, ".search.kdl")
	if _, err := os.Stat(kdlPath); err == nil {
		content, err := os.ReadFile(kdlPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", kdlPath, err)
		}
		if err := applyKDL(cfg, string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kdlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", kdlPath, err)
	}

	if !filepath.IsAbs(cfg.Corpus.Root) && cfg.Corpus.Root != "" {
		cfg.Corpus.Root = filepath.Join(projectRoot, cfg.Corpus.Root)
	} else if cfg.Corpus.Root == "" {
		cfg.Corpus.Root = projectRoot
	}

	tomlPath := filepath.Join(projectRoot, "scoring.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		if err := LoadScoringOverlay(tomlPath, &cfg.Scoring); err != nil {
			return nil, fmt.Errorf("parse %s: %w", tomlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", tomlPath, err)
	}

	return cfg, nil
}

func applyKDL(cfg *Config, content string) error {
	parsed, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return err
	}
	for _, n := range parsed.Nodes {
		switch nodeName(n) {
		case "corpus":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Corpus.Root = v })
				assignSimpleString(cn, "pattern", func(v string) { cfg.Corpus.Pattern = v })
			}
		case "index":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "k", func(v int) { cfg.Index.K = v })
				assignSimpleBool(cn, "include_whole", func(v bool) { cfg.Index.IncludeWhole = v })
			}
		case "server":
			for _, cn := range n.Children {
				assignSimpleString(cn, "addr", func(v string) { cfg.Server.Addr = v })
				assignSimpleInt(cn, "max_body_bytes", func(v int) { cfg.Server.MaxBodyBytes = int64(v) })
			}
		case "pipeline":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "max_size", func(v int) { cfg.Pipeline.MaxSize = v })
				assignSimpleBool(cn, "duplicate_norm_at_layer_zero", func(v bool) { cfg.Pipeline.DuplicateNormAtLayerZero = v })
			}
		case "synonyms":
			if v, ok := firstStringArg(n); ok {
				cfg.SynonymsPath = v
			}
		case "homophones":
			if v, ok := firstStringArg(n); ok {
				cfg.HomophonesPath = v
			}
		case "cache":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "size", func(v int) { cfg.CacheSize = v })
			}
		}
	}
	return nil
}
