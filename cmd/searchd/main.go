// Command searchd builds the on-disk stemmed index for a record corpus and
// serves the query pipeline over HTTP and MCP.
//
// Grounded on the teacher's cmd/lci/main.go (urfave/cli/v2 App with a
// loadConfigWithOverrides helper, a "server" command that starts the HTTP
// boundary and waits on a signal channel, an "mcp" command that runs the MCP
// server over stdio) and cmd/lci/main_server.go (the graceful-shutdown
// select-on-signal pattern).
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"

	"github.com/michaelx11/associative-search/internal/cache"
	"github.com/michaelx11/associative-search/internal/config"
	"github.com/michaelx11/associative-search/internal/fstindex"
	"github.com/michaelx11/associative-search/internal/mcpserver"
	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/record"
	"github.com/michaelx11/associative-search/internal/server"
	"github.com/michaelx11/associative-search/internal/synonym"
	"github.com/michaelx11/associative-search/internal/version"
	"github.com/michaelx11/associative-search/internal/watch"
)

// legacyLoopbackAddr is the fixed endpoint spec §6 promises a legacy
// "<program> <filename> <threshold>" invocation will serve on, independent
// of whatever --addr a .search.kdl or flag supplies.
const legacyLoopbackAddr = "127.0.0.1:8080"

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config from %s: %w", absRoot, err)
	}

	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if pattern := c.String("pattern"); pattern != "" {
		cfg.Corpus.Pattern = pattern
	}
	return cfg, nil
}

// mergedRecordsPath discovers every record file matching cfg's corpus
// pattern and, if more than one matched, concatenates them into a single
// scratch file: the on-disk index builders address one records file by
// path, and a corpus split across several raw files is still one logical
// corpus (spec §6's "Persisted artifacts" are named after a single record
// file).
func mergedRecordsPath(cfg *config.Config) (string, error) {
	paths, err := record.Discover(cfg.Corpus.Root, cfg.Corpus.Pattern)
	if err != nil {
		return "", fmt.Errorf("discover corpus under %s: %w", cfg.Corpus.Root, err)
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no record files under %s matching %q", cfg.Corpus.Root, cfg.Corpus.Pattern)
	}
	if len(paths) == 1 {
		return paths[0], nil
	}

	merged := filepath.Join(cfg.Corpus.Root, ".searchd-merged.jsonl")
	out, err := os.Create(merged)
	if err != nil {
		return "", fmt.Errorf("create merged corpus file: %w", err)
	}
	defer out.Close()

	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", p, err)
		}
		if _, err := out.Write(raw); err != nil {
			return "", fmt.Errorf("write merged corpus: %w", err)
		}
	}
	return merged, nil
}

// buildPipeline discovers the corpus, builds (or reopens cached) on-disk
// indexes, and wires a Pipeline. table_index is the same FstIndex handle as
// norm_index: this domain does not distinguish a separate secondary corpus,
// so the one on-disk index stands in for both collaborators spec §4.6
// requires (documented in DESIGN.md).
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *fstindex.Index, error) {
	recordsPath, err := mergedRecordsPath(cfg)
	if err != nil {
		return nil, nil, err
	}

	idx, _, err := fstindex.Build(recordsPath, cfg.Index.K, cfg.Index.IncludeWhole)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	var synIdx, homophoneIdx *synonym.Index
	if cfg.SynonymsPath != "" {
		synIdx, err = synonym.Build(resolvePath(cfg.Corpus.Root, cfg.SynonymsPath))
		if err != nil {
			return nil, nil, fmt.Errorf("build synonym index: %w", err)
		}
	} else {
		synIdx = &synonym.Index{}
	}
	if cfg.HomophonesPath != "" {
		homophoneIdx, err = synonym.Build(resolvePath(cfg.Corpus.Root, cfg.HomophonesPath))
		if err != nil {
			return nil, nil, fmt.Errorf("build homophone index: %w", err)
		}
	} else {
		homophoneIdx = &synonym.Index{}
	}

	p := pipeline.New(idx, idx, synIdx, homophoneIdx)
	p.DuplicateNormAtLayerZero = cfg.Pipeline.DuplicateNormAtLayerZero
	return p, idx, nil
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	p, idx, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	c2 := cache.New(cfg.CacheSize)
	httpSrv := server.New(p, c2, cfg.Server.MaxBodyBytes)
	mcpSrv := mcpserver.New(p, c2)

	w, err := watch.New(cfg.Corpus.Root, 0, func() {
		newP, newIdx, err := buildPipeline(cfg)
		if err != nil {
			log.Printf("corpus rebuild failed, keeping previous index: %v", err)
			return
		}
		httpSrv.Swap(newP, cache.New(cfg.CacheSize))
		_ = idx.Close()
		idx = newIdx
		p = newP
		log.Printf("corpus rebuilt after change under %s", cfg.Corpus.Root)
	})
	if err != nil {
		return fmt.Errorf("start corpus watcher: %w", err)
	}
	defer w.Close()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpSrv.Mux(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("searchd %s listening on %s", version.Version, cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if c.Bool("mcp") {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := mcpSrv.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
				log.Printf("mcp server stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runBuild(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	_, idx, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()
	fmt.Printf("index built under %s\n", cfg.Corpus.Root)
	return nil
}

// runLegacy implements spec §6's positional-argument contract: the first
// two arguments are validated and then discarded. The server always listens
// on legacyLoopbackAddr regardless of any config or flags, and any trailing
// terms are accepted but not consumed (legacy callers expected the process
// itself to be the query front-end; searchd's query front-end is HTTP/MCP).
func runLegacy(args []string) error {
	filename := args[0]
	threshold := args[1]

	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("legacy invocation: record file %q: %w", filename, err)
	}
	if _, err := strconv.ParseFloat(threshold, 64); err != nil {
		return fmt.Errorf("legacy invocation: threshold %q is not numeric: %w", threshold, err)
	}

	root := filepath.Dir(filename)
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config from %s: %w", root, err)
	}
	cfg.Corpus.Root = root
	cfg.Corpus.Pattern = filepath.Base(filename)
	cfg.Server.Addr = legacyLoopbackAddr

	p, idx, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	c2 := cache.New(cfg.CacheSize)
	httpSrv := server.New(p, c2, cfg.Server.MaxBodyBytes)
	httpServer := &http.Server{Addr: legacyLoopbackAddr, Handler: httpSrv.Mux()}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("searchd (legacy invocation) listening on %s", legacyLoopbackAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	app := &cli.App{
		Name:    "searchd",
		Usage:   "Build and serve the associative query pipeline over a title/children corpus",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Corpus root directory (defaults to the current directory)",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Glob pattern for record files under root (overrides config)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Also run the MCP tool server over stdio alongside HTTP",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build (or reuse cached) on-disk index artifacts and exit",
				Action: runBuild,
			},
			{
				Name:   "serve",
				Usage:  "Build the index and serve queries over HTTP (and, with --mcp, stdio MCP)",
				Action: runServe,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() >= 2 {
				return runLegacy(c.Args().Slice())
			}
			return runServe(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "searchd: %v\n", err)
		os.Exit(1)
	}
}
