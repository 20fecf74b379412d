//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/adapters/repos/cgr"
	"github.com/weaviate/cgr/entities/concurrency"
	"github.com/weaviate/cgr/entities/diskio"
	"github.com/weaviate/cgr/entities/graph"
	"github.com/weaviate/cgr/usecases/config"
)

// GraphFlags select how an input graph file is read.
type GraphFlags struct {
	Format     string `long:"format" default:"auto" choice:"auto" choice:"csr" choice:"edgelist" description:"input graph format, auto picks csr for .csr and .bin files"`
	Symmetrize bool   `long:"symmetrize" description:"add the reverse of every edge of an edge list"`
}

func (f GraphFlags) load(a *app, path string) (*graph.CSR, error) {
	format, err := graph.ParseFormat(f.Format, path)
	if err != nil {
		return nil, err
	}
	g, err := graph.LoadFile(path, format, f.Symmetrize, a.metrics.ReadCallback())
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"action":   "load_graph",
		"path":     path,
		"format":   format.String(),
		"vertices": g.NumVertices(),
		"edges":    g.NumEdges(),
	}).Info("graph loaded")
	return g, nil
}

type CompressCommand struct {
	Compression config.Flags `group:"Compression Options"`
	Graph       GraphFlags   `group:"Graph Options"`

	Args struct {
		Input  string `positional-arg-name:"input" description:"graph file"`
		Prefix string `positional-arg-name:"output-prefix" description:"prefix of the output files"`
	} `positional-args:"yes" required:"yes"`
}

func (c *CompressCommand) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, err := config.Load(&c.Compression, a.logger)
	if err != nil {
		return err
	}

	return a.run("cgr_compress", func(ctx context.Context) error {
		g, err := c.Graph.load(a, c.Args.Input)
		if err != nil {
			return err
		}

		compressor, err := cgr.NewCompressor(cfg, nil, a.logger, a.metrics)
		if err != nil {
			return err
		}
		_, err = compressor.CompressToFiles(concurrency.CtxWithBudget(ctx, cfg.Workers), g, c.Args.Prefix)
		return err
	})
}

type DecodeCommand struct {
	Compression config.Flags `group:"Compression Options"`

	Args struct {
		Prefix string `positional-arg-name:"prefix" description:"prefix of the compressed files"`
		Output string `positional-arg-name:"output" description:"csr binary file to write"`
	} `positional-args:"yes" required:"yes"`
}

func (c *DecodeCommand) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, err := config.Load(&c.Compression, a.logger)
	if err != nil {
		return err
	}

	return a.run("cgr_decode", func(ctx context.Context) error {
		g, err := cgr.Open(c.Args.Prefix, &cfg, a.logger, a.metrics)
		if err != nil {
			return err
		}
		defer g.Close()

		decoded, err := g.Decompress(concurrency.CtxWithBudget(ctx, cfg.Workers))
		if err != nil {
			return err
		}

		return diskio.WriteFile(c.Args.Output, a.metrics.WriteCallback("csr"), func(w *bufio.Writer) error {
			return graph.WriteCSRBinary(w, decoded)
		})
	})
}

type VerifyCommand struct {
	Compression config.Flags `group:"Compression Options"`
	Graph       GraphFlags   `group:"Graph Options"`
	Source      string       `long:"graph" description:"source graph to compare the decoded graph with"`

	Args struct {
		Prefix string `positional-arg-name:"prefix" description:"prefix of the compressed files"`
	} `positional-args:"yes" required:"yes"`
}

func (c *VerifyCommand) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, err := config.Load(&c.Compression, a.logger)
	if err != nil {
		return err
	}

	return a.run("cgr_verify", func(ctx context.Context) error {
		var source graph.Provider
		if c.Source != "" {
			g, err := c.Graph.load(a, c.Source)
			if err != nil {
				return err
			}
			source = g
		}

		g, err := cgr.Open(c.Args.Prefix, &cfg, a.logger, a.metrics)
		if err != nil {
			return err
		}
		defer g.Close()

		decoded, err := g.Verify(concurrency.CtxWithBudget(ctx, cfg.Workers), source)
		if err != nil {
			return fmt.Errorf("verify %q: %w", c.Args.Prefix, err)
		}

		a.logger.WithFields(logrus.Fields{
			"action":   "cgr_verify",
			"vertices": decoded.NumVertices(),
			"edges":    decoded.NumEdges(),
			"source":   c.Source != "",
			"meta":     g.Meta() != nil,
		}).Info("compressed graph verified")
		return nil
	})
}
