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
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/usecases/monitoring"
)

// Options are the flags shared by every command.
type Options struct {
	LogLevel    string `long:"log-level" default:"info" description:"log level: trace, debug, info, warn, error"`
	LogFormat   string `long:"log-format" default:"text" choice:"text" choice:"json" description:"log output format"`
	MetricsFile string `long:"metrics-file" description:"write run metrics in the prometheus text format to this file"`

	Compress CompressCommand `command:"compress" description:"compress a graph into <prefix>.vertex.bin, <prefix>.edge.bin and, for the hybrid scheme, <prefix>.degree.bin"`
	Decode   DecodeCommand   `command:"decode" description:"decompress a graph into a csr binary file"`
	Verify   VerifyCommand   `command:"verify" description:"decode every vertex and compare with the source graph and the stored fingerprint"`
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// app holds what every command needs. It is built after the flags are
// parsed.
type app struct {
	logger   *logrus.Logger
	registry *prometheus.Registry
	metrics  *monitoring.CompressionMetrics
}

func newApp() (*app, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if opts.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	a := &app{logger: logger}
	if opts.MetricsFile != "" {
		a.registry = prometheus.NewRegistry()
		a.metrics = monitoring.NewCompressionMetrics(a.registry)
	}
	return a, nil
}

// run executes fn with a context that is cancelled on SIGINT and SIGTERM
// and writes the metrics file afterwards, also when fn failed.
func (a *app) run(action string, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fn(ctx)
	if err != nil {
		a.logger.WithField("action", action).WithError(err).Error("command failed")
	}

	if a.registry != nil {
		if werr := monitoring.WriteTextfile(a.registry, opts.MetricsFile); werr != nil {
			a.logger.WithFields(logrus.Fields{
				"action": action,
				"file":   opts.MetricsFile,
			}).WithError(werr).Error("write metrics file")
			if err == nil {
				err = werr
			}
		}
	}
	return err
}
