// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

func (c *cli) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the caps hash every time the registry file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.registryPath()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			return watchRegistry(ctx, path, debounce, c.logger, func() {
				c.printCaps(w, path)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after the last change before reloading")
	return cmd
}

// printCaps reloads the registry at path and writes its caps to w.
// Failures are logged so that watching continues.
func (c *cli) printCaps(w io.Writer, path string) {
	r, err := c.loadRegistry(path)
	if err != nil {
		c.logger.Warn("registry reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	cp, err := c.emitter(r).Caps()
	if err != nil {
		c.logger.Warn("caps build failed", zap.String("path", path), zap.Error(err))
		return
	}
	if _, err := fmt.Fprintf(w, "%s %s#%s\n", cp.Hash, cp.Node, cp.Ver); err != nil {
		c.logger.Warn("writing caps failed", zap.String("path", path), zap.Error(err))
	}
}

// watchRegistry calls onChange once, then again every time the file at path
// is written or replaced, until ctx is done.
// Bursts of events closer together than debounce result in a single call.
// The parent directory is watched so that editors which replace the file are
// noticed.
// onChange is never called concurrently with itself.
func watchRegistry(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, onChange func()) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "capsver: resolve registry path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "capsver: create watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "capsver: watch %s", path)
	}

	onChange()

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fire:
			onChange()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("registry changed", zap.String("path", path), zap.Stringer("op", event.Op))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("registry watcher error", zap.Error(err))
		}
	}
}
