package internal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/williewillus/mcrs/internal/core"
	"github.com/williewillus/mcrs/internal/game"
)

// Controller is the main entrypoint for the server. It's responsible for
// initializing the shared resources (logging, the game loop) and launching
// the frontend.
type Controller struct {
	Config *core.Config

	logger *logrus.Logger
	wg     sync.WaitGroup
}

func (c *Controller) Start(ctx context.Context) error {
	// Set up the logger, which will be used by every component.
	var err error
	c.logger, err = core.NewLogger(c.Config)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}

	favicon, err := loadFavicon(c.Config.Status.FaviconPath)
	if err != nil {
		c.logger.Warnf("favicon disabled: %v", err)
	}

	gameServer := game.NewServer(c.Config, c.logger)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := gameServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Errorf("game loop exited: %v", err)
		}
	}()

	f := &frontend{
		Address: c.Config.Address(),
		Config:  c.Config,
		Logger:  c.logger,
		Game:    gameServer,
		Favicon: favicon,
	}
	if err := f.Start(ctx, &c.wg); err != nil {
		return err
	}

	c.wg.Wait()
	return ctx.Err()
}

// loadFavicon reads the configured PNG and wraps it in the data URI form the
// status payload expects. A blank path disables the favicon without error.
func loadFavicon(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading favicon %s: %w", path, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
