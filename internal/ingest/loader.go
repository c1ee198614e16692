package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AngelCh415/channel-roi/internal/config"
	"github.com/AngelCh415/channel-roi/internal/models"
	"github.com/AngelCh415/channel-roi/internal/utils"
)

// Loader resolves the channel table: CHANNELS_URL first, then
// CHANNELS_FILE, then the built-in table.
type Loader struct {
	c   HTTPClient
	log *slog.Logger
	cfg config.Config
	b   utils.Backoff
}

func NewLoader(c HTTPClient, log *slog.Logger, cfg config.Config) *Loader {
	return &Loader{c: c, log: log, cfg: cfg, b: utils.NewBackoff(200*time.Millisecond, cfg.FetchRetries)}
}

func (l *Loader) Load(ctx context.Context) (models.ChannelTable, error) {
	switch {
	case l.cfg.ChannelsURL != "":
		body, err := GetWithRetry(ctx, l.c, l.b, l.cfg.ChannelsURL)
		if err != nil {
			return nil, fmt.Errorf("fetch channel table: %w", err)
		}
		t, err := ParseTable(body)
		if err != nil {
			return nil, err
		}
		l.log.Info("channel table fetched", slog.String("url", l.cfg.ChannelsURL), slog.Int("channels", len(t)))
		return t, nil
	case l.cfg.ChannelsFile != "":
		t, err := LoadFile(l.cfg.ChannelsFile)
		if err != nil {
			return nil, err
		}
		l.log.Info("channel table loaded", slog.String("file", l.cfg.ChannelsFile), slog.Int("channels", len(t)))
		return t, nil
	default:
		t := DefaultTable()
		l.log.Info("using built-in channel table", slog.Int("channels", len(t)))
		return t, nil
	}
}
