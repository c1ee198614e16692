package store

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/channel-roi/internal/models"
)

var ErrNotFound = errors.New("run not found")

// RunInfo is the listing view of a stored report.
type RunInfo struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	TimeHorizon int       `json:"time_horizon"`
	Channels    int       `json:"channels"`
	MonteCarlo  bool      `json:"monte_carlo"`
}

type RunStore interface {
	Save(ctx context.Context, rep models.Report) error
	Get(ctx context.Context, id string) (models.Report, error)
	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]RunInfo, error)
	Close() error
}

func infoOf(rep models.Report) RunInfo {
	return RunInfo{
		ID:          rep.ID,
		CreatedAt:   rep.CreatedAt,
		TimeHorizon: rep.TimeHorizon,
		Channels:    len(rep.Results),
		MonteCarlo:  len(rep.MonteCarlo) > 0,
	}
}
