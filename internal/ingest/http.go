package ingest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AngelCh415/channel-roi/internal/utils"
)

// GetWithRetry fetches url, retrying transport errors and 5xx responses.
// Other non-2xx statuses fail immediately.
func GetWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, url string) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(i int) error {
		var err error
		body, err = getBody(ctx, c, url)
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return utils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
