package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	apperrors "mentionscli/internal/errors"
	"mentionscli/pkg/contracts/domain"
)

// Hot returns up to limit submissions from the subreddit's hot listing, in
// listing order. Pinned posts come first.
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]domain.Submission, error) {
	path := "/r/" + url.PathEscape(subreddit) + "/hot"

	var resp listing
	if err := c.get(ctx, path, rawQuery("limit", strconv.Itoa(limit)), &resp); err != nil {
		return nil, err
	}

	subs := make([]domain.Submission, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		if child.Kind != kindLink {
			continue
		}
		var link linkData
		if err := json.Unmarshal(child.Data, &link); err != nil {
			return nil, apperrors.NewDataError("decode submission", err).WithContext("subreddit", subreddit)
		}
		subs = append(subs, link.toDomain())
	}

	return subs, nil
}

// FindDailyThread returns the first pinned submission among the first limit
// hot posts whose title contains marker. It returns a NOT_FOUND error when
// none qualifies.
func (c *Client) FindDailyThread(ctx context.Context, subreddit, marker string, limit int) (domain.Submission, error) {
	subs, err := c.Hot(ctx, subreddit, limit)
	if err != nil {
		return domain.Submission{}, err
	}

	for _, s := range subs {
		if s.IsDailyThread(marker) {
			c.logger.Info("Found daily thread",
				"subreddit", subreddit,
				"submission_id", s.ID,
				"title", s.Title,
				"num_comments", s.NumComments)
			return s, nil
		}
	}

	return domain.Submission{}, apperrors.NewNotFoundError(fmt.Sprintf("pinned thread titled %q", marker)).
		WithContext("subreddit", subreddit).
		WithContext("scanned", len(subs))
}
