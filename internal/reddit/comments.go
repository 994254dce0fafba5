package reddit

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "mentionscli/internal/errors"
	"mentionscli/pkg/contracts/domain"
)

// moreChildrenBatch is the most ids /api/morechildren accepts per call
const moreChildrenBatch = 100

// commentTree flattens comment listings and queues the placeholders that
// still need expanding. Each comment is kept once.
type commentTree struct {
	seen      map[string]struct{}
	requested map[string]struct{}
	expanded  map[string]struct{}
	comments  []domain.Comment
	pending   []moreData
}

func newCommentTree() *commentTree {
	return &commentTree{
		seen:      make(map[string]struct{}),
		requested: make(map[string]struct{}),
		expanded:  make(map[string]struct{}),
	}
}

func (t *commentTree) walk(children []thing) error {
	for _, child := range children {
		switch child.Kind {
		case kindComment:
			var cd commentData
			if err := json.Unmarshal(child.Data, &cd); err != nil {
				return err
			}
			if _, dup := t.seen[cd.ID]; !dup {
				t.seen[cd.ID] = struct{}{}
				t.comments = append(t.comments, cd.toDomain())
			}
			replies, err := cd.replies()
			if err != nil {
				return err
			}
			if replies != nil {
				if err := t.walk(replies.Data.Children); err != nil {
					return err
				}
			}
		case kindMore:
			var md moreData
			if err := json.Unmarshal(child.Data, &md); err != nil {
				return err
			}
			t.pending = append(t.pending, md)
		}
	}
	return nil
}

func (t *commentTree) pop() (moreData, bool) {
	if len(t.pending) == 0 {
		return moreData{}, false
	}
	md := t.pending[0]
	t.pending = t.pending[1:]
	return md, true
}

// claim filters ids down to comments neither collected nor already
// requested, and marks the result as requested.
func (t *commentTree) claim(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := t.seen[id]; ok {
			continue
		}
		if _, ok := t.requested[id]; ok {
			continue
		}
		t.requested[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// FetchComments returns every comment in the submission's tree, expanding
// all "load more comments" and "continue this thread" placeholders.
func (c *Client) FetchComments(ctx context.Context, sub domain.Submission) ([]domain.Comment, error) {
	tree := newCommentTree()

	if err := c.fetchThread(ctx, sub.ID, "", tree); err != nil {
		return nil, err
	}

	linkID := sub.Fullname
	if linkID == "" {
		linkID = kindLink + "_" + sub.ID
	}

	requests := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewNetworkError("comment fetch cancelled", err)
		}

		md, ok := tree.pop()
		if !ok {
			break
		}

		if md.isContinueThread() {
			parent := shortID(md.ParentID)
			if _, done := tree.expanded[parent]; done || parent == sub.ID {
				continue
			}
			tree.expanded[parent] = struct{}{}
			requests++
			if err := c.fetchThread(ctx, sub.ID, parent, tree); err != nil {
				return nil, err
			}
			continue
		}

		ids := tree.claim(md.Children)
		for start := 0; start < len(ids); start += moreChildrenBatch {
			end := min(start+moreChildrenBatch, len(ids))
			requests++
			if err := c.moreChildren(ctx, linkID, ids[start:end], tree); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Info("Fetched comments",
		"submission_id", sub.ID,
		"comments", len(tree.comments),
		"expansion_requests", requests)

	return tree.comments, nil
}

// fetchThread loads /comments/{article}, optionally focused on one comment,
// and walks the comment listing into tree.
func (c *Client) fetchThread(ctx context.Context, article, focus string, tree *commentTree) error {
	q := rawQuery("limit", "500")
	if focus != "" {
		q.Set("comment", focus)
	}

	var resp []listing
	if err := c.get(ctx, "/comments/"+article, q, &resp); err != nil {
		return err
	}
	if len(resp) < 2 {
		return apperrors.NewDataError("comment response missing comment listing", nil).WithContext("submission_id", article)
	}

	if err := tree.walk(resp[1].Data.Children); err != nil {
		return apperrors.NewDataError("decode comment tree", err).WithContext("submission_id", article)
	}
	return nil
}

func (c *Client) moreChildren(ctx context.Context, linkID string, ids []string, tree *commentTree) error {
	q := rawQuery(
		"api_type", "json",
		"link_id", linkID,
		"children", strings.Join(ids, ","),
	)

	var resp moreChildrenResponse
	if err := c.get(ctx, "/api/morechildren", q, &resp); err != nil {
		return err
	}
	if len(resp.JSON.Errors) > 0 {
		return apperrors.NewDataError("morechildren returned errors", nil).
			WithContext("link_id", linkID).
			WithContext("errors", len(resp.JSON.Errors))
	}

	if err := tree.walk(resp.JSON.Data.Things); err != nil {
		return apperrors.NewDataError("decode expanded comments", err).WithContext("link_id", linkID)
	}
	return nil
}
