package reddit

import (
	"encoding/json"
	"math"
	"time"

	"mentionscli/pkg/contracts/domain"
)

// Thing kinds returned by the API
const (
	kindComment = "t1"
	kindLink    = "t3"
	kindMore    = "more"
	kindListing = "Listing"
)

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type linkData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	Stickied    bool    `json:"stickied"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

func (l linkData) toDomain() domain.Submission {
	sec, frac := math.Modf(l.CreatedUTC)
	return domain.Submission{
		ID:          l.ID,
		Fullname:    l.Name,
		Subreddit:   l.Subreddit,
		Title:       l.Title,
		Author:      l.Author,
		Permalink:   l.Permalink,
		Stickied:    l.Stickied,
		NumComments: l.NumComments,
		CreatedAt:   time.Unix(int64(sec), int64(frac*1e9)).UTC(),
	}
}

type commentData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	Depth    int    `json:"depth"`
	// Replies is "" for a leaf, otherwise a Listing
	Replies json.RawMessage `json:"replies"`
}

func (c commentData) toDomain() domain.Comment {
	return domain.Comment{
		ID:       c.ID,
		ParentID: c.ParentID,
		Author:   c.Author,
		Body:     c.Body,
		Depth:    c.Depth,
	}
}

func (c commentData) replies() (*listing, error) {
	if len(c.Replies) == 0 || c.Replies[0] != '{' {
		return nil, nil
	}
	var l listing
	if err := json.Unmarshal(c.Replies, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// moreData is a placeholder for comments left out of a response. An empty
// Children list marks a "continue this thread" link under ParentID.
type moreData struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	Children []string `json:"children"`
}

func (m moreData) isContinueThread() bool {
	return len(m.Children) == 0
}

type moreChildrenResponse struct {
	JSON struct {
		Errors []json.RawMessage `json:"errors"`
		Data   struct {
			Things []thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// shortID strips the kind prefix from a fullname such as t1_abc
func shortID(fullname string) string {
	if len(fullname) > 3 && fullname[2] == '_' {
		return fullname[3:]
	}
	return fullname
}
