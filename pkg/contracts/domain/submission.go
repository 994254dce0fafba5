package domain

import (
	"strings"
	"time"
)

// Submission represents a Reddit link post, such as the daily discussion thread
type Submission struct {
	ID          string    `json:"id" validate:"required"`
	Fullname    string    `json:"name"` // t3_<id>
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title" validate:"required"`
	Author      string    `json:"author"`
	Permalink   string    `json:"permalink"`
	Stickied    bool      `json:"stickied"`
	NumComments int       `json:"num_comments" validate:"min=0"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsDailyThread reports whether the submission is pinned and its title
// contains marker, compared case-insensitively.
func (s Submission) IsDailyThread(marker string) bool {
	return s.Stickied && strings.Contains(strings.ToLower(s.Title), strings.ToLower(marker))
}

// Comment is a single comment from a submission's flattened comment tree
type Comment struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	Depth    int    `json:"depth"`
}

// Text returns the body lowercased and trimmed, the form mention matching expects
func (c Comment) Text() string {
	return NormalizeText(c.Body)
}

// NormalizeText lowercases and trims s
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CommentTexts returns the normalized bodies of comments in order
func CommentTexts(comments []Comment) []string {
	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text()
	}
	return texts
}
