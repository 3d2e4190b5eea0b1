package models

import (
	"fmt"
	"strings"
	"time"
)

// CategoryDelimiter separates the labels stored in topics, tags and hash_tags
const CategoryDelimiter = ";"

// VideoRecord represents one row of the videos table
type VideoRecord struct {
	ID           string `json:"id"`
	Channel      string `json:"channel"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"published_at"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Dislikes     int64  `json:"dislikes"`
	CommentCount int64  `json:"comment_count"`
	Topics       string `json:"topics"`
	Tags         string `json:"tags"`
	HashTags     string `json:"hash_tags"`
}

// timestampLayouts are the published_at encodings seen from the YouTube API,
// SQLite and Postgres exports
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a published_at value
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// Published returns the parsed publication time
func (v *VideoRecord) Published() (time.Time, error) {
	return ParseTimestamp(v.PublishedAt)
}

// JoinLabels encodes a label list into the delimited column format
func JoinLabels(labels []string) string {
	return strings.Join(labels, CategoryDelimiter)
}
