// Package dashboard turns a flat list of video records into the table view
// (filtered and sorted) and the category analytics (aggregated, ranked and
// projected into chart data) consumed by the dashboard client.
package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/yt-dashboard/internal/models"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrNotCategoryField = errors.New("not a category field")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// Field names a column of the videos table
type Field string

const (
	FieldID           Field = "id"
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldPublishedAt  Field = "published_at"
	FieldViews        Field = "views"
	FieldLikes        Field = "likes"
	FieldDislikes     Field = "dislikes"
	FieldCommentCount Field = "comment_count"
	FieldTopics       Field = "topics"
	FieldTags         Field = "tags"
	FieldHashTags     Field = "hash_tags"
)

// fieldKind selects the natural ordering of a field
type fieldKind int

const (
	kindText fieldKind = iota
	kindCount
	kindTime
)

type accessor struct {
	kind  fieldKind
	text  func(*models.VideoRecord) string
	count func(*models.VideoRecord) int64
}

var accessors = map[Field]accessor{
	FieldID:           {kind: kindText, text: func(v *models.VideoRecord) string { return v.ID }},
	FieldTitle:        {kind: kindText, text: func(v *models.VideoRecord) string { return v.Title }},
	FieldDescription:  {kind: kindText, text: func(v *models.VideoRecord) string { return v.Description }},
	FieldPublishedAt:  {kind: kindTime, text: func(v *models.VideoRecord) string { return v.PublishedAt }},
	FieldViews:        {kind: kindCount, count: func(v *models.VideoRecord) int64 { return v.Views }},
	FieldLikes:        {kind: kindCount, count: func(v *models.VideoRecord) int64 { return v.Likes }},
	FieldDislikes:     {kind: kindCount, count: func(v *models.VideoRecord) int64 { return v.Dislikes }},
	FieldCommentCount: {kind: kindCount, count: func(v *models.VideoRecord) int64 { return v.CommentCount }},
	FieldTopics:       {kind: kindText, text: func(v *models.VideoRecord) string { return v.Topics }},
	FieldTags:         {kind: kindText, text: func(v *models.VideoRecord) string { return v.Tags }},
	FieldHashTags:     {kind: kindText, text: func(v *models.VideoRecord) string { return v.HashTags }},
}

// Fields lists every field in table column order
var Fields = []Field{
	FieldID, FieldTitle, FieldDescription, FieldPublishedAt,
	FieldViews, FieldLikes, FieldDislikes, FieldCommentCount,
	FieldTopics, FieldTags, FieldHashTags,
}

// CategoryFields lists the multi-valued fields in analysis tab order
var CategoryFields = []Field{FieldHashTags, FieldTopics, FieldTags}

// ParseField resolves a column name
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := accessors[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// ParseCategoryField resolves a category field name. The analysis tab name
// "hashtags" is accepted for hash_tags.
func ParseCategoryField(name string) (Field, error) {
	if name == "hashtags" {
		return FieldHashTags, nil
	}
	f, err := ParseField(name)
	if err != nil {
		return "", err
	}
	if !f.IsCategory() {
		return "", fmt.Errorf("%w: %q", ErrNotCategoryField, name)
	}
	return f, nil
}

// IsCategory reports whether the field holds delimited labels
func (f Field) IsCategory() bool {
	switch f {
	case FieldHashTags, FieldTopics, FieldTags:
		return true
	}
	return false
}

// Text returns the string value of a text or timestamp field
func (f Field) Text(v *models.VideoRecord) string {
	a, ok := accessors[f]
	if !ok || a.text == nil {
		return ""
	}
	return a.text(v)
}

// compare orders two records on f. Unparseable timestamps sort as the zero time.
func (f Field) compare(a, b *models.VideoRecord) int {
	acc := accessors[f]
	switch acc.kind {
	case kindCount:
		return cmp.Compare(acc.count(a), acc.count(b))
	case kindTime:
		return parsedOrZero(acc.text(a)).Compare(parsedOrZero(acc.text(b)))
	default:
		return cmp.Compare(acc.text(a), acc.text(b))
	}
}

func parsedOrZero(s string) time.Time {
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
