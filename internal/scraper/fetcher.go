// Package scraper pulls channel uploads from the YouTube Data API and turns
// them into video records for the videos table.
package scraper

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yt-dashboard/internal/models"
)

// batchSize is the YouTube API maximum per request
const batchSize = 50

var hashTagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Fetcher reads channel uploads through the YouTube Data API
type Fetcher struct {
	service *youtube.Service
}

// NewFetcher creates a fetcher authenticated with an API key. Extra options
// are passed to the API client.
func NewFetcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Fetcher, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Fetcher{service: service}, nil
}

// ChannelVideos returns up to limit of the channel's most recent uploads
func (f *Fetcher) ChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoRecord, error) {
	ids, err := f.uploadIDs(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d uploads for channel %s", len(ids), channelID)

	videos := make([]models.VideoRecord, 0, len(ids))
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		response, err := f.service.Videos.List([]string{"id", "snippet", "statistics", "topicDetails"}).
			Id(ids[i:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("error fetching video details: %w", err)
		}
		for _, item := range response.Items {
			if item != nil {
				videos = append(videos, ToRecord(item))
			}
		}
	}
	return videos, nil
}

// uploadIDs pages through the channel's uploads playlist
func (f *Fetcher) uploadIDs(ctx context.Context, channelID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	channels, err := f.service.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error fetching channel info: %w", err)
	}
	if len(channels.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}
	channel := channels.Items[0]
	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, fmt.Errorf("uploads playlist not found for channel %s", channelID)
	}
	playlistID := channel.ContentDetails.RelatedPlaylists.Uploads

	var ids []string
	pageToken := ""
	for len(ids) < limit {
		pageSize := int64(batchSize)
		if remaining := limit - len(ids); remaining < batchSize {
			pageSize = int64(remaining)
		}

		call := f.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error fetching playlist items: %w", err)
		}

		for _, item := range response.Items {
			if item != nil && item.Snippet != nil && item.Snippet.ResourceId != nil {
				ids = append(ids, item.Snippet.ResourceId.VideoId)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" || len(response.Items) == 0 {
			break
		}
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ToRecord converts an API video into a videos table row. Missing parts
// leave zero values.
func ToRecord(v *youtube.Video) models.VideoRecord {
	record := models.VideoRecord{ID: v.Id}

	if s := v.Snippet; s != nil {
		record.Channel = s.ChannelTitle
		record.Title = s.Title
		record.Description = s.Description
		record.PublishedAt = s.PublishedAt
		record.Tags = models.JoinLabels(s.Tags)
		record.HashTags = models.JoinLabels(ExtractHashTags(s.Title + "\n" + s.Description))
	}
	if st := v.Statistics; st != nil {
		record.Views = int64(st.ViewCount)
		record.Likes = int64(st.LikeCount)
		record.Dislikes = int64(st.DislikeCount)
		record.CommentCount = int64(st.CommentCount)
	}
	if td := v.TopicDetails; td != nil {
		record.Topics = models.JoinLabels(ExtractTopics(td.TopicCategories))
	}
	return record
}

// ExtractTopics keeps the last path segment of each topic category URL, e.g.
// https://en.wikipedia.org/wiki/Pop_music becomes Pop_music
func ExtractTopics(categories []string) []string {
	var topics []string
	for _, category := range categories {
		parts := strings.Split(strings.TrimRight(category, "/"), "/")
		if last := parts[len(parts)-1]; last != "" {
			topics = append(topics, last)
		}
	}
	return topics
}

// ExtractHashTags returns the distinct #tags of a text in order of appearance
func ExtractHashTags(text string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range hashTagPattern.FindAllString(text, -1) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}
