package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// channelRef is a parsed channel reference. Exactly one field is set.
type channelRef struct {
	id       string
	handle   string
	username string
}

// parseChannelRef accepts a channel ID, an @handle or one of the
// youtube.com/channel/, /@, /c/ and /user/ URL formats
func parseChannelRef(ref string) (channelRef, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return channelRef{}, fmt.Errorf("empty channel reference")
	case strings.HasPrefix(ref, "@"):
		return channelRef{handle: strings.TrimPrefix(ref, "@")}, nil
	case !strings.Contains(ref, "/"):
		return channelRef{id: ref}, nil
	}

	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	parsedURL, err := url.Parse(ref)
	if err != nil {
		return channelRef{}, fmt.Errorf("invalid URL: %w", err)
	}

	switch {
	case strings.Contains(parsedURL.Host, "youtube.com"):
		path := strings.TrimSuffix(parsedURL.Path, "/")
		switch {
		case strings.HasPrefix(path, "/channel/"):
			return channelRef{id: firstSegment(strings.TrimPrefix(path, "/channel/"))}, nil
		case strings.HasPrefix(path, "/@"):
			return channelRef{handle: firstSegment(strings.TrimPrefix(path, "/@"))}, nil
		case strings.HasPrefix(path, "/c/"):
			return channelRef{username: firstSegment(strings.TrimPrefix(path, "/c/"))}, nil
		case strings.HasPrefix(path, "/user/"):
			return channelRef{username: firstSegment(strings.TrimPrefix(path, "/user/"))}, nil
		}
	case strings.Contains(parsedURL.Host, "youtu.be"):
		return channelRef{}, fmt.Errorf("youtu.be URLs are video URLs, not channel URLs")
	}

	return channelRef{}, fmt.Errorf("unsupported YouTube URL format: %s", ref)
}

func firstSegment(path string) string {
	if i := strings.Index(path, "/"); i >= 0 {
		return path[:i]
	}
	return path
}

// ResolveChannel turns a channel ID, handle or channel URL into a channel ID
func (f *Fetcher) ResolveChannel(ctx context.Context, ref string) (string, error) {
	parsed, err := parseChannelRef(ref)
	if err != nil {
		return "", err
	}
	if parsed.id != "" {
		return parsed.id, nil
	}

	call := f.service.Channels.List([]string{"id", "snippet"}).Context(ctx)
	var opts []googleapi.CallOption
	if parsed.handle != "" {
		opts = append(opts, googleapi.QueryParameter("forHandle", parsed.handle))
	} else {
		call = call.ForUsername(parsed.username)
	}
	response, err := call.Do(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel ID: %w", err)
	}
	if len(response.Items) == 0 {
		return "", fmt.Errorf("no channel found for %s", ref)
	}

	channel := response.Items[0]
	log.Printf("Resolved %s to channel %s (%s)", ref, channel.Id, channelTitle(channel))
	return channel.Id, nil
}

func channelTitle(c *youtube.Channel) string {
	if c.Snippet == nil {
		return ""
	}
	return c.Snippet.Title
}
