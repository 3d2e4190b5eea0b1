package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// fakeYouTube serves a channel with the given number of uploads, two per
// playlist page
func fakeYouTube(t *testing.T, uploads int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var response interface{}

		switch {
		case strings.HasSuffix(r.URL.Path, "/channels"):
			if q.Get("id") != "UC123" && q.Get("forHandle") != "gophers" && q.Get("forUsername") != "gophers" {
				response = map[string]interface{}{"items": []interface{}{}}
				break
			}
			response = map[string]interface{}{
				"items": []interface{}{map[string]interface{}{
					"id": "UC123",
					"contentDetails": map[string]interface{}{
						"relatedPlaylists": map[string]interface{}{"uploads": "UU123"},
					},
					"snippet": map[string]interface{}{
						"title": "Gophers",
					},
				}},
			}

		case strings.HasSuffix(r.URL.Path, "/playlistItems"):
			if q.Get("playlistId") != "UU123" {
				t.Errorf("unexpected playlistId %q", q.Get("playlistId"))
			}
			start := 0
			if token := q.Get("pageToken"); token != "" {
				fmt.Sscanf(token, "page%d", &start)
			}
			end := start + 2
			if end > uploads {
				end = uploads
			}
			items := []interface{}{}
			for i := start; i < end; i++ {
				items = append(items, map[string]interface{}{
					"snippet": map[string]interface{}{
						"resourceId": map[string]interface{}{"videoId": fmt.Sprintf("vid%d", i)},
					},
				})
			}
			page := map[string]interface{}{"items": items}
			if end < uploads {
				page["nextPageToken"] = fmt.Sprintf("page%d", end)
			}
			response = page

		case strings.HasSuffix(r.URL.Path, "/videos"):
			items := []interface{}{}
			for _, param := range q["id"] {
				for _, id := range strings.Split(param, ",") {
					items = append(items, map[string]interface{}{
						"id": id,
						"snippet": map[string]interface{}{
							"title":        "Video " + id,
							"description":  "Watch this #GoLang tip",
							"publishedAt":  "2024-01-01T00:00:00Z",
							"channelTitle": "Gophers",
							"tags":         []string{"go", "tips"},
						},
						"statistics": map[string]interface{}{
							"viewCount":    "100",
							"likeCount":    "10",
							"commentCount": "2",
						},
						"topicDetails": map[string]interface{}{
							"topicCategories": []string{"https://en.wikipedia.org/wiki/Technology"},
						},
					})
				}
			}
			response = map[string]interface{}{"items": items}

		default:
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func newTestFetcher(t *testing.T, server *httptest.Server) *Fetcher {
	t.Helper()
	service, err := youtube.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &Fetcher{service: service}
}

func TestFetcher_ChannelVideos(t *testing.T) {
	server := fakeYouTube(t, 5)
	defer server.Close()

	videos, err := newTestFetcher(t, server).ChannelVideos(context.Background(), "UC123", 500)
	if err != nil {
		t.Fatalf("ChannelVideos: %v", err)
	}
	if len(videos) != 5 {
		t.Fatalf("expected 5 videos across pages, got %d", len(videos))
	}

	v := videos[0]
	if v.ID != "vid0" || v.Channel != "Gophers" || v.Title != "Video vid0" {
		t.Errorf("unexpected identity fields: %+v", v)
	}
	if v.Views != 100 || v.Likes != 10 || v.Dislikes != 0 || v.CommentCount != 2 {
		t.Errorf("unexpected counts: %+v", v)
	}
	if v.Topics != "Technology" || v.Tags != "go;tips" || v.HashTags != "#GoLang" {
		t.Errorf("unexpected labels: topics=%q tags=%q hash_tags=%q", v.Topics, v.Tags, v.HashTags)
	}
}

func TestFetcher_ChannelVideos_Limit(t *testing.T) {
	server := fakeYouTube(t, 7)
	defer server.Close()

	videos, err := newTestFetcher(t, server).ChannelVideos(context.Background(), "UC123", 3)
	if err != nil {
		t.Fatalf("ChannelVideos: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(videos))
	}
}

func TestFetcher_ChannelNotFound(t *testing.T) {
	server := fakeYouTube(t, 1)
	defer server.Close()

	_, err := newTestFetcher(t, server).ChannelVideos(context.Background(), "UCmissing", 10)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestFetcher_ResolveChannel(t *testing.T) {
	server := fakeYouTube(t, 1)
	defer server.Close()
	f := newTestFetcher(t, server)

	for _, ref := range []string{
		"UC123",
		"@gophers",
		"https://www.youtube.com/@gophers",
		"youtube.com/channel/UC123/videos",
		"https://www.youtube.com/c/gophers",
		"https://www.youtube.com/user/gophers/",
	} {
		id, err := f.ResolveChannel(context.Background(), ref)
		if err != nil {
			t.Errorf("ResolveChannel(%q): %v", ref, err)
			continue
		}
		if id != "UC123" {
			t.Errorf("ResolveChannel(%q) = %q, want UC123", ref, id)
		}
	}
}

func TestFetcher_ResolveChannel_Errors(t *testing.T) {
	server := fakeYouTube(t, 1)
	defer server.Close()
	f := newTestFetcher(t, server)

	for _, ref := range []string{
		"",
		"@nobody",
		"https://youtu.be/abc",
		"https://www.youtube.com/watch?v=abc",
		"https://example.com/channel/UC123",
	} {
		if _, err := f.ResolveChannel(context.Background(), ref); err == nil {
			t.Errorf("ResolveChannel(%q) should fail", ref)
		}
	}
}

func TestToRecord_MissingParts(t *testing.T) {
	record := ToRecord(&youtube.Video{Id: "bare"})
	if record.ID != "bare" || record.Title != "" || record.Views != 0 || record.Topics != "" {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestExtractTopics(t *testing.T) {
	got := ExtractTopics([]string{
		"https://en.wikipedia.org/wiki/Music",
		"https://en.wikipedia.org/wiki/Pop_music/",
		"Lifestyle",
		"",
	})
	want := []string{"Music", "Pop_music", "Lifestyle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTopics() = %v, want %v", got, want)
	}
}

func TestExtractHashTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"New video #golang #Tech_Talk", []string{"#golang", "#Tech_Talk"}},
		{"#go and again #GO", []string{"#go"}},
		{"#café time", []string{"#café"}},
		{"no tags here # alone", nil},
	}

	for _, tt := range tests {
		if got := ExtractHashTags(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractHashTags(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
