package dashboard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yt-dashboard/internal/models"
)

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		spec *SortSpec
		want []string
	}{
		{"nil spec keeps input order", nil, []string{"1", "2", "3", "4"}},
		{"views ascending", &SortSpec{FieldViews, Ascending}, []string{"4", "2", "1", "3"}},
		{"views descending", &SortSpec{FieldViews, Descending}, []string{"3", "1", "2", "4"}},
		{"title is lexicographic", &SortSpec{FieldTitle, Ascending}, []string{"3", "2", "1", "4"}},
		{"published_at is chronological", &SortSpec{FieldPublishedAt, Descending}, []string{"3", "2", "1", "4"}},
		{"unknown key keeps input order", &SortSpec{Field("rating"), Ascending}, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Sort(sampleVideos(), tt.spec))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort_ChronologicalNotLexicographic(t *testing.T) {
	videos := []models.VideoRecord{
		{ID: "late", PublishedAt: "2024-03-01T00:00:00+05:00"},
		{ID: "early", PublishedAt: "2024-02-29T23:00:00Z"},
	}
	// lexicographically "late" sorts last, but it is 19:00Z on Feb 29
	got := ids(Sort(videos, &SortSpec{FieldPublishedAt, Ascending}))
	if !reflect.DeepEqual(got, []string{"late", "early"}) {
		t.Errorf("Sort() = %v, want [late early]", got)
	}
}

func TestSort_Stable(t *testing.T) {
	videos := []models.VideoRecord{
		{ID: "a", Views: 10},
		{ID: "b", Views: 20},
		{ID: "c", Views: 10},
		{ID: "d", Views: 20},
		{ID: "e", Views: 10},
	}

	asc := ids(Sort(videos, &SortSpec{FieldViews, Ascending}))
	if !reflect.DeepEqual(asc, []string{"a", "c", "e", "b", "d"}) {
		t.Errorf("ascending = %v", asc)
	}
	desc := ids(Sort(videos, &SortSpec{FieldViews, Descending}))
	if !reflect.DeepEqual(desc, []string{"b", "d", "a", "c", "e"}) {
		t.Errorf("descending = %v", desc)
	}
}

func TestSort_DoesNotMutateSource(t *testing.T) {
	videos := sampleVideos()
	Sort(videos, &SortSpec{FieldViews, Descending})
	if !reflect.DeepEqual(ids(videos), []string{"1", "2", "3", "4"}) {
		t.Errorf("Sort reordered its input: %v", ids(videos))
	}
}

func TestNextSort(t *testing.T) {
	first := NextSort(nil, FieldViews)
	if first != (SortSpec{FieldViews, Ascending}) {
		t.Fatalf("first click = %+v, want views ascending", first)
	}

	second := NextSort(&first, FieldViews)
	if second != (SortSpec{FieldViews, Descending}) {
		t.Fatalf("second click = %+v, want views descending", second)
	}

	third := NextSort(&second, FieldViews)
	if third != (SortSpec{FieldViews, Ascending}) {
		t.Errorf("third click = %+v, want views ascending", third)
	}

	other := NextSort(&second, FieldTitle)
	if other != (SortSpec{FieldTitle, Ascending}) {
		t.Errorf("new key = %+v, want title ascending", other)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"", Ascending, false},
		{"ascending", Ascending, false},
		{"descending", Descending, false},
		{"up", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownDirection) {
				t.Errorf("ParseDirection(%q) error = %v, want ErrUnknownDirection", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("Likes"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseField(Likes) error = %v, want ErrUnknownField", err)
	}
}

func TestParseCategoryField(t *testing.T) {
	tests := []struct {
		input   string
		want    Field
		wantErr error
	}{
		{"hash_tags", FieldHashTags, nil},
		{"hashtags", FieldHashTags, nil},
		{"topics", FieldTopics, nil},
		{"tags", FieldTags, nil},
		{"title", "", ErrNotCategoryField},
		{"colour", "", ErrUnknownField},
	}

	for _, tt := range tests {
		got, err := ParseCategoryField(tt.input)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseCategoryField(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCategoryField(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}
