package services

import (
	"testing"

	"course-learning-system/models"
)

func TestParseCourseURL(t *testing.T) {
	tests := []struct {
		url      string
		wantType models.CourseSourceType
		wantID   string
		wantErr  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", models.CourseSourceVideo, "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", models.CourseSourceVideo, "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", models.CourseSourceVideo, "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/playlist?list=PLabc123", models.CourseSourcePlaylist, "PLabc123", false},
		{"https://www.youtube.com/playlist?list=PLabc123&index=2", models.CourseSourcePlaylist, "PLabc123", false},
		{"https://example.com/watch?v=nope", "", "", true},
		{"not a url", "", "", true},
	}

	for _, tt := range tests {
		gotType, gotID, err := ParseCourseURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCourseURL(%q) expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCourseURL(%q): %v", tt.url, err)
			continue
		}
		if gotType != tt.wantType || gotID != tt.wantID {
			t.Errorf("ParseCourseURL(%q) = (%v, %q), want (%v, %q)",
				tt.url, gotType, gotID, tt.wantType, tt.wantID)
		}
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"PT12M34S", 754},
		{"PT1H8M", 4080},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT1H2M3S", 3723},
		{"PT0S", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := ParseISODuration(tt.in); got != tt.want {
			t.Errorf("ParseISODuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	a := uniqueSlug("Complete React Hooks Masterclass")
	b := uniqueSlug("Complete React Hooks Masterclass")
	if a == b {
		t.Error("slugs for identical titles must not collide")
	}
	const prefix = "complete-react-hooks-masterclass-"
	if a[:len(prefix)] != prefix {
		t.Errorf("slug = %q, want prefix %q", a, prefix)
	}
}
