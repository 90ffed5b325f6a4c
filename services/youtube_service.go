package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"course-learning-system/models"
	"course-learning-system/utils"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

var (
	videoURLPattern    = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)
	playlistURLPattern = regexp.MustCompile(`youtube\.com/playlist\?list=([^&\n?#]+)`)
	isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
)

var ErrInvalidYouTubeURL = errors.New("invalid YouTube URL")

type YouTubeService struct {
	DB     *gorm.DB
	client *resty.Client
	apiKey string
}

func NewYouTubeService(db *gorm.DB) *YouTubeService {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		log.Fatal("YOUTUBE_API_KEY environment variable not set")
	}

	client := resty.New().
		SetBaseURL(youtubeAPIBase).
		SetQueryParam("key", apiKey)

	return &YouTubeService{DB: db, client: client, apiKey: apiKey}
}

// ParseCourseURL extracts the source type and YouTube id from a pasted URL.
// Playlist URLs win over video URLs when both ids are present.
func ParseCourseURL(url string) (models.CourseSourceType, string, error) {
	if m := playlistURLPattern.FindStringSubmatch(url); m != nil {
		return models.CourseSourcePlaylist, m[1], nil
	}
	if m := videoURLPattern.FindStringSubmatch(url); m != nil {
		return models.CourseSourceVideo, m[1], nil
	}
	return "", "", ErrInvalidYouTubeURL
}

// ParseISODuration converts an ISO-8601 "PT#H#M#S" duration to seconds.
func ParseISODuration(d string) int64 {
	m := isoDurationPattern.FindStringSubmatch(d)
	if m == nil {
		return 0
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	return hours*3600 + minutes*60 + seconds
}

// Data API response shapes (only the fields we read).

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   struct {
		High    ytThumbnail `json:"high"`
		Default ytThumbnail `json:"default"`
	} `json:"thumbnails"`
}

func (s ytSnippet) thumbnailURL() string {
	if s.Thumbnails.High.URL != "" {
		return s.Thumbnails.High.URL
	}
	return s.Thumbnails.Default.URL
}

type ytVideoItem struct {
	ID             string    `json:"id"`
	Snippet        ytSnippet `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
		VideoID  string `json:"videoId"`
	} `json:"contentDetails"`
}

type ytListResponse struct {
	Items []ytVideoItem `json:"items"`
}

// ImportCourse resolves a pasted URL to a single-video or playlist course and
// materializes the Course and Lesson rows in one transaction.
func (s *YouTubeService) ImportCourse(ctx context.Context, externalUserID, url string) (*models.Course, error) {
	sourceType, sourceID, err := ParseCourseURL(url)
	if err != nil {
		return nil, err
	}

	var course *models.Course
	switch sourceType {
	case models.CourseSourcePlaylist:
		course, err = s.fetchPlaylistCourse(ctx, sourceID)
	default:
		course, err = s.fetchVideoCourse(ctx, sourceID)
	}
	if err != nil {
		return nil, err
	}

	course.ImportedBy = externalUserID
	course.Slug = uniqueSlug(course.Title)
	course.ThumbnailURL = s.mirrorThumbnail(ctx, course.ThumbnailURL)

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		lessons := course.Lessons
		course.Lessons = nil
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range lessons {
			lessons[i].CourseID = course.ID
			if err := tx.Create(&lessons[i]).Error; err != nil {
				return err
			}
		}
		course.Lessons = lessons
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to persist course: %w", err)
	}

	log.Printf("📥 Imported %s course %q (%d lessons)", course.SourceType, course.Title, len(course.Lessons))
	return course, nil
}

func (s *YouTubeService) fetchVideoCourse(ctx context.Context, videoID string) (*models.Course, error) {
	var resp ytListResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,contentDetails",
			"id":   videoID,
		}).
		SetResult(&resp).
		Get("/videos")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("YouTube API returned status %d", res.StatusCode())
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	duration := ParseISODuration(item.ContentDetails.Duration)

	return &models.Course{
		Title:              item.Snippet.Title,
		Description:        item.Snippet.Description,
		ThumbnailURL:       item.Snippet.thumbnailURL(),
		DurationSeconds:    duration,
		SourceType:         models.CourseSourceVideo,
		YouTubeChannelID:   item.Snippet.ChannelID,
		YouTubeChannelName: item.Snippet.ChannelTitle,
		Lessons: []models.Lesson{{
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			YouTubeVideoID:  videoID,
			ThumbnailURL:    item.Snippet.thumbnailURL(),
			DurationSeconds: duration,
			OrderIndex:      0,
			PointsReward:    models.DefaultPointsReward,
		}},
	}, nil
}

func (s *YouTubeService) fetchPlaylistCourse(ctx context.Context, playlistID string) (*models.Course, error) {
	var playlistResp ytListResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet",
			"id":   playlistID,
		}).
		SetResult(&playlistResp).
		Get("/playlists")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist metadata: %w", err)
	}
	if res.IsError() || len(playlistResp.Items) == 0 {
		return nil, fmt.Errorf("playlist %s not found", playlistID)
	}
	playlist := playlistResp.Items[0]

	var itemsResp ytListResponse
	res, err = s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet,contentDetails",
			"playlistId": playlistID,
			"maxResults": "50",
		}).
		SetResult(&itemsResp).
		Get("/playlistItems")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("YouTube API returned status %d", res.StatusCode())
	}

	videoIDs := make([]string, 0, len(itemsResp.Items))
	for _, item := range itemsResp.Items {
		if item.ContentDetails.VideoID != "" {
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
		}
	}

	// Durations only come from the videos endpoint.
	var detailsResp ytListResponse
	res, err = s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,contentDetails",
			"id":   strings.Join(videoIDs, ","),
		}).
		SetResult(&detailsResp).
		Get("/videos")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video details: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("YouTube API returned status %d", res.StatusCode())
	}

	var totalDuration int64
	lessons := make([]models.Lesson, 0, len(detailsResp.Items))
	for i, video := range detailsResp.Items {
		duration := ParseISODuration(video.ContentDetails.Duration)
		totalDuration += duration
		lessons = append(lessons, models.Lesson{
			Title:           video.Snippet.Title,
			Description:     video.Snippet.Description,
			YouTubeVideoID:  video.ID,
			ThumbnailURL:    video.Snippet.thumbnailURL(),
			DurationSeconds: duration,
			OrderIndex:      i,
			PointsReward:    models.DefaultPointsReward,
		})
	}

	pid := playlistID
	return &models.Course{
		Title:              playlist.Snippet.Title,
		Description:        playlist.Snippet.Description,
		ThumbnailURL:       playlist.Snippet.thumbnailURL(),
		DurationSeconds:    totalDuration,
		SourceType:         models.CourseSourcePlaylist,
		YouTubePlaylistID:  &pid,
		YouTubeChannelID:   playlist.Snippet.ChannelID,
		YouTubeChannelName: playlist.Snippet.ChannelTitle,
		Lessons:            lessons,
	}, nil
}

// mirrorThumbnail copies the thumbnail into R2 and returns the CDN URL.
// Best-effort: any failure keeps the original YouTube URL.
func (s *YouTubeService) mirrorThumbnail(ctx context.Context, thumbnailURL string) string {
	if thumbnailURL == "" || !utils.R2Enabled() {
		return thumbnailURL
	}

	res, err := resty.NewWithClient(utils.HTTPClient).R().SetContext(ctx).Get(thumbnailURL)
	if err != nil || res.IsError() {
		log.Printf("⚠️  thumbnail fetch failed, keeping origin URL: %v", err)
		return thumbnailURL
	}

	key := fmt.Sprintf("thumbnails/%s.jpg", uuid.NewString())
	contentType := res.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	cdnURL, err := utils.MirrorThumbnail(ctx, key, res.Body(), contentType)
	if err != nil {
		log.Printf("⚠️  thumbnail mirror failed, keeping origin URL: %v", err)
		return thumbnailURL
	}
	return cdnURL
}

// uniqueSlug derives a URL slug from the title with a short random suffix so
// re-imports of the same video never collide.
func uniqueSlug(title string) string {
	base := slug.Make(title)
	if len(base) > 60 {
		base = base[:60]
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}
