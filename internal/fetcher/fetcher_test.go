package fetcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideoClient struct {
	video     *youtube.Video
	videoErr  error
	content   string
	streamErr error
	requested *youtube.Format
}

func (f *fakeVideoClient) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.video, nil
}

func (f *fakeVideoClient) GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	f.requested = format
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	return io.NopCloser(strings.NewReader(f.content)), int64(len(f.content)), nil
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://example.com/video", "", true},
		{"short", "", true},
	}

	for _, tt := range tests {
		id, err := ExtractVideoID(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.expected, id)
	}
}

func TestFindBestAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Bitrate: 500000, AudioChannels: 2},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
		{ItagNo: 139, MimeType: `audio/mp4; codecs="mp4a.40.5"`, Bitrate: 48000, AudioChannels: 2},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 128000, AudioChannels: 2},
	}

	best := FindBestAudioFormat(formats)
	require.NotNil(t, best)
	assert.Equal(t, 140, best.ItagNo)

	videoOnly := youtube.FormatList{
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1"`},
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, AudioChannels: 2},
	}
	best = FindBestAudioFormat(videoOnly)
	require.NotNil(t, best)
	assert.Equal(t, 18, best.ItagNo)

	assert.Nil(t, FindBestAudioFormat(youtube.FormatList{{ItagNo: 137, MimeType: "video/mp4"}}))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".m4a", ExtensionFor(`audio/mp4; codecs="mp4a.40.2"`))
	assert.Equal(t, ".webm", ExtensionFor(`audio/webm; codecs="opus"`))
	assert.Equal(t, ".mp3", ExtensionFor("audio/mpeg"))
	assert.Equal(t, ".mp4", ExtensionFor(`video/mp4; codecs="avc1"`))
	assert.Equal(t, ".bin", ExtensionFor("application/x-unknown"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "AC_DC - Back In Black", SanitizeFileName("  AC/DC - Back In Black "))
	assert.Equal(t, "a_b_c_d", SanitizeFileName(`a<b>c?d`))
	assert.Len(t, []rune(SanitizeFileName(strings.Repeat("я", 300))), maxFileNameLen)
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	client := &fakeVideoClient{
		video: &youtube.Video{
			ID:     "dQw4w9WgXcQ",
			Title:  "Artist - Song: Live",
			Author: "Artist",
			Formats: youtube.FormatList{
				{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 128000, AudioChannels: 2},
			},
		},
		content: "audio bytes",
	}
	f := &Fetcher{client: client, dir: dir}

	var lastDone, lastTotal int64
	result, err := f.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", func(done, total int64) {
		lastDone, lastTotal = done, total
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Artist - Song_ Live.m4a"), result.Path)
	assert.Equal(t, int64(len("audio bytes")), result.Size)
	assert.Equal(t, 140, client.requested.ItagNo)
	assert.Equal(t, lastTotal, lastDone)

	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(content))
}

func TestDownloadErrors(t *testing.T) {
	dir := t.TempDir()

	f := &Fetcher{client: &fakeVideoClient{}, dir: dir}
	_, err := f.Download(context.Background(), "not a url", nil)
	assert.ErrorContains(t, err, "не удалось извлечь ID видео")

	f = &Fetcher{client: &fakeVideoClient{videoErr: errors.New("private video")}, dir: dir}
	_, err = f.Download(context.Background(), "dQw4w9WgXcQ", nil)
	assert.ErrorContains(t, err, "private video")

	f = &Fetcher{client: &fakeVideoClient{video: &youtube.Video{ID: "dQw4w9WgXcQ"}}, dir: dir}
	_, err = f.Download(context.Background(), "dQw4w9WgXcQ", nil)
	assert.ErrorIs(t, err, ErrNoAudioFormat)

	f = &Fetcher{client: &fakeVideoClient{
		video: &youtube.Video{ID: "dQw4w9WgXcQ", Formats: youtube.FormatList{
			{ItagNo: 140, MimeType: "audio/mp4", AudioChannels: 2},
		}},
		streamErr: errors.New("403"),
	}, dir: dir}
	_, err = f.Download(context.Background(), "dQw4w9WgXcQ", nil)
	assert.ErrorContains(t, err, "ошибка получения потока")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
