package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const yandexTTSURL = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"

// Client synthesizes speech with the Yandex SpeechKit v1 HTTP API,
// returning mp3 bytes.
type Client struct {
	URL      string
	APIKey   string
	FolderID string

	http *http.Client
	log  *zap.Logger
}

func NewClient(apiKey, folderID string) *Client {
	return &Client{
		URL:      yandexTTSURL,
		APIKey:   apiKey,
		FolderID: folderID,
		http:     &http.Client{},
		log:      zap.NewNop(),
	}
}

func (c *Client) SetLogger(log *zap.Logger) {
	c.log = log
}

// Voices lists the SpeechKit voices the client selects among.
func (c *Client) Voices() []Voice {
	return []Voice{
		{Name: "alena", Language: "ru-RU"},
		{Name: "filipp", Language: "ru-RU"},
		{Name: "jane", Language: "ru-RU"},
		{Name: "omazh", Language: "ru-RU"},
		{Name: "zahar", Language: "ru-RU"},
		{Name: "ermil", Language: "ru-RU"},
		{Name: "john", Language: "en-US"},
		{Name: "amira", Language: "kk-KK"},
		{Name: "madi", Language: "kk-KK"},
	}
}

func (c *Client) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	lang := req.Language
	if lang == "" {
		lang = "ru-RU"
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("lang", lang)
	form.Set("folderId", c.FolderID)
	form.Set("format", "mp3")
	if v := SelectVoice(c.Voices(), req.Voice, lang); v.Name != "" {
		form.Set("voice", v.Name)
	}
	if req.Rate > 0 {
		form.Set("speed", strconv.FormatFloat(req.Rate, 'f', 1, 64))
	}
	// pitch and volume have no v1 API parameter, playback applies them

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Api-Key "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesize: status %d: %s", resp.StatusCode, body)
	}
	c.log.Debug("synthesized", zap.Int("bytes", len(body)))

	return body, nil
}
