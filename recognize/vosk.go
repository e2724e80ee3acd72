package recognize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	voskChunkSize   = 8000
	voskDialTimeout = 5 * time.Second
)

// Client streams WAV audio to a vosk-server over websocket and returns the
// final transcript.
type Client struct {
	URL        string
	SampleRate int

	dialer *websocket.Dialer
	log    *zap.Logger
}

func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		SampleRate: 16000,
		dialer: &websocket.Dialer{
			HandshakeTimeout: voskDialTimeout,
		},
		log: zap.NewNop(),
	}
}

func (c *Client) SetLogger(log *zap.Logger) {
	c.log = log
}

type voskConfig struct {
	SampleRate int `json:"sample_rate"`
}

type voskResponse struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// Recognize sends one utterance and reads back the final hypothesis. Partial
// hypotheses the server emits along the way are discarded here; interim
// feedback is produced per capture window by the session instead.
func (c *Client) Recognize(wav []byte) (string, error) {
	conn, _, err := c.dialer.Dial(c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer conn.Close()

	cfg, _ := json.Marshal(struct {
		Config voskConfig `json:"config"`
	}{Config: voskConfig{SampleRate: c.SampleRate}})
	if err := conn.WriteMessage(websocket.TextMessage, cfg); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	for off := 0; off < len(wav); off += voskChunkSize {
		end := off + voskChunkSize
		if end > len(wav) {
			end = len(wav)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, wav[off:end]); err != nil {
			return "", fmt.Errorf("write audio: %w", err)
		}
		// the server acknowledges every chunk with a partial result
		if _, _, err := conn.ReadMessage(); err != nil {
			return "", fmt.Errorf("read partial: %w", err)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"eof" : 1}`)); err != nil {
		return "", fmt.Errorf("write eof: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("read result: %w", err)
	}

	var resp voskResponse
	if err := json.Unmarshal(msg, &resp); err != nil {
		return "", fmt.Errorf("decode result: %w", err)
	}
	c.log.Debug("vosk recognized", zap.String("text", resp.Text))

	return resp.Text, nil
}
