// internal/chat/client.go
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"mediarelay/internal/common/config"
	commonhttp "mediarelay/internal/common/http"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

// Channel is the resolved form of a destination channel.
type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
}

// Client is the narrow chat-platform surface the pipeline depends on.
type Client interface {
	FetchChannel(ctx context.Context, channelID string) (*Channel, error)
	SendMessage(ctx context.Context, channelID string, msg *models.NotificationMessage) error
	SendText(ctx context.Context, channelID, content string) error
	SendFile(ctx context.Context, channelID, filename string, data []byte, comment string) error
}

// RestClient talks to the chat platform's REST API with a bot token.
type RestClient struct {
	http    *commonhttp.Client
	baseURL string
	token   string
	logger  logger.Logger
}

func NewRestClient(cfg config.ChatConfig, log logger.Logger) *RestClient {
	return &RestClient{
		http:    commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logger:  log.WithFields(map[string]interface{}{"component": "chat"}),
	}
}

// wire representation of an embed message.
type embed struct {
	Author      *embedAuthor    `json:"author,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       int             `json:"color,omitempty"`
	Fields      []embedField    `json:"fields,omitempty"`
	Thumbnail   *embedThumbnail `json:"thumbnail,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
	Footer      *embedFooter    `json:"footer,omitempty"`
}

type embedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedThumbnail struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

func toEmbed(msg *models.NotificationMessage) embed {
	e := embed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp.UTC().Format(time.RFC3339),
	}
	if msg.Author.Name != "" {
		e.Author = &embedAuthor{Name: msg.Author.Name, IconURL: msg.Author.IconURL}
	}
	for _, f := range msg.Fields {
		e.Fields = append(e.Fields, embedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if msg.ThumbnailURL != "" {
		e.Thumbnail = &embedThumbnail{URL: msg.ThumbnailURL}
	}
	if msg.Footer.Text != "" {
		e.Footer = &embedFooter{Text: msg.Footer.Text, IconURL: msg.Footer.IconURL}
	}
	return e
}

func (c *RestClient) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/channels/%s", c.baseURL, channelID), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch channel %s: status %d", channelID, resp.StatusCode)
	}

	var ch Channel
	if err := json.NewDecoder(resp.Body).Decode(&ch); err != nil {
		return nil, fmt.Errorf("decode channel %s: %w", channelID, err)
	}
	return &ch, nil
}

func (c *RestClient) SendMessage(ctx context.Context, channelID string, msg *models.NotificationMessage) error {
	body := map[string]interface{}{
		"embeds": []embed{toEmbed(msg)},
	}
	return c.postJSON(ctx, channelID, body)
}

func (c *RestClient) SendText(ctx context.Context, channelID, content string) error {
	return c.postJSON(ctx, channelID, map[string]interface{}{"content": content})
}

func (c *RestClient) postJSON(ctx context.Context, channelID string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send to channel %s: status %d", channelID, resp.StatusCode)
	}
	return nil
}

// SendFile uploads data as a file attachment with an optional comment.
func (c *RestClient) SendFile(ctx context.Context, channelID, filename string, data []byte, comment string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if comment != "" {
		payload, _ := json.Marshal(map[string]string{"content": comment})
		if err := w.WriteField("payload_json", string(payload)); err != nil {
			return err
		}
	}

	part, err := w.CreateFormFile("files[0]", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("upload to channel %s: %w", channelID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload to channel %s: status %d", channelID, resp.StatusCode)
	}
	return nil
}

func (c *RestClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bot "+c.token)
}
