package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/pkg/cache"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
)

const (
	oauthURL  = "https://id.twitch.tv/oauth2/token"
	helixURL  = "https://api.twitch.tv/helix"
	tokenTTL  = 50 * time.Minute
	clipsDays = 7
)

// Clip Twitch 剪辑
type Clip struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	BroadcasterName string  `json:"broadcaster_name"`
	CreatorName     string  `json:"creator_name"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	Duration        float64 `json:"duration"`
	ViewCount       int     `json:"view_count"`
}

// Client Twitch Helix API 客户端
// OAuth token 缓存在 Redis，过期前复用
type Client struct {
	clientID     string
	clientSecret string
	cache        *cache.RedisCache
	httpClient   *http.Client
}

// NewClient 创建 Twitch 客户端
func NewClient(cfg *config.TwitchConfig, redisCache *cache.RedisCache) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("twitch client id and secret are required")
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		cache:        redisCache,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// token 取访问令牌，优先读缓存
func (c *Client) token(ctx context.Context) (string, error) {
	if c.cache != nil {
		if cached, err := c.cache.GetString(ctx, cache.TwitchTokenCacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitch oauth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("twitch oauth failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode oauth response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	if c.cache != nil {
		if err := c.cache.SetString(ctx, cache.TwitchTokenCacheKey, result.AccessToken, tokenTTL); err != nil {
			log.Warn().Err(err).Msg("缓存 twitch token 失败")
		}
	}
	return result.AccessToken, nil
}

// get 发送带认证的 Helix GET 请求
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, helixURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("helix request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("helix request failed: status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// GameID 按游戏名查游戏ID
func (c *Client) GameID(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("name", name)

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/games", q, &result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("game not found: %s", name)
	}
	return result.Data[0].ID, nil
}

// UserID 按登录名查主播ID
func (c *Client) UserID(ctx context.Context, login string) (string, error) {
	q := url.Values{}
	q.Set("login", login)

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/users", q, &result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("user not found: %s", login)
	}
	return result.Data[0].ID, nil
}

// GameClips 查询最近一周某游戏的热门剪辑
func (c *Client) GameClips(ctx context.Context, gameID string, limit int) ([]Clip, error) {
	q := url.Values{}
	q.Set("game_id", gameID)
	q.Set("first", strconv.Itoa(limit))
	q.Set("started_at", time.Now().AddDate(0, 0, -clipsDays).Format(time.RFC3339))
	return c.clips(ctx, q)
}

// BroadcasterClips 查询最近一周某主播的热门剪辑
func (c *Client) BroadcasterClips(ctx context.Context, broadcasterID string, limit int) ([]Clip, error) {
	q := url.Values{}
	q.Set("broadcaster_id", broadcasterID)
	q.Set("first", strconv.Itoa(limit))
	q.Set("started_at", time.Now().AddDate(0, 0, -clipsDays).Format(time.RFC3339))
	return c.clips(ctx, q)
}

func (c *Client) clips(ctx context.Context, q url.Values) ([]Clip, error) {
	var result struct {
		Data []Clip `json:"data"`
	}
	if err := c.get(ctx, "/clips", q, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// DownloadClip 下载剪辑到工作目录
// 剪辑源地址由缩略图地址裁掉 -preview 后缀得到
func (c *Client) DownloadClip(ctx context.Context, clip Clip, dir string) (string, error) {
	idx := strings.Index(clip.ThumbnailURL, "-preview")
	if idx == -1 {
		return "", fmt.Errorf("unexpected thumbnail url: %s", clip.ThumbnailURL)
	}
	mp4URL := clip.ThumbnailURL[:idx] + ".mp4"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mp4URL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download clip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download clip failed: status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, "images", id.NewHex()+".mp4")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create clip file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write clip file: %w", err)
	}

	log.Info().
		Str("clip_id", clip.ID).
		Str("path", path).
		Msg("twitch 剪辑下载完成")

	return path, nil
}
