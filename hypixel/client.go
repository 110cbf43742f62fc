// hypixel/client.go
package hypixel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.hypixel.net"

// Client talks to the Hypixel public API. The API is rate limited per
// token, which is why the report worker only fetches one profile per
// tick instead of bursting a whole roster.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchGuild loads the guild snapshot (member list + rank list) by the
// game-side guild id.
func (c *Client) FetchGuild(ctx context.Context, guildID string) (*Guild, error) {
	var reply GuildReply
	if err := c.get(ctx, "/guild", url.Values{"id": {guildID}}, &reply); err != nil {
		return nil, err
	}
	if !reply.Success || reply.Guild == nil {
		return nil, fmt.Errorf("guild %s lookup failed: %s", guildID, reply.Cause)
	}
	return reply.Guild, nil
}

// FetchSelectedProfile loads the player's profiles and returns the one
// the player currently has selected, falling back to the first profile
// when none is flagged.
func (c *Client) FetchSelectedProfile(ctx context.Context, playerUUID string) (*Profile, error) {
	var reply ProfilesReply
	if err := c.get(ctx, "/skyblock/profiles", url.Values{"uuid": {playerUUID}}, &reply); err != nil {
		return nil, err
	}
	if !reply.Success {
		return nil, fmt.Errorf("profile lookup for %s failed: %s", playerUUID, reply.Cause)
	}
	if len(reply.Profiles) == 0 {
		return nil, fmt.Errorf("player %s has no SkyBlock profiles", playerUUID)
	}

	for _, profile := range reply.Profiles {
		if profile.Selected {
			return profile, nil
		}
	}
	return reply.Profiles[0], nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.BaseURL+path, err)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", endpoint, err)
	}
	req.Header.Set("API-Key", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("hypixel API request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("hypixel API returned %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode hypixel API response: %w", err)
	}
	return nil
}
