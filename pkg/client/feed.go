package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

var ErrSignedOut = errors.New("not signed in")

// WatchFavorites streams the signed-in user's favorite changes to fn until ctx ends or the
// connection drops.
func (c *Client) WatchFavorites(ctx context.Context, fn func(FavoriteEvent)) error {
	token := c.session.Token()
	if token == "" {
		return ErrSignedOut
	}
	wsURL := c.baseURL + "/ws/favorites?token=" + url.QueryEscape(token)
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			c.session.Invalidate()
			return &APIError{Status: resp.StatusCode, Message: "Unauthorized"}
		}
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev FavoriteEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(ev)
	}
}
