package pumpstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a LaunchStream backed by the Pump.fun-style launchpad
// WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new launchpad LaunchStream.
func New(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.LaunchStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?api-key=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("pumpstream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("pumpstream: connected")
	return nil
}

// Subscribe subscribes to the new-token event channel.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("pumpstream not connected")
	}
	msg := map[string]string{"method": "subscribeNewToken"}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe new tokens: %w", err)
	}
	log.Printf("pumpstream: subscribed new tokens")
	return nil
}

type launchFrame struct {
	TxType    string  `json:"txType"`
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Timestamp int64   `json:"timestamp"` // ms
	Price     float64 `json:"initialPrice"`
	Liquidity float64 `json:"vSolInBondingCurve"`
	MarketCap float64 `json:"marketCapSol"`
}

// Read streams NewTokenEvents and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.NewTokenEvent, <-chan error) {
	events := make(chan *models.NewTokenEvent, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("pumpstream conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("pumpstream read: %w", err)
					return
				}
				var f launchFrame
				if err := json.Unmarshal(b, &f); err != nil {
					// ignore non-launch frames
					continue
				}
				if f.TxType != "create" || f.Mint == "" {
					continue
				}
				created := time.Now()
				if f.Timestamp > 0 {
					created = time.UnixMilli(f.Timestamp)
				}
				ev := &models.NewTokenEvent{
					Address:          f.Mint,
					Symbol:           f.Symbol,
					Name:             f.Name,
					CreatedAt:        created,
					InitialPrice:     f.Price,
					InitialLiquidity: f.Liquidity,
					InitialMcap:      f.MarketCap,
				}
				select {
				case events <- ev:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
