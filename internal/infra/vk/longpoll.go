package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// UpdateHandler receives each inbound message event exactly once.
type UpdateHandler interface {
	HandleMessage(ctx context.Context, senderID, peerID int64, text string)
}

// LongPoller runs the Bots Long Poll loop and fans updates out to a fixed
// pool of worker goroutines, so one slow conversation cannot stall the rest.
type LongPoller struct {
	client  *Client
	handler UpdateHandler
	workers int
	log     *zerolog.Logger
}

func NewLongPoller(client *Client, handler UpdateHandler, workers int, logger *zerolog.Logger) *LongPoller {
	if workers <= 0 {
		workers = 5
	}
	l := logger.With().Str("component", "LongPoller").Logger()
	return &LongPoller{client: client, handler: handler, workers: workers, log: &l}
}

type longPollServer struct {
	Key    string `json:"key"`
	Server string `json:"server"`
	TS     string `json:"ts"`
}

type longPollUpdate struct {
	Type   string `json:"type"`
	Object struct {
		Message struct {
			FromID int64  `json:"from_id"`
			PeerID int64  `json:"peer_id"`
			Text   string `json:"text"`
		} `json:"message"`
	} `json:"object"`
}

type longPollResponse struct {
	TS      string           `json:"ts"`
	Failed  int              `json:"failed"`
	Updates []longPollUpdate `json:"updates"`
}

type inbound struct {
	senderID int64
	peerID   int64
	text     string
}

// Run polls until ctx is canceled.
func (p *LongPoller) Run(ctx context.Context) error {
	srv, err := p.getServer(ctx)
	if err != nil {
		return fmt.Errorf("longpoll: get server: %w", err)
	}

	updateChan := make(chan inbound, 100)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case msg, ok := <-updateChan:
					if !ok {
						return
					}
					p.handler.HandleMessage(ctx, msg.senderID, msg.peerID, msg.text)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	p.log.Info().Int("workers", p.workers).Msg("long poll started")

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		default:
		}

		resp, err := p.check(ctx, srv)
		if err != nil {
			if ctx.Err() != nil {
				close(updateChan)
				wg.Wait()
				return ctx.Err()
			}
			p.log.Warn().Err(err).Msg("long poll check failed, retrying")
			time.Sleep(3 * time.Second)
			continue
		}

		switch resp.Failed {
		case 0:
			srv.TS = resp.TS
		case 1:
			// History is out of date; just adopt the new ts.
			srv.TS = resp.TS
			continue
		default:
			// Key expired or info lost: re-acquire the server.
			metrics.IncLongPollRestart()
			srv, err = p.getServer(ctx)
			if err != nil {
				p.log.Warn().Err(err).Msg("long poll server re-acquisition failed")
				time.Sleep(3 * time.Second)
			}
			continue
		}

		for _, u := range resp.Updates {
			if u.Type != "message_new" {
				continue
			}
			m := u.Object.Message
			if m.FromID <= 0 || m.Text == "" {
				continue
			}
			select {
			case updateChan <- inbound{senderID: m.FromID, peerID: m.PeerID, text: m.Text}:
			case <-ctx.Done():
			}
		}
	}
}

func (p *LongPoller) getServer(ctx context.Context) (*longPollServer, error) {
	raw, err := p.client.call(ctx, "groups.getLongPollServer", url.Values{
		"group_id": {strconv.FormatInt(p.client.groupID, 10)},
	})
	if err != nil {
		return nil, err
	}
	var srv longPollServer
	if err := json.Unmarshal(raw, &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

func (p *LongPoller) check(ctx context.Context, srv *longPollServer) (*longPollResponse, error) {
	q := url.Values{
		"act":  {"a_check"},
		"key":  {srv.Key},
		"ts":   {srv.TS},
		"wait": {"25"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.Server+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out longPollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
