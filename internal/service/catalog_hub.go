package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/pkg/logger"
	"sat_practice_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	shardCount     = 32
	rerunDelay     = 500 * time.Millisecond
	queryTimeout   = 5 * time.Second
)

// Client message types.
const (
	MsgSubscribe   = "SUBSCRIBE"
	MsgUnsubscribe = "UNSUBSCRIBE"
)

// Server message types.
const (
	MsgCatalogPage = "CATALOG_PAGE"
	MsgError       = "ERROR"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wsOut struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CatalogPage is pushed to a subscriber whenever its query is (re)run.
type CatalogPage struct {
	State   catalog.ViewState       `json:"state"`
	Query   catalog.QueryRequest    `json:"query"`
	Domains []model.Domain          `json:"domains"`
	Skills  []model.Skill           `json:"skills"`
	Rows    []model.QuestionSummary `json:"rows"`
	HasMore bool                    `json:"hasMore"`
	Count   CountResult             `json:"count"`
}

type Client struct {
	Hub     *CatalogHub
	Conn    *websocket.Conn
	Send    chan []byte
	ID      string
	Limiter *rate.Limiter

	mu    sync.Mutex
	state *catalog.ViewState
}

func (c *Client) subscription() (catalog.ViewState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return catalog.ViewState{}, false
	}
	return *c.state, true
}

func (c *Client) setSubscription(s *catalog.ViewState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("clientId", c.ID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.Hub.sendError(c, "malformed message")
			continue
		}

		switch msg.Type {
		case MsgSubscribe:
			var state catalog.ViewState
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, &state); err != nil {
					c.Hub.sendError(c, "malformed view state")
					continue
				}
			}
			state = state.Reconcile(model.SAT)
			c.setSubscription(&state)
			c.Hub.runQuery(c)
		case MsgUnsubscribe:
			c.setSubscription(nil)
		default:
			c.Hub.sendError(c, "unknown message type: "+msg.Type)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// CatalogHub keeps live catalog subscriptions. A client subscribes with its
// view state; the hub derives the query, runs it and pushes the page, then
// re-runs every subscription after each catalog change.
type CatalogHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	changed    chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	Catalog    *CatalogService
}

func NewCatalogHub(catalogSvc *CatalogService) *CatalogHub {
	h := &CatalogHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		Catalog:    catalogSvc,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[string]*Client),
		}
	}
	catalogSvc.OnChange(h.Invalidate)
	return h
}

func (h *CatalogHub) getShard(id string) *shard {
	f := fnv.New32a()
	f.Write([]byte(id))
	return h.shards[f.Sum32()%shardCount]
}

// Invalidate schedules a re-run of every subscription. Calls within the
// re-run delay are coalesced.
func (h *CatalogHub) Invalidate() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *CatalogHub) Run(ctx context.Context) {
	timer := time.NewTimer(rerunDelay)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return

		case client := <-h.register:
			s := h.getShard(client.ID)
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			monitoring.CatalogHubClients.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.ID)
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.Send)
				monitoring.CatalogHubClients.Dec()
			}
			s.mu.Unlock()

		case <-h.changed:
			if !pending {
				timer.Reset(rerunDelay)
				pending = true
			}

		case <-timer.C:
			pending = false
			h.rerunAll()
		}
	}
}

func (h *CatalogHub) rerunAll() {
	var subscribed []*Client
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for _, client := range s.clients {
			if _, ok := client.subscription(); ok {
				subscribed = append(subscribed, client)
			}
		}
		s.mu.RUnlock()
	}
	for _, c := range subscribed {
		go h.runQuery(c)
	}
	if len(subscribed) > 0 {
		logger.Log.Debug("Re-ran catalog subscriptions", zap.Int("count", len(subscribed)))
	}
}

// Page runs list and count for a view state.
func (h *CatalogHub) Page(ctx context.Context, state catalog.ViewState) (CatalogPage, error) {
	q := catalog.DeriveQuery(state)
	list, err := h.Catalog.List(ctx, q)
	if err != nil {
		return CatalogPage{}, err
	}
	count, err := h.Catalog.Count(ctx, q.Filters)
	if err != nil {
		return CatalogPage{}, err
	}
	return CatalogPage{
		State:   state,
		Query:   q,
		Domains: state.AvailableDomains(model.SAT),
		Skills:  state.AvailableSkills(model.SAT),
		Rows:    list.Rows,
		HasMore: list.HasMore,
		Count:   count,
	}, nil
}

func (h *CatalogHub) runQuery(c *Client) {
	state, ok := c.subscription()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	page, err := h.Page(ctx, state)
	if err != nil {
		logger.Log.Warn("Catalog subscription query failed", zap.String("clientId", c.ID), zap.Error(err))
		h.sendError(c, err.Error())
		return
	}
	h.send(c, wsOut{Type: MsgCatalogPage, Data: page})
}

func (h *CatalogHub) sendError(c *Client, message string) {
	h.send(c, wsOut{Type: MsgError, Data: map[string]string{"message": message}})
}

// send drops the message when the client is gone or its buffer is full.
func (h *CatalogHub) send(c *Client, msg wsOut) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s := h.getShard(c.ID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// Stop closes every connection. It is called by Run when its context ends.
func (h *CatalogHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for id, client := range s.clients {
			close(client.Send)
			delete(s.clients, id)
			closed++
		}
		s.mu.Unlock()
	}
	monitoring.CatalogHubClients.Set(0)
	logger.Log.Info("CatalogHub stopped", zap.Int("closedConnections", closed))
}

func ServeWs(hub *CatalogHub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		ID:      model.GenerateUUID(),
		Limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
