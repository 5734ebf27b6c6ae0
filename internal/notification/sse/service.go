// Package sse provides Server-Sent Events support for real-time dashboard
// updates. Streams are company-scoped: every connection belongs to exactly
// one company and only sees that company's events.
package sse

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clientbase/platform/httpkit"
	"clientbase/platform/logger"
)

// Events pushed over the stream.
const (
	EventValidationUpdated     = "client_validation_updated"
	EventCommunicationFinished = "communication_finished"
)

// Event is an SSE payload.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// conn represents one connected dashboard.
type conn struct {
	companyID uuid.UUID
	events    chan Event
	closed    bool
}

// closeLocked closes the event channel once. Callers hold the service mutex.
func (c *conn) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Service manages SSE connections and per-company broadcasting.
type Service struct {
	mu    sync.RWMutex
	conns map[uuid.UUID][]*conn
	log   *logger.Logger
}

// New creates a new SSE service.
func New(log *logger.Logger) *Service {
	return &Service{
		conns: make(map[uuid.UUID][]*conn),
		log:   log,
	}
}

func (s *Service) addConn(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.companyID] = append(s.conns[c.companyID], c)
}

func (s *Service) removeConn(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns := s.conns[c.companyID]
	for i, cc := range conns {
		if cc == c {
			s.conns[c.companyID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.conns[c.companyID]) == 0 {
		delete(s.conns, c.companyID)
	}

	c.closeLocked()
}

// NotifyCompany pushes an event to every connection of one company.
// A slow consumer's full buffer drops the event rather than blocking.
// Sends are non-blocking and happen under the read lock, so a
// disconnecting handler cannot close a channel mid-broadcast.
func (s *Service) NotifyCompany(companyID uuid.UUID, eventType string, payload interface{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event := Event{Type: eventType, Data: payload}
	for _, c := range s.conns[companyID] {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full, dropping event", "companyID", companyID, "event", eventType)
		}
	}
}

// Handler returns the Gin handler for the event stream.
// GET /api/v1/notifications/stream
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}
		companyID := identity.CompanyID()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cc := &conn{
			companyID: companyID,
			events:    make(chan Event, 32),
		}
		s.addConn(cc)
		defer s.removeConn(cc)

		c.SSEvent("connected", gin.H{"companyId": companyID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, ok := <-cc.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(event.Type, string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close drops all connections.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conns := range s.conns {
		for _, c := range conns {
			c.closeLocked()
		}
	}
	s.conns = make(map[uuid.UUID][]*conn)
}
