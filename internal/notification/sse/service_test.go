package sse

import (
	"testing"

	"github.com/google/uuid"

	"clientbase/platform/logger"
)

func TestNotifyCompany_DeliversToCompanyConnections(t *testing.T) {
	s := New(logger.New("test"))
	companyID := uuid.New()
	otherID := uuid.New()

	mine := &conn{companyID: companyID, events: make(chan Event, 4)}
	other := &conn{companyID: otherID, events: make(chan Event, 4)}
	s.addConn(mine)
	s.addConn(other)

	s.NotifyCompany(companyID, EventValidationUpdated, map[string]string{"clientId": "abc"})

	select {
	case event := <-mine.events:
		if event.Type != EventValidationUpdated {
			t.Fatalf("unexpected event type %q", event.Type)
		}
	default:
		t.Fatal("expected event delivered to company connection")
	}
	select {
	case <-other.events:
		t.Fatal("event must not leak to another company")
	default:
	}
}

func TestNotifyCompany_FullBufferDropsEvent(t *testing.T) {
	s := New(logger.New("test"))
	companyID := uuid.New()

	c := &conn{companyID: companyID, events: make(chan Event, 1)}
	s.addConn(c)

	s.NotifyCompany(companyID, EventValidationUpdated, nil)
	s.NotifyCompany(companyID, EventValidationUpdated, nil)

	<-c.events
	select {
	case <-c.events:
		t.Fatal("second event must have been dropped")
	default:
	}
}

func TestNotifyCompany_ConcurrentDisconnectDoesNotPanic(t *testing.T) {
	s := New(logger.New("test"))
	companyID := uuid.New()

	for i := 0; i < 500; i++ {
		c := &conn{companyID: companyID, events: make(chan Event, 1)}
		s.addConn(c)

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.removeConn(c)
		}()
		s.NotifyCompany(companyID, EventValidationUpdated, nil)
		<-done
	}
}

func TestClose_ThenDisconnectClosesOnce(t *testing.T) {
	s := New(logger.New("test"))

	c := &conn{companyID: uuid.New(), events: make(chan Event, 1)}
	s.addConn(c)

	s.Close()
	s.removeConn(c)

	if _, ok := <-c.events; ok {
		t.Fatal("expected channel closed")
	}
}

func TestRemoveConn_ThenNotifyIsNoop(t *testing.T) {
	s := New(logger.New("test"))
	companyID := uuid.New()

	c := &conn{companyID: companyID, events: make(chan Event, 1)}
	s.addConn(c)
	s.removeConn(c)

	s.NotifyCompany(companyID, EventValidationUpdated, nil)
}
