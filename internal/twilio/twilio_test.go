package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clientbase/platform/logger"
)

func TestLookup_ReturnsCanonicalNumber(t *testing.T) {
	var gotPath, gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"phone_number": "+22990123456"}`))
	}))
	defer server.Close()

	client := NewLookupClient(time.Second, logger.New("test"))
	client.baseURL = server.URL

	number, err := client.Lookup(context.Background(), "AC123", "token", "+22990123456")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if number != "+22990123456" {
		t.Fatalf("expected canonical number, got %q", number)
	}
	if gotPath != "/+22990123456" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "token" {
		t.Fatal("expected basic auth with account credentials")
	}
}

func TestLookup_NotFoundIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status": 404}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewLookupClient(time.Second, logger.New("test"))
	client.baseURL = server.URL

	if _, err := client.Lookup(context.Background(), "AC123", "token", "+10000000000"); err == nil {
		t.Fatal("expected error for unknown number")
	}
}

func TestLookup_MissingPhoneNumberIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewLookupClient(time.Second, logger.New("test"))
	client.baseURL = server.URL

	if _, err := client.Lookup(context.Background(), "AC123", "token", "+22990123456"); err == nil {
		t.Fatal("expected error for empty phone_number")
	}
}

func TestSendWhatsapp_FreeFormBody(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = map[string]string{
			"From":       r.PostFormValue("From"),
			"To":         r.PostFormValue("To"),
			"Body":       r.PostFormValue("Body"),
			"ContentSid": r.PostFormValue("ContentSid"),
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM123"}`))
	}))
	defer server.Close()

	client := NewMessagesClient(logger.New("test"))
	client.baseURL = server.URL

	err := client.SendWhatsapp(context.Background(), WhatsappSend{
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "+22960000000",
		To:         "90123456",
		Body:       "hello",
	})
	if err != nil {
		t.Fatalf("SendWhatsapp: %v", err)
	}

	if gotForm["From"] != "whatsapp:+22960000000" {
		t.Fatalf("unexpected From %q", gotForm["From"])
	}
	if gotForm["To"] != "whatsapp:+22990123456" {
		t.Fatalf("expected To normalized to E.164, got %q", gotForm["To"])
	}
	if gotForm["Body"] != "hello" || gotForm["ContentSid"] != "" {
		t.Fatalf("expected free-form body, got %+v", gotForm)
	}
}

func TestSendWhatsapp_ContentTemplate(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = map[string]string{
			"Body":             r.PostFormValue("Body"),
			"ContentSid":       r.PostFormValue("ContentSid"),
			"ContentVariables": r.PostFormValue("ContentVariables"),
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM123"}`))
	}))
	defer server.Close()

	client := NewMessagesClient(logger.New("test"))
	client.baseURL = server.URL

	err := client.SendWhatsapp(context.Background(), WhatsappSend{
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "+22960000000",
		To:         "+22990123456",
		Body:       "hello",
		ContentSID: "HX456",
	})
	if err != nil {
		t.Fatalf("SendWhatsapp: %v", err)
	}

	if gotForm["ContentSid"] != "HX456" {
		t.Fatalf("expected content sid, got %q", gotForm["ContentSid"])
	}
	if gotForm["ContentVariables"] != `{"1":"hello"}` {
		t.Fatalf("expected body as first template variable, got %q", gotForm["ContentVariables"])
	}
	if gotForm["Body"] != "" {
		t.Fatal("content template sends must not carry a free-form body")
	}
}

func TestSendWhatsapp_APIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code": 63016}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewMessagesClient(logger.New("test"))
	client.baseURL = server.URL

	err := client.SendWhatsapp(context.Background(), WhatsappSend{
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "+22960000000",
		To:         "+22990123456",
		Body:       "hello",
	})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
}
