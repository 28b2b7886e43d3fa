package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		ChatModel:       "gpt-4o",
		SpeechModel:     "tts-1",
		TranscribeModel: "whisper-1",
		Voice:           "alloy",
		Timeout:         5 * time.Second,
		MaxRetries:      maxRetries,
	}, zap.NewNop())
	return client, srv
}

func TestTranslate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatReply("  hola mundo\n")))
	}, 0)

	translated, err := client.Translate(context.Background(), "en", "es", "hello world")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translated != "hola mundo" {
		t.Errorf("Expected trimmed translation, got %q", translated)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("Expected chat model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("Expected system+user messages, got %d", len(gotReq.Messages))
	}
}

func TestDetectLanguage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("en\n")))
	}, 0)

	lang, err := client.DetectLanguage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("DetectLanguage failed: %v", err)
	}
	if lang != "en" {
		t.Errorf("Expected en, got %q", lang)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(chatReply("ok")))
	}, 2)

	got, err := client.Translate(context.Background(), "en", "es", "x")
	if err != nil {
		t.Fatalf("Expected retry to succeed: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected ok, got %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestNoSleepAfterFinalAttempt(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "still down", http.StatusBadGateway)
	}, 0)

	start := time.Now()
	_, err := client.Translate(context.Background(), "en", "es", "x")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	// The backoff starts at one second; a failed final attempt must
	// return without waiting it out.
	if elapsed >= time.Second {
		t.Errorf("Expected immediate return after final attempt, took %v", elapsed)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}, 3)

	if _, err := client.Translate(context.Background(), "en", "es", "x"); err == nil {
		t.Fatal("Expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected a single call for a 4xx, got %d", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Translate(ctx, "en", "es", "x")
	if err == nil {
		t.Fatal("Expected error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Retries outlived the context: %v", elapsed)
	}
}

func TestTextToSpeech(t *testing.T) {
	audio := []byte{0xff, 0xfb, 0x90, 0x00}
	var gotReq speechRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write(audio)
	}, 0)

	got, err := client.TextToSpeech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("TextToSpeech failed: %v", err)
	}
	if string(got) != string(audio) {
		t.Error("Audio bytes altered in transit")
	}
	if gotReq.Voice != "alloy" || gotReq.Model != "tts-1" || gotReq.ResponseFormat != "mp3" {
		t.Errorf("Unexpected speech request: %+v", gotReq)
	}
}

func TestSpeechToText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("Expected whisper-1, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Expected file part: %v", err)
		}
		file.Close()
		if header.Filename != "clip.mp3" {
			t.Errorf("Expected clip.mp3, got %q", header.Filename)
		}
		w.Write([]byte(`{"text":"hello there"}`))
	}, 0)

	text, err := client.SpeechToText(context.Background(), []byte{1, 2, 3}, "clip.mp3")
	if err != nil {
		t.Fatalf("SpeechToText failed: %v", err)
	}
	if text != "hello there" {
		t.Errorf("Expected transcription, got %q", text)
	}
}

func TestChatResponseWithoutChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}, 0)

	if _, err := client.Translate(context.Background(), "en", "es", "x"); err == nil {
		t.Error("Expected error for empty choices")
	}
}
