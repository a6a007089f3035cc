package agentengine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func testEngine(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		ProjectID: "proj",
		Location:  "europe-west1",
		EngineID:  "engine-1",
		Endpoint:  server.URL,
	}, testTokens(), server.Client())
}

func TestNewClientDefaultsStagingBucket(t *testing.T) {
	client := NewClient(Config{ProjectID: "p", Location: "l", EngineID: "e"}, testTokens(), nil)
	if client.cfg.StagingBucket != DefaultStagingBucket {
		t.Errorf("StagingBucket = %q, want %q", client.cfg.StagingBucket, DefaultStagingBucket)
	}

	custom := NewClient(Config{StagingBucket: "gs://elsewhere"}, testTokens(), nil)
	if custom.cfg.StagingBucket != "gs://elsewhere" {
		t.Errorf("explicit StagingBucket overridden: %q", custom.cfg.StagingBucket)
	}
}

func TestConfigResourceName(t *testing.T) {
	cfg := Config{ProjectID: "proj", Location: "europe-west1", EngineID: "engine-1"}
	want := "projects/proj/locations/europe-west1/reasoningEngines/engine-1"
	if got := cfg.ResourceName(); got != want {
		t.Errorf("ResourceName = %s, want %s", got, want)
	}
}

func TestGetFetchesEngineResource(t *testing.T) {
	var gotPath, gotAuth string
	client := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"name":"projects/proj/locations/europe-west1/reasoningEngines/engine-1","displayName":"weather"}`))
	})

	engine, err := client.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/v1/projects/proj/locations/europe-west1/reasoningEngines/engine-1" {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if engine.DisplayName != "weather" {
		t.Errorf("unexpected engine: %+v", engine)
	}
}

func TestCreateSessionQueryBody(t *testing.T) {
	var gotBody map[string]any
	client := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":query") {
			t.Errorf("expected :query call, got %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"output":{"id":"sess-1","userId":"test_user","state":{"turns":0}}}`))
	})

	session, err := client.CreateSession(context.Background(), "test_user")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID != "sess-1" {
		t.Errorf("session ID = %q, want sess-1", session.ID)
	}
	if session.State["turns"] != float64(0) {
		t.Errorf("session state not decoded: %v", session.State)
	}

	if gotBody["class_method"] != "create_session" {
		t.Errorf("class_method = %v, want create_session", gotBody["class_method"])
	}
	input, _ := gotBody["input"].(map[string]any)
	if input["user_id"] != "test_user" {
		t.Errorf("input.user_id = %v, want test_user", input["user_id"])
	}
}

func TestDeleteSessionQueryBody(t *testing.T) {
	var gotBody map[string]any
	client := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"output":{}}`))
	})

	if err := client.DeleteSession(context.Background(), "test_user", "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if gotBody["class_method"] != "delete_session" {
		t.Errorf("class_method = %v, want delete_session", gotBody["class_method"])
	}
	input, _ := gotBody["input"].(map[string]any)
	if input["session_id"] != "sess-1" {
		t.Errorf("input.session_id = %v, want sess-1", input["session_id"])
	}
}

func TestStreamQueryConsumesEvents(t *testing.T) {
	client := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":streamQuery") {
			t.Errorf("expected :streamQuery call, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("alt") != "sse" {
			t.Errorf("expected alt=sse, got %q", r.URL.RawQuery)
		}
		io.WriteString(w, `data: {"content":{"parts":[{"text":"Checking the weather."}]}}`+"\n\n")
		io.WriteString(w, `data: {"function_call":{"name":"get_weather","args":{"location":"London"}}}`+"\n\n")
		io.WriteString(w, `{"content":{"parts":[{"text":"It is sunny in London."}]}}`+"\n")
	})

	var events []Event
	err := client.StreamQuery(context.Background(), "test_user", "sess-1", "weather in London?", func(ev Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("StreamQuery: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if texts := events[0].Texts(); len(texts) != 1 || texts[0] != "Checking the weather." {
		t.Errorf("unexpected first event texts: %v", texts)
	}
	calls := events[1].FunctionCalls()
	if len(calls) != 1 || calls[0].Name != "get_weather" {
		t.Fatalf("unexpected function calls: %v", calls)
	}
	if calls[0].Args["location"] != "London" {
		t.Errorf("args = %v, want location London", calls[0].Args)
	}
	if len(events[2].Raw) == 0 {
		t.Error("raw event payload not preserved")
	}
}

func TestStreamQueryStatusError(t *testing.T) {
	client := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"message":"engine not found"}}`)
	})

	err := client.StreamQuery(context.Background(), "u", "s", "hi", nil)
	if err == nil {
		t.Fatal("expected an error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "engine not found") {
		t.Errorf("error should carry the response body, got: %v", err)
	}
}
