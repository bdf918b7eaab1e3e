package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	choices "github.com/goliatone/go-choices"
	"github.com/goliatone/go-choices/pkg/remote"
	"github.com/google/go-cmp/cmp"
)

func TestFetchSendsWindowAndDecodesPage(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"search": r.URL.Query().Get("search"),
			"offset": r.URL.Query().Get("offset"),
			"limit":  r.URL.Query().Get("limit"),
			"token":  r.Header.Get("X-Token"),
		}
		_, _ = w.Write([]byte(`{"total": 3, "result": [{"id": 1, "text": "One"}, "two", {"id": 9007199254740993, "text": "Big"}]}`))
	}))
	defer server.Close()

	client := remote.New(server.URL, remote.WithHeader("X-Token", "secret"))
	page, err := client.Fetch(context.Background(), "o*", 100, 50)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	wantQuery := map[string]string{"search": "o*", "offset": "100", "limit": "50", "token": "secret"}
	if diff := cmp.Diff(wantQuery, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if page.Total == nil || *page.Total != 3 {
		t.Fatalf("expected total 3, got %v", page.Total)
	}
	ids := make([]string, 0, len(page.Result))
	for _, opt := range page.Result {
		ids = append(ids, opt.ID.String())
	}
	if diff := cmp.Diff([]string{"1", "two", "9007199254740993"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if page.Result[1].Text != "two" {
		t.Fatalf("expected scalar shorthand text, got %q", page.Result[1].Text)
	}
}

func TestFetchDropsNonNumericTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total": "lots", "result": []}`))
	}))
	defer server.Close()

	page, err := remote.New(server.URL).Fetch(context.Background(), "", 0, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Total != nil {
		t.Fatalf("expected total to be dropped, got %d", *page.Total)
	}
}

func TestFetchRejectsNonListResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total": 1, "result": {"id": 1}}`))
	}))
	defer server.Close()

	_, err := remote.New(server.URL).Fetch(context.Background(), "", 0, 10)
	if !errors.Is(err, choices.ErrMalformedFetchResult) {
		t.Fatalf("expected ErrMalformedFetchResult, got %v", err)
	}
}

func TestFetchReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := remote.New(server.URL).Fetch(context.Background(), "", 0, 10)
	var statusErr *remote.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
	if statusErr.Body != "nope" {
		t.Fatalf("expected body in error, got %q", statusErr.Body)
	}
}

func TestResolvePostsIDs(t *testing.T) {
	var body struct {
		IDs []choices.OptionID `json:"ids"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/options/resolve" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result": [{"id": "fr", "text": "France"}]}`))
	}))
	defer server.Close()

	client := remote.New(server.URL + "/options/")
	got, err := client.Resolve(context.Background(), []choices.OptionID{choices.StringID("fr"), choices.IntID(7)})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(body.IDs) != 2 || body.IDs[0] != choices.StringID("fr") || body.IDs[1] != choices.IntID(7) {
		t.Fatalf("unexpected ids sent: %v", body.IDs)
	}
	if len(got) != 1 || got[0].Text != "France" {
		t.Fatalf("unexpected resolve result: %+v", got)
	}
}

func TestClientDrivesController(t *testing.T) {
	options := []map[string]any{{"id": 1, "text": "Alpha"}, {"id": 2, "text": "Beta"}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"total": len(options), "result": options})
	}))
	defer server.Close()

	ctrl := choices.New(choices.Params{AutoSelect: choices.Bool(false)},
		choices.WithFetcher(remote.New(server.URL)),
		choices.WithRegistry(choices.NewRegistry()),
	)
	defer ctrl.Close()

	ctrl.Commit(choices.Open(true))
	ctrl.Wait()

	items := ctrl.FilteredOptions()
	if len(items) != 2 || items[0].Text != "Alpha" || items[1].Text != "Beta" {
		t.Fatalf("unexpected filtered options: %+v", items)
	}
	if totals := ctrl.Totals(); totals.All != 2 {
		t.Fatalf("expected total 2, got %v", totals.All)
	}
}
