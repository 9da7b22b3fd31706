package sportsdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetSendsAPIKeyHeader(t *testing.T) {
	var gotKey, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-apisports-key")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"response":[{"fixture":{"id":100}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	matches, err := client.FixturesByLeague(context.Background(), 140, 2026)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotPath != "/fixtures" {
		t.Errorf("expected /fixtures, got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "league=140") || !strings.Contains(gotQuery, "season=2026") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(matches) != 1 || matches[0].Fixture.ID != 100 {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestGetNonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.FixturesByLeague(context.Background(), 140, 2026)
	if err == nil {
		t.Fatal("expected an error on 429")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
}

func TestLiveFixturesJoinsLeagueIDs(t *testing.T) {
	var gotLive string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLive = r.URL.Query().Get("live")
		w.Write([]byte(`{"response":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	ctx := context.Background()

	if _, err := client.LiveFixtures(ctx, nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotLive != "all" {
		t.Errorf("no leagues should request live=all, got %q", gotLive)
	}

	if _, err := client.LiveFixtures(ctx, []int64{140, 141}); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotLive != "140-141" {
		t.Errorf("expected live=140-141, got %q", gotLive)
	}
}

func TestOddsByFixtureConcatenatesBookmakers(t *testing.T) {
	body := `{"response":[
		{"fixture":{"id":100},"bookmakers":[{"id":1,"name":"A","bets":[]}]},
		{"fixture":{"id":100},"bookmakers":[{"id":2,"name":"B","bets":[]}]},
		{"fixture":{"id":999},"bookmakers":[{"id":3,"name":"C","bets":[]}]}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	bookmakers, err := client.OddsByFixture(context.Background(), 100)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(bookmakers) != 2 || bookmakers[0].Name != "A" || bookmakers[1].Name != "B" {
		t.Fatalf("expected bookmakers A and B for fixture 100, got %+v", bookmakers)
	}
}

func TestIsLiveStatuses(t *testing.T) {
	for _, code := range []string{"1H", "HT", "2H", "ET", "P", "LIVE"} {
		m := Match{Fixture: Fixture{Status: FixtureStatus{Short: code}}}
		if !m.IsLive() {
			t.Errorf("status %s should be live", code)
		}
	}
	for _, code := range []string{"NS", "FT", "PST", "CANC"} {
		m := Match{Fixture: Fixture{Status: FixtureStatus{Short: code}}}
		if m.IsLive() {
			t.Errorf("status %s should not be live", code)
		}
	}
}

func TestIsClosedStatuses(t *testing.T) {
	for _, code := range []string{"FT", "AET", "PEN", "PST", "CANC", "ABD", "AWD", "WO"} {
		m := Match{Fixture: Fixture{Status: FixtureStatus{Short: code}}}
		if !m.IsClosed() {
			t.Errorf("status %s should be closed", code)
		}
	}
	for _, code := range []string{"NS", "TBD", "1H", "HT", "2H"} {
		m := Match{Fixture: Fixture{Status: FixtureStatus{Short: code}}}
		if m.IsClosed() {
			t.Errorf("status %s should not be closed", code)
		}
	}
}
