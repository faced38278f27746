package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

func stubAPI(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": text}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientDisabledWithoutKey(t *testing.T) {
	c := NewClient("", "", "")
	if c != nil || c.Enabled() {
		t.Error("expected nil, disabled client")
	}
	if _, err := c.Complete(context.Background(), "", "hi", 10); err != ErrDisabled {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	srv := stubAPI(t, http.StatusOK, "ok")
	c := NewClient("key", srv.URL, "")
	c.maxPerMin = 1
	if _, err := c.Complete(context.Background(), "", "a", 10); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := c.Complete(context.Background(), "", "b", 10); err != ErrRateLimited {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestDescribeSearchRemote(t *testing.T) {
	srv := stubAPI(t, http.StatusOK, "```json\n{\"description\":\"A hoard!\",\"gold\":9000,\"food\":-5}\n```")
	s := NewService(NewClient("key", srv.URL, ""), kingdoms.DefaultRules(), kingdoms.NewRand(1))

	res := s.DescribeSearch(context.Background(), kingdoms.SearchQuery{CityName: "Ye", GeneralName: "Zhang He"})
	if res.Description != "A hoard!" {
		t.Errorf("unexpected description %q", res.Description)
	}
	if res.Gold != 300 || res.Food != 0 {
		t.Errorf("expected rewards clamped to 300/0, got %d/%d", res.Gold, res.Food)
	}
}

func TestDescribeSearchFallsBackOnError(t *testing.T) {
	srv := stubAPI(t, http.StatusInternalServerError, "boom")
	s := NewService(NewClient("key", srv.URL, ""), kingdoms.DefaultRules(), kingdoms.NewRand(1))

	res := s.DescribeSearch(context.Background(), kingdoms.SearchQuery{CityName: "Ye", GeneralName: "Zhang He"})
	if res.Description == "" {
		t.Error("expected a local description")
	}
}

func TestParseSearchGeneral(t *testing.T) {
	res, err := parseSearch(`{"description":"A hermit joins.","gold":50,"general":{"name":"Xu Shu","war":65,"intel":140,"pol":-3,"chr":80}}`,
		kingdoms.SearchQuery{CityName: "Xin Ye"})
	if err != nil {
		t.Fatalf("parseSearch: %v", err)
	}
	if res.General == nil || res.General.Name != "Xu Shu" {
		t.Fatalf("expected Xu Shu, got %+v", res.General)
	}
	want := kingdoms.Stats{War: 65, Intel: 100, Pol: 1, Chr: 80}
	if res.General.Stats != want {
		t.Errorf("stats = %+v, want %+v", res.General.Stats, want)
	}
	if res.Gold != 0 {
		t.Errorf("expected only one reward, got gold %d", res.Gold)
	}
}

func TestDescribeSearchRejectsTakenGeneral(t *testing.T) {
	srv := stubAPI(t, http.StatusOK, `{"description":"A familiar face.","general":{"name":"zhao yun","war":96}}`)
	s := NewService(NewClient("key", srv.URL, ""), kingdoms.DefaultRules(), kingdoms.NewRand(1))
	q := kingdoms.SearchQuery{CityName: "Ye", GeneralName: "Zhang He", Taken: []string{"Zhang He", "Zhao Yun"}}

	if _, err := parseSearch(`{"general":{"name":"Zhao Yun"}}`, q); err == nil {
		t.Error("expected a taken name to be refused")
	}
	res := s.DescribeSearch(context.Background(), q)
	if res.Description == "A familiar face." {
		t.Error("expected the local outcome after a duplicate general")
	}
	if res.General != nil && res.General.Name == "Zhao Yun" {
		t.Errorf("duplicate general returned: %+v", res.General)
	}
}

func TestParseSearchRejectsGarbage(t *testing.T) {
	if _, err := parseSearch("the gods are silent", kingdoms.SearchQuery{}); err == nil {
		t.Error("expected an error")
	}
}

func TestDescribeRumor(t *testing.T) {
	s := NewService(nil, kingdoms.DefaultRules(), kingdoms.NewRand(1))
	if got := s.DescribeRumor(context.Background(), 3); got != LocalRumor(3) {
		t.Errorf("expected local rumor, got %q", got)
	}
	if LocalRumor(3) != LocalRumor(3) {
		t.Error("local rumor not deterministic")
	}

	srv := stubAPI(t, http.StatusOK, "  Cao Cao dreams of bronze sparrows.  ")
	s = NewService(NewClient("key", srv.URL, ""), kingdoms.DefaultRules(), kingdoms.NewRand(1))
	if got := s.DescribeRumor(context.Background(), 6); got != "Cao Cao dreams of bronze sparrows." {
		t.Errorf("unexpected rumor %q", got)
	}
}
