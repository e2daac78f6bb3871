package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/sink"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := sink.NewMemory()
	ctx := context.Background()
	for _, rec := range []*sink.ComponentRecord{
		{RunID: "run", Rank: 1, NodeCount: 3, Nodes: []sink.NodeRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		{RunID: "run", Rank: 2, NodeCount: 1, Nodes: []sink.NodeRecord{{ID: "d"}}},
	} {
		if err := mem.WriteComponent(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := mem.WriteAssembly(ctx, &sink.AssemblyRecord{RunID: "run", FileName: "reads.gfa", NodeCount: 4, ComponentCount: 2}); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(newAPI(mem, log.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("%s: content type %q", url, ct)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("%s: decode: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestAPIAssembly(t *testing.T) {
	srv := testServer(t)
	var rec sink.AssemblyRecord
	if code := getJSON(t, srv.URL+"/api/assembly", &rec); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if rec.FileName != "reads.gfa" || rec.ComponentCount != 2 {
		t.Errorf("assembly = %+v", rec)
	}
}

func TestAPIComponents(t *testing.T) {
	srv := testServer(t)
	var recs []sink.ComponentRecord
	if code := getJSON(t, srv.URL+"/api/components", &recs); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(recs) != 2 || recs[0].Rank != 1 || recs[1].Rank != 2 {
		t.Errorf("components = %+v", recs)
	}
}

func TestAPIComponent(t *testing.T) {
	srv := testServer(t)

	var rec sink.ComponentRecord
	if code := getJSON(t, srv.URL+"/api/components/1", &rec); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if rec.Rank != 1 || len(rec.Nodes) != 3 {
		t.Errorf("component = %+v", rec)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/components/9", http.StatusNotFound},
		{"/api/components/0", http.StatusBadRequest},
		{"/api/components/first", http.StatusBadRequest},
	}
	for _, tt := range tests {
		var body map[string]string
		if code := getJSON(t, srv.URL+tt.path, &body); code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, code, tt.want)
		}
		if body["error"] == "" {
			t.Errorf("%s: no error message", tt.path)
		}
	}
}

func TestAPIAssemblyMissing(t *testing.T) {
	srv := httptest.NewServer(newAPI(sink.NewMemory(), log.New(io.Discard)))
	defer srv.Close()
	if code := getJSON(t, srv.URL+"/api/assembly", nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}
