package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/testutil"
)

// 只订阅 danger：创建供应商(info)被过滤，删除原料(danger)送达
func TestStream_FiltersByType(t *testing.T) {
	env := setupPDMSTest(t)
	testutil.SeedMaterial(t, env.db, "RM-09", "Cotton Linter", 10)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events/stream?types=danger&token="+env.op, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Expected event stream, got %q", ct)
	}

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event:") {
				events <- strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatal("stream closed")
			}
			return e
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return ""
	}

	if e := next(); e != "connected" {
		t.Fatalf("Expected connected event, got %q", e)
	}

	testutil.DoRequest(env.router, "POST", "/vendors", map[string]interface{}{"name": "Acme Pulp"}, env.op)
	w := testutil.DoRequest(env.router, "DELETE", "/materials/delete/RM-09", nil, env.op)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if e := next(); e != "activity.danger" {
		t.Errorf("Expected activity.danger, got %q", e)
	}
}

func TestParseLogTypes(t *testing.T) {
	if parseLogTypes("") != nil {
		t.Error("Expected nil filter for empty input")
	}
	got := parseLogTypes("warning, danger,,")
	if len(got) != 2 || !got["warning"] || !got["danger"] {
		t.Errorf("Unexpected filter %v", got)
	}
}
