//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const testAPIKey = "e2e-api-key"

func TestSmoke_IngestAndQuery(t *testing.T) {
	repoRoot := repoRootPath(t)

	// SQLite "service" container creates the DB file in a host temp dir.
	sqlitePath := startSQLite(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"API_KEY="+testAPIKey,
		"MQTT_ENABLED=false",

		"DB_DRIVER=sqlite3",
		"SQLITE_PATH="+sqlitePath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 5*time.Second)

	// Unauthorized write is rejected.
	resp := postJSON(t, client, base+"/api/v1", "wrong-key",
		`{"unix": 1700000000, "temp": 21.5, "humidity": 48.2, "pressure": 1013.4, "light": 312.0}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthorized write: status=%d want=%d", resp.StatusCode, http.StatusUnauthorized)
	}
	_ = resp.Body.Close()

	// Authorized writes land.
	now := time.Now().Unix()
	for i := int64(0); i < 3; i++ {
		body := writeBody(now-120+i*30, 20.0+float64(i))
		resp := postJSON(t, client, base+"/api/v1", testAPIKey, body)
		var ack map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			t.Fatalf("decode write ack: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK || ack["status"] != "success" {
			t.Fatalf("write %d: status=%d ack=%v", i, resp.StatusCode, ack)
		}
	}

	// Raw tail comes back oldest first.
	var raw []map[string]any
	getJSON(t, client, base+"/api/v1/raw?limit=all", &raw)
	if len(raw) != 3 {
		t.Fatalf("raw: got %d rows, want 3", len(raw))
	}

	// Aggregated series over the last hour is non-empty.
	var agg []map[string]any
	getJSON(t, client, base+"/api/v1?limit=1hr", &agg)
	if len(agg) == 0 {
		t.Fatal("aggregate: expected at least one bucket")
	}

	stopServer(t, cmd)
}

func writeBody(unix int64, temp float64) string {
	b, _ := json.Marshal(map[string]any{
		"unix": unix, "temp": temp, "humidity": 50.0, "pressure": 1013.0, "light": 100.0,
	})
	return string(b)
}

func postJSON(t *testing.T, client *http.Client, url, apiKey, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", apiKey)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status=%d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func startSQLite(t *testing.T) string {
	t.Helper()

	// Host temp dir that will contain the db file
	hostDir := t.TempDir()
	dbPath := filepath.Join(hostDir, "enviro.db")

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:      "nouchka/sqlite3:latest",
		WorkingDir: "/data",
		// Create the DB file and keep container alive
		Entrypoint: []string{"sh", "-c"},
		Cmd: []string{
			"sqlite3 /data/enviro.db \"PRAGMA journal_mode=WAL;\" && " +
				"echo 'sqlite ready' && " +
				"tail -f /dev/null",
		},
		Binds:      []string{hostDir + ":/data"},
		WaitingFor: wait.ForLog("sqlite ready").WithStartupTimeout(30 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start sqlite container: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	// Ensure file exists on host (container created it in the bind mount)
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("sqlite db file not created: %v", err)
	}

	return dbPath
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "enviro-server")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
