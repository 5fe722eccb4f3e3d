//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flashfolio/apiserver/config"
	"github.com/flashfolio/apiserver/internal/db"
	"github.com/flashfolio/apiserver/internal/server"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	serverPort = 18080
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	if err := dockerCompose(ctx, root, "up", "-d"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	if err := waitForPostgres(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := runMigrations(root); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srv, err := startServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown()
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown()
	_ = dockerCompose(context.Background(), root, "down")
	os.Exit(code)
}

func TestFlashcardLifecycle(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	email := fmt.Sprintf("owner_%d@example.com", time.Now().UnixNano())

	token, err := registerUser(t, baseURL, "Owner", email, "ownerpass123")
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	folderID, err := createFolder(t, baseURL, token, "French", true)
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	cardID, err := createCard(t, baseURL, token, folderID, "Le soleil", "The sun")
	if err != nil {
		t.Fatalf("create card: %v", err)
	}

	if err := postJSON(baseURL+fmt.Sprintf("/user/folder/%d/card/%d/score/create", folderID, cardID), token, map[string]int{"score": 4}, http.StatusCreated); err != nil {
		t.Fatalf("create score: %v", err)
	}

	value, err := getScore(t, baseURL+fmt.Sprintf("/user/folder/%d/card/%d/score", folderID, cardID), token)
	if err != nil {
		t.Fatalf("get score: %v", err)
	}
	if value != 4 {
		t.Fatalf("expected score 4, got %d", value)
	}

	// Another account browses the same folder through the public surface.
	guestEmail := fmt.Sprintf("guest_%d@example.com", time.Now().UnixNano())
	guestToken, err := registerUser(t, baseURL, "Guest", guestEmail, "guestpass123")
	if err != nil {
		t.Fatalf("register guest: %v", err)
	}

	status, body, err := getWithToken(baseURL+fmt.Sprintf("/folder/%d/card/%d/", folderID, cardID), "")
	if err != nil {
		t.Fatalf("public card: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("public card status %d: %s", status, body)
	}

	if err := postJSON(baseURL+fmt.Sprintf("/folder/%d/card/%d/score/create", folderID, cardID), guestToken, map[string]int{"score": 7}, http.StatusOK); err != nil {
		t.Fatalf("guest create score: %v", err)
	}

	guestValue, err := getScore(t, baseURL+fmt.Sprintf("/folder/%d/card/%d/score", folderID, cardID), guestToken)
	if err != nil {
		t.Fatalf("guest get score: %v", err)
	}
	if guestValue != 7 {
		t.Fatalf("expected guest score 7, got %d", guestValue)
	}
	if value, err := getScore(t, baseURL+fmt.Sprintf("/user/folder/%d/card/%d/score", folderID, cardID), token); err != nil || value != 4 {
		t.Fatalf("owner score changed: %d, %v", value, err)
	}
}

func TestFolderDeleteCascades(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	email := fmt.Sprintf("cascade_%d@example.com", time.Now().UnixNano())

	token, err := registerUser(t, baseURL, "Cascade", email, "cascadepass1")
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	folderID, err := createFolder(t, baseURL, token, "Math", false)
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	cardID, err := createCard(t, baseURL, token, folderID, "2+2", "4")
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if err := postJSON(baseURL+fmt.Sprintf("/user/folder/%d/card/%d/score/create", folderID, cardID), token, map[string]int{"score": 1}, http.StatusCreated); err != nil {
		t.Fatalf("create score: %v", err)
	}

	req, err := http.NewRequest(http.MethodDelete, baseURL+fmt.Sprintf("/user/folder/%d/delete", folderID), nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete folder: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("delete folder status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	cards, err := countRows("SELECT COUNT(*) FROM cards WHERE id = $1", cardID)
	if err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if cards != 0 {
		t.Fatalf("expected cascade to remove the card, found %d rows", cards)
	}
	scores, err := countRows("SELECT COUNT(*) FROM scores WHERE card_id = $1", cardID)
	if err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scores != 0 {
		t.Fatalf("expected cascade to remove the score, found %d rows", scores)
	}
}

func TestDuplicateEmailCaseInsensitive(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	email := fmt.Sprintf("dup_%d@example.com", time.Now().UnixNano())

	if _, err := registerUser(t, baseURL, "First", email, "firstpass123"); err != nil {
		t.Fatalf("register first: %v", err)
	}

	payload := map[string]string{
		"name":     "Second",
		"email":    strings.ToUpper(email),
		"password": "secondpass12",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(baseURL+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	msg, _ := io.ReadAll(resp.Body)
	if got := strings.TrimSpace(string(msg)); got != "invalid data" {
		t.Fatalf("expected invalid data, got %q", got)
	}
}

func registerUser(t *testing.T, baseURL, name, email, password string) (string, error) {
	t.Helper()

	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := http.Post(baseURL+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("register status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	token := strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", fmt.Errorf("missing token in Authorization header")
	}
	return token, nil
}

func createFolder(t *testing.T, baseURL, token, name string, public bool) (int, error) {
	t.Helper()

	if err := postJSON(baseURL+"/user/folder/create", token, map[string]any{"name": name, "public": public}, http.StatusCreated); err != nil {
		return 0, err
	}

	status, body, err := getWithToken(baseURL+"/user/folder", token)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("list folders status %d: %s", status, body)
	}

	var folders []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(body), &folders); err != nil {
		return 0, err
	}
	for _, folder := range folders {
		if folder.Name == name {
			return folder.ID, nil
		}
	}
	return 0, fmt.Errorf("folder %q not found in list", name)
}

func createCard(t *testing.T, baseURL, token string, folderID int, front, back string) (int, error) {
	t.Helper()

	if err := postJSON(fmt.Sprintf("%s/user/folder/%d/card/create", baseURL, folderID), token, map[string]string{"front": front, "back": back}, http.StatusCreated); err != nil {
		return 0, err
	}

	status, body, err := getWithToken(fmt.Sprintf("%s/user/folder/%d/card", baseURL, folderID), token)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("list cards status %d: %s", status, body)
	}

	var cards []struct {
		ID    int    `json:"id"`
		Front string `json:"front"`
	}
	if err := json.Unmarshal([]byte(body), &cards); err != nil {
		return 0, err
	}
	for _, card := range cards {
		if card.Front == front {
			return card.ID, nil
		}
	}
	return 0, fmt.Errorf("card %q not found in list", front)
}

func getScore(t *testing.T, url, token string) (int, error) {
	t.Helper()

	status, body, err := getWithToken(url, token)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("get score status %d: %s", status, body)
	}

	var value int
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return 0, err
	}
	return value, nil
}

func postJSON(url, token string, payload any, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func getWithToken(url, token string) (int, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func countRows(query string, args ...any) (int, error) {
	cfg := config.LoadConfig()
	conn, err := sql.Open("postgres", db.PostgresURL(cfg))
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func waitForPostgres(ctx context.Context) error {
	cfg := config.LoadConfig()
	conn, err := sql.Open("postgres", db.PostgresURL(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func runMigrations(root string) error {
	cfg := config.LoadConfig()
	migrationsPath := filepath.Join(root, "internal", "db", "migrations")
	migrationsURL := "file://" + migrationsPath

	migrator, err := migrate.New(migrationsURL, db.PostgresURL(cfg))
	if err != nil {
		return err
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func startServer() (*server.Server, error) {
	_ = os.Setenv("JWT_SECRET", "test-secret")
	_ = os.Setenv("SERVER_PORT", fmt.Sprintf("%d", serverPort))
	_ = os.Setenv("DB_HOST", "localhost")
	_ = os.Setenv("DB_PORT", "5432")
	_ = os.Setenv("DB_USER", "flashfolio")
	_ = os.Setenv("DB_PASSWORD", "password")
	_ = os.Setenv("DB_NAME", "flashfolio_db")
	_ = os.Setenv("DB_SSL", "false")

	cfg := config.LoadConfig()
	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	go func() {
		_ = srv.Start()
	}()

	return srv, nil
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
