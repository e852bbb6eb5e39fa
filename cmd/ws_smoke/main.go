package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"todo_backend/internal/service"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	tenant := os.Getenv("SMOKE_TENANT")
	if tenant == "" {
		tenant = "smoke"
	}

	token, err := service.NewTokenManager(jwtSecret, 10*time.Minute).Generate(tenant)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws?token="+token, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// wait for the ready handshake
	readFrame := func() map[string]any {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		log.Printf("got: %s", msg)
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		return obj
	}
	if obj := readFrame(); obj["type"] != "ready" {
		log.Fatalf("expected ready, got %v", obj)
	}

	// create, complete and delete a task over REST and watch the feed
	id := rest(base, token, http.MethodPost, "/api/v1/tasks", `{"title":"ws smoke task"}`)
	readFrame()
	rest(base, token, http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/complete", id), "")
	readFrame()
	rest(base, token, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", id), "")
	readFrame()

	log.Println("smoke test finished")
}

func rest(base, token, method, path, body string) int64 {
	req, err := http.NewRequest(method, "http://"+base+path, bytes.NewBufferString(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		log.Fatalf("%s %s: %d %s", method, path, resp.StatusCode, raw)
	}
	log.Printf("%s %s -> %d %s", method, path, resp.StatusCode, raw)

	var out struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(raw, &out)
	return out.ID
}
