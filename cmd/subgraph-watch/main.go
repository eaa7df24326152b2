package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/psidex/subgraph/internal/framesvc"
	"github.com/psidex/subgraph/internal/hub"
)

const httpCallTimeout = time.Second * 10

func main() {
	grpcAddress := flag.String("a", "127.0.0.1:50051", "the ip:port of the frame stream")
	httpAddress := flag.String("http", "127.0.0.1:8080", "the ip:port of the viewer, used to find a session")
	session := flag.String("s", "", "the session to watch, the first open session when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *session == "" {
		s, err := firstSession(ctx, *httpAddress)
		if err != nil {
			log.Fatalf("Could not find a session: %s", err)
		}
		*session = s
	}

	log.Printf("Connecting to frame stream at address: %s", *grpcAddress)
	client, err := framesvc.Dial(*grpcAddress)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	stream, err := client.Watch(ctx, *session)
	if err != nil {
		log.Fatalf("Could not watch session %s: %s", *session, err)
	}

	log.Printf("Watching session %s", *session)
	for {
		f, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			log.Println("Stream ended")
			return
		}
		if err != nil {
			log.Fatalf("Received err from frame stream: %s", err)
		}

		switch f.Type {
		case "tick":
			log.Printf("tick alpha=%.4f paths=%d nodes=%d", f.Alpha, f.Paths, f.Nodes)
		case "settled":
			log.Printf("settled after %d ticks", f.Ticks)
		case hub.Closed:
			log.Println("Session closed")
			return
		default:
			log.Printf("%s", f.Type)
		}
	}
}

func firstSession(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, httpCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/sessions", address), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Sessions []string `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Sessions) == 0 {
		return "", errors.New("no open sessions")
	}
	return body.Sessions[0], nil
}
