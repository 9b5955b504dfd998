package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/pkg/events"
	pktNats "ai-agent-platform/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Tails profile session events from JetStream.
func main() {
	_ = godotenv.Load()

	url := flag.String("nats", "nats://localhost:4222", "NATS server URL")
	subject := flag.String("subject", pktNats.SubjectPrefix+".>", "subject filter")
	durable := flag.String("durable", "", "durable consumer name (empty for an ephemeral tail)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := pktNats.NewSubscriber(*url, logger.NewIsolatedLogger("logs/events_tail.log"))
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sub.Close()

	colors := map[string]*color.Color{
		"PROFILE_SESSION_STARTED":   color.New(color.FgCyan),
		"PROFILE_SESSION_COMPLETED": color.New(color.FgGreen, color.Bold),
		"PROFILE_SESSION_EVICTED":   color.New(color.FgYellow),
	}

	err = sub.Subscribe(ctx, *subject, *durable, func(_ context.Context, event events.Event) error {
		c, ok := colors[event.EventType()]
		if !ok {
			c = color.New(color.Reset)
		}
		payload := event.Payload()
		c.Printf("%s  %-26s %v", event.Timestamp().Format("15:04:05"), event.EventType(), payload["session_id"])
		if profile, ok := payload["profile"].(map[string]interface{}); ok {
			fmt.Printf("  answered=%d", len(profile))
		}
		fmt.Println()
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	<-ctx.Done()
}
