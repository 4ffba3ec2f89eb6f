package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	quizzo "github.com/TheAlpha16/quizzo-go"
	"github.com/valkey-io/valkey-go"
)

func main() {
	address := flag.String("addr", "localhost:6379", "valkey address")
	channel := flag.String("channel", "quizzo:relay", "relay channel the bot listens on")
	author := flag.String("author", "relay-user", "author id to send as")
	flag.Parse()

	content := strings.Join(flag.Args(), " ")
	if content == "" {
		content = "!ping"
	}

	client, err := quizzo.NewValkeyClient(*address)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	transport := quizzo.NewValkeyTransport(client, *channel)
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Listen for replies before publishing so none are missed
	replies := make(chan quizzo.ReplyEnvelope, 1)
	go func() {
		sub := client.B().Subscribe().Channel(quizzo.ReplyChannel(*channel)).Build()
		_ = client.Receive(ctx, sub, func(msg valkey.PubSubMessage) {
			var reply quizzo.ReplyEnvelope
			if err := json.Unmarshal([]byte(msg.Message), &reply); err == nil {
				select {
				case replies <- reply:
				default:
				}
			}
		})
	}()
	time.Sleep(200 * time.Millisecond)

	id := fmt.Sprintf("relay-%d", time.Now().UnixNano())
	err = transport.Publish(ctx, quizzo.Envelope{
		ID:        id,
		ChannelID: "relay",
		AuthorID:  *author,
		Content:   content,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Fatalf("Failed to publish: %v", err)
	}

	select {
	case reply := <-replies:
		fmt.Println(reply.Content)
	case <-ctx.Done():
		log.Fatalf("No reply within timeout")
	}
}
