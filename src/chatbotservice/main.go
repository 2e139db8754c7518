package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
	"github.com/Sudharsan1-5/SudharsanBuilds/src/chatbotservice/internal"
)

func main() {
	platform.SetupLogger()

	v, err := platform.NewViper(map[string]any{
		"chatbot.server.port": "8080",
		"gemini.model":        "gemini-2.5-flash",
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// A missing key is reported per request, not at start-up.
	apiKey, err := platform.ResolveSecret(ctx, v.GetString("gemini.api.key"))
	if err != nil {
		log.Fatal(err)
	}
	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY not set, chat requests will fail")
	}

	var memory internal.ChatMemory
	if addr := v.GetString("chatbot.redis.addr"); addr != "" {
		rdb, err := platform.NewRedisClient(addr, v.GetString("chatbot.redis.password"))
		if err != nil {
			log.Fatal(err)
		}
		memory = internal.NewRedisMemory(rdb)
	} else {
		slog.Warn("CHATBOT_REDIS_ADDR not set, chat memory disabled")
	}

	gemini, err := internal.NewGeminiClient(ctx, apiKey, v.GetString("gemini.base.url"), v.GetString("gemini.model"))
	if err != nil {
		log.Fatal(err)
	}

	s := internal.NewChatbotService(
		gemini,
		memory,
		catalog.Default(),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", v.GetString("chatbot.server.port")),
		Handler:           internal.NewHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("chatbot service is running", "port", v.GetString("chatbot.server.port"))

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Failed to serve:", err)
	}
}
