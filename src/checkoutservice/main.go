package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
	"github.com/Sudharsan1-5/SudharsanBuilds/src/checkoutservice/internal"
)

func main() {
	platform.SetupLogger()

	v, err := platform.NewViper(map[string]any{
		"checkout.server.port": "8080",
		"checkout.session.ttl": "2h",
		"payment.service.url":  "http://paymentservice:8080",
		"paypal.mode":          "sandbox",
	})
	if err != nil {
		log.Fatal(err)
	}

	internal.SetupValidator()

	regions, err := internal.DefaultRegions()
	if err != nil {
		log.Fatal(err)
	}

	rdb, err := platform.NewRedisClient(v.GetString("checkout.redis.addr"), v.GetString("checkout.redis.password"))
	if err != nil {
		log.Fatal(err)
	}

	ttl := v.GetDuration("checkout.session.ttl")

	s, err := internal.NewCheckoutService(
		catalog.Default(),
		regions,
		v.GetString("active.region"),
		initGateways(v),
		internal.NewRedisTokenStore(rdb, ttl),
		internal.NewSessions(ttl),
	)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", v.GetString("checkout.server.port")),
		Handler:           internal.NewHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("checkout service is running", "port", v.GetString("checkout.server.port"), "region", v.GetString("active.region"))

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Failed to serve:", err)
	}
}

// Razorpay is always registered so a missing key shows up as a readiness
// failure. PayPal is only registered when its client id is set.
func initGateways(v *viper.Viper) []internal.Gateway {
	gateways := []internal.Gateway{
		internal.NewRazorpayGateway(v.GetString("razorpay.key.id"), v.GetString("payment.service.url")),
	}
	if v.GetString("razorpay.key.id") == "" {
		slog.Warn("RAZORPAY_KEY_ID not set, razorpay checkout is unavailable")
	}

	clientID := v.GetString("paypal.client.id")
	if clientID == "" {
		slog.Warn("PAYPAL_CLIENT_ID not set, paypal checkout is unavailable")
		return gateways
	}

	secret, err := platform.ResolveSecret(context.Background(), v.GetString("paypal.client.secret"))
	if err != nil {
		log.Fatal(err)
	}

	pp, err := internal.NewPayPalGateway(clientID, secret, v.GetString("paypal.mode") == "live")
	if err != nil {
		log.Fatal(err)
	}
	return append(gateways, pp)
}
