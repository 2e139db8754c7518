package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
	"github.com/Sudharsan1-5/SudharsanBuilds/src/paymentservice/internal"
)

func main() {
	platform.SetupLogger()

	v, err := platform.NewViper(map[string]any{
		"payment.server.port":   "8080",
		"payment.db.name":       "payments",
		"payment.amqp.exchange": "payment_exchange",
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	keyID, keySecret, err := razorpayCredentials(ctx, v)
	if err != nil {
		log.Fatal(err)
	}

	internal.SetupValidator()

	rzp := internal.NewRazorpay(keyID, keySecret)
	s := internal.NewPaymentService(
		rzp,
		rzp,
		internal.NewPaymentStorage(initMongoCollection(v)),
		initPublisher(v),
	)

	addr := fmt.Sprintf(":%s", v.GetString("payment.server.port"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           internal.NewHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("payment service is running", "port", v.GetString("payment.server.port"))

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Failed to serve:", err)
	}
}

// Both credentials must be present before the server accepts requests.
func razorpayCredentials(ctx context.Context, v *viper.Viper) (string, string, error) {
	keyID, err := platform.MustString(v, "razorpay.key.id")
	if err != nil {
		return "", "", fmt.Errorf("Razorpay credentials not configured: %w", err)
	}
	keySecret, err := platform.MustString(v, "razorpay.key.secret")
	if err != nil {
		return "", "", fmt.Errorf("Razorpay credentials not configured: %w", err)
	}

	keySecret, err = platform.ResolveSecret(ctx, keySecret)
	if err != nil {
		return "", "", err
	}
	return keyID, keySecret, nil
}

func initMongoCollection(v *viper.Viper) *mongo.Collection {

	uri, err := platform.MustString(v, "payment.db.uri")
	if err != nil {
		log.Fatal(err)
	}
	uri, err = platform.ResolveSecret(context.Background(), uri)
	if err != nil {
		log.Fatal(err)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	return client.Database(v.GetString("payment.db.name")).Collection("payment_orders")
}

// Events are optional; without a broker they are dropped.
func initPublisher(v *viper.Viper) platform.Publisher {
	host := v.GetString("payment.amqp.host")
	if host == "" {
		slog.Warn("PAYMENT_AMQP_HOST not set, payment events are not published")
		return platform.NopPublisher{}
	}

	uri := fmt.Sprintf("amqp://%s:%s@%s",
		v.GetString("payment.amqp.user"),
		v.GetString("payment.amqp.pass"),
		host,
	)
	conn, err := platform.DialAMQP(uri)
	if err != nil {
		log.Fatal(err)
	}
	return platform.NewRabbitMQ(conn, v.GetString("payment.amqp.exchange"))
}
