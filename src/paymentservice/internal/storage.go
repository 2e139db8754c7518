package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PaymentStorage interface {
	// Save inserts a newly created order. Saving the same vendor
	// order twice is a no-op.
	Save(ctx context.Context, order *dbPaymentOrder) error

	Order(ctx context.Context, vendorOrderID string) (*dbPaymentOrder, error)

	// MarkPaid records the vendor payment id and flips the status to PAID.
	MarkPaid(ctx context.Context, vendorOrderID, paymentID string) (*dbPaymentOrder, error)
}

type paymentStorage struct {
	coll *mongo.Collection
}

func NewPaymentStorage(coll *mongo.Collection) PaymentStorage {
	return &paymentStorage{coll: coll}
}

func (s *paymentStorage) Save(ctx context.Context, order *dbPaymentOrder) error {

	_, err := s.coll.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("save payment order: %w", err)
	}
	return nil
}

func (s *paymentStorage) Order(ctx context.Context, vendorOrderID string) (*dbPaymentOrder, error) {

	var order dbPaymentOrder
	err := s.coll.FindOne(ctx, bson.M{"_id": vendorOrderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *paymentStorage) MarkPaid(ctx context.Context, vendorOrderID, paymentID string) (*dbPaymentOrder, error) {

	filter := bson.M{"_id": vendorOrderID}
	update := bson.M{
		"$set": bson.M{
			"status":    OrderStatusPaid,
			"paymentId": paymentID,
			"paidAt":    time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order dbPaymentOrder
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
