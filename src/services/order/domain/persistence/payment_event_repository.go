package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"go-checkout-flow/src/services/events"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentEvent is an undeliverable payment event parked for replay.
type PaymentEvent struct {
	ID         string     `bson:"_id,omitempty"`
	OrderID    string     `bson:"orderId"`
	Topic      string     `bson:"topic"`
	EventData  []byte     `bson:"eventData"`
	CreatedAt  time.Time  `bson:"createdAt"`
	Replayed   bool       `bson:"replayed"`
	ReplayedAt *time.Time `bson:"replayedAt,omitempty"`
	Status     string     `bson:"status"`
}

// StoreEventForReplay parks a payment event that could not be delivered.
// The topic is stored alongside the payload so replay republishes to the
// queue the event originally targeted.
func (r *OrderRepository) StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error {
	if !json.Valid(eventData) {
		return errors.New("invalid JSON event data")
	}

	eventDoc := PaymentEvent{
		ID:        primitive.NewObjectID().Hex(),
		OrderID:   orderID,
		Topic:     topic,
		EventData: eventData,
		CreatedAt: time.Now().UTC(),
		Replayed:  false,
		Status:    events.EventStatusFailed,
	}

	coll := r.collection.Database().Collection("payment_events")
	_, err := coll.InsertOne(ctx, eventDoc)
	return err
}

// GetUnreplayedEvents fetches events that have not been replayed yet,
// oldest first (FIFO by createdAt).
func (r *OrderRepository) GetUnreplayedEvents(ctx context.Context, limit int64) ([]PaymentEvent, error) {
	coll := r.collection.Database().Collection("payment_events")
	filter := bson.M{
		"replayed": bson.M{"$ne": true},
		"status":   bson.M{"$in": []string{events.EventStatusPending, events.EventStatusFailed}},
	}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{bson.E{Key: "createdAt", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var parked []PaymentEvent
	for cursor.Next(ctx) {
		var evt PaymentEvent
		if err := cursor.Decode(&evt); err != nil {
			return nil, err
		}
		parked = append(parked, evt)
	}
	return parked, nil
}

// MarkEventAsReplaying marks an event as currently being replayed
func (r *OrderRepository) MarkEventAsReplaying(ctx context.Context, eventID string) error {
	coll := r.collection.Database().Collection("payment_events")
	_, err := coll.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": bson.M{
		"status": events.EventStatusReplaying,
	}})
	return err
}

// MarkEventAsCompleted marks an event as successfully replayed
func (r *OrderRepository) MarkEventAsCompleted(ctx context.Context, eventID string) error {
	coll := r.collection.Database().Collection("payment_events")
	now := time.Now().UTC()
	_, err := coll.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": bson.M{
		"status":     events.EventStatusCompleted,
		"replayed":   true,
		"replayedAt": now,
	}})
	return err
}

// MarkEventAsFailed marks an event as failed for future replay
func (r *OrderRepository) MarkEventAsFailed(ctx context.Context, eventID string) error {
	coll := r.collection.Database().Collection("payment_events")
	_, err := coll.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": bson.M{
		"status": events.EventStatusFailed,
	}})
	return err
}
