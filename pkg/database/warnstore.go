// Package database provides the WarnStore for the append-only warning collection.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// warnCollection is the MongoDB collection that holds one document per warning.
const warnCollection = "warnings"

// WarnStore persists warning records. It is append-only: records are inserted
// and queried, never updated. Counts always go to the database, never to the
// shared LRU cache, so the escalation engine sees fresh totals.
type WarnStore struct {
	collection *mongo.Collection
	dbInstance *Database
}

// NewWarnStore creates a WarnStore over the warnings collection
func NewWarnStore(db *Database) *WarnStore {
	return &WarnStore{
		collection: db.GetCollection(warnCollection),
		dbInstance: db,
	}
}

// Append inserts a new warning record and returns its generated ID.
// The record is stored with the current timestamp when CreatedAt is zero.
func (ws *WarnStore) Append(ctx context.Context, rec models.WarnRecord) (string, error) {
	if !ws.dbInstance.Connected() || ws.collection == nil {
		return "", fmt.Errorf("database not connected")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := ws.collection.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Count returns the total number of warnings for a user in a guild.
// Every historical record counts; there is no reset or decay.
func (ws *WarnStore) Count(ctx context.Context, guildID, userID string) (int64, error) {
	if !ws.dbInstance.Connected() || ws.collection == nil {
		return 0, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ws.collection.CountDocuments(ctx, bson.M{"guildId": guildID, "userId": userID})
}

// ListRecent returns the most recent warnings of a guild, newest first.
func (ws *WarnStore) ListRecent(ctx context.Context, guildID string, limit int64) ([]models.WarnRecord, error) {
	if !ws.dbInstance.Connected() || ws.collection == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := ws.collection.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []models.WarnRecord
	for cursor.Next(ctx) {
		var rec models.WarnRecord
		if err := cursor.Decode(&rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, cursor.Err()
}

// ListForUser returns all warnings of one user in a guild, newest first.
// Used by the /mod warns command for the per-user audit view.
func (ws *WarnStore) ListForUser(ctx context.Context, guildID, userID string) ([]models.WarnRecord, error) {
	if !ws.dbInstance.Connected() || ws.collection == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := ws.collection.Find(ctx, bson.M{"guildId": guildID, "userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []models.WarnRecord
	for cursor.Next(ctx) {
		var rec models.WarnRecord
		if err := cursor.Decode(&rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, cursor.Err()
}

// Remove deletes a single warning by ID. This exists only for the manual
// /mod removewarn moderation path; the escalation engine never deletes.
func (ws *WarnStore) Remove(ctx context.Context, guildID, warnID string) error {
	if !ws.dbInstance.Connected() || ws.collection == nil {
		return fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := ws.collection.DeleteOne(ctx, bson.M{"_id": warnID, "guildId": guildID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
