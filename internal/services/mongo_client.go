package services

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ParticipantsCollection   = "participants"
	SearchRequestsCollection = "searchrequests"
)

var errMongoBadInput = errors.New("mongo uri and database name are required")

// ConnectMongo opens and pings a client. The caller owns Disconnect.
func ConnectMongo(ctx context.Context, mongoURI, dbName string) (*mongo.Client, *mongo.Database, error) {
	if mongoURI == "" || dbName == "" {
		return nil, nil, errMongoBadInput
	}

	opts := options.Client().ApplyURI(mongoURI)
	// Atlas SRV clusters; plain mongodb:// URIs keep whatever the URI asks for.
	if strings.HasPrefix(mongoURI, "mongodb+srv://") {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}
