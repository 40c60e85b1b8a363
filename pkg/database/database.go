package database

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/firebase_client"
	"github.com/steeple/steeple/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Backend string

const (
	BackendFirestore Backend = "firestore"
	BackendMongo     Backend = "mongo"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

var FirestoreClient *firestore.Client

var SelectedBackend = BackendFirestore

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "steeple"

func Connect() error {
	env := util.GetEnvironmentVariables()

	if env["STEEPLE_DATABASE_BACKEND"] != "" {
		SelectedBackend = Backend(env["STEEPLE_DATABASE_BACKEND"])
	}

	switch SelectedBackend {
	case BackendFirestore:
		return ConnectFirestore()
	case BackendMongo:
		return ConnectMongoDB()
	default:
		return fmt.Errorf("unknown database backend %q", SelectedBackend)
	}
}

func ConnectFirestore() error {
	if err := firebase_client.Connect(); err != nil {
		return err
	}

	client, err := firebase_client.App.Firestore(context.Background())
	if err != nil {
		return fmt.Errorf("create firestore client: %w", err)
	}

	FirestoreClient = client

	log.Info().Msg("Connected to Firestore")

	return nil
}

func ConnectMongoDB() error {
	connectionString := defaultMongoConnectionString
	dbName := defaultMongoDatabase

	env := util.GetEnvironmentVariables()

	if env["STEEPLE_MONGODB_CONNECTION"] != "" {
		connectionString = env["STEEPLE_MONGODB_CONNECTION"]
	}

	if env["STEEPLE_MONGODB_DATABASE"] != "" {
		dbName = env["STEEPLE_MONGODB_DATABASE"]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	createIndexes()

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

// Ping checks whichever backend is connected.
func Ping(ctx context.Context) error {
	switch {
	case MongoGlobalInstance != nil:
		return MongoGlobalInstance.Client.Ping(ctx, nil)
	case FirestoreClient != nil:
		_, err := FirestoreClient.Collection(UsersCollection).Limit(1).Documents(ctx).GetAll()
		return err
	default:
		return fmt.Errorf("database not connected")
	}
}
