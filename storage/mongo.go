package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

// MongoStore keeps each collection in a MongoDB collection of the same name.
// Document ids are stored as string _id values.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

func openMongo(ctx context.Context, cfg config.Config) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.MongoURI).SetRetryWrites(false).SetRetryReads(false)
	strategy := strategyURI
	kf, err := loadKeyFile(cfg.KeyFile)
	if err != nil {
		return nil, &domain.ConnectError{Backend: string(config.BackendMongo), Err: err}
	}
	if kf != nil && kf.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   kf.Username,
			Password:   kf.Password,
			AuthSource: kf.AuthSource,
		})
		strategy = strategyKeyFile
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &domain.ConnectError{Backend: string(config.BackendMongo), Strategy: strategy, Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &domain.ConnectError{Backend: string(config.BackendMongo), Strategy: strategy, Err: err}
	}
	log.WithFields(log.Fields{
		"backend":     config.BackendMongo,
		"database":    cfg.MongoDatabase,
		"credentials": strategy,
	}).Info("connected to mongodb")
	return &MongoStore{client: client, database: client.Database(cfg.MongoDatabase)}, nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]domain.Document, error) {
	cur, err := s.database.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBsonM(m))
	}
	return docs, nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.database.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.database.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoStore) NewID(string) string { return primitive.NewObjectID().Hex() }

// CommitBatch inserts docs inside a transaction. Transactions need a replica
// set or sharded cluster.
func (s *MongoStore) CommitBatch(ctx context.Context, collection string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, toBsonM(doc))
	}
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	coll := s.database.Collection(collection)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return coll.InsertMany(sc, batch)
	})
	return transactionHint(err)
}

// codeIllegalOperation is what a standalone server answers to a transaction.
const codeIllegalOperation = 20

func transactionHint(err error) error {
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) && srvErr.HasErrorCode(codeIllegalOperation) {
		return fmt.Errorf("%w (batch imports need transactions, which require a replica set or sharded cluster)", err)
	}
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toBsonM(doc domain.Document) bson.M {
	m := make(bson.M, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		m[k] = v
	}
	m["_id"] = doc.ID
	return m
}

func fromBsonM(m bson.M) domain.Document {
	var id string
	switch v := m["_id"].(type) {
	case string:
		id = v
	case primitive.ObjectID:
		id = v.Hex()
	default:
		id = fmt.Sprint(v)
	}
	fields := make(map[string]any, len(m))
	for k, v := range m {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}
	return domain.Document{ID: id, Fields: fields}
}
