package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/dberrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each record table and document collection in a Mongo
// collection of the same name.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a store over db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// matchValues lets a string id match documents that stored it as a number.
func matchValues(values ...string) bson.A {
	out := bson.A{}
	for _, v := range values {
		out = append(out, v)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func (s *MongoStore) find(ctx context.Context, collection string, filter bson.M, op string) ([]models.Record, error) {
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, dberrors.Wrap(op, err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dberrors.Wrap(op, err)
	}

	out := make([]models.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromBSON(d))
	}
	return out, nil
}

func (s *MongoStore) Find(ctx context.Context, table, field, value string) ([]models.Record, error) {
	filter := bson.M{field: bson.M{"$in": matchValues(value)}}
	rows, err := s.find(ctx, table, filter, fmt.Sprintf("find %s", table))
	return stripIDs(rows), err
}

func (s *MongoStore) FindIn(ctx context.Context, table, field string, values []string) ([]models.Record, error) {
	filter := bson.M{field: bson.M{"$in": matchValues(values...)}}
	rows, err := s.find(ctx, table, filter, fmt.Sprintf("find %s", table))
	return stripIDs(rows), err
}

func (s *MongoStore) All(ctx context.Context, table string) ([]models.Record, error) {
	rows, err := s.find(ctx, table, bson.M{}, fmt.Sprintf("list %s", table))
	return stripIDs(rows), err
}

// ReplaceTable swaps the whole collection content.
func (s *MongoStore) ReplaceTable(ctx context.Context, table string, rows []models.Record) error {
	coll := s.db.Collection(table)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return dberrors.Wrap(fmt.Sprintf("clear %s", table), err)
	}
	if len(rows) == 0 {
		return nil
	}

	docs := make([]interface{}, len(rows))
	for i, r := range rows {
		docs[i] = bson.M(r)
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return dberrors.Wrap(fmt.Sprintf("import %s", table), err)
	}
	return nil
}

// Insert relies on the unique indexes from EnsureMongoIndexes.
func (s *MongoStore) Insert(ctx context.Context, collection string, doc models.Record, unique []string) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("%s already exists", firstOr(unique, "document")))
		}
		return dberrors.Wrap(fmt.Sprintf("insert %s", collection), err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]models.Record, error) {
	return s.find(ctx, collection, bson.M{}, fmt.Sprintf("list %s", collection))
}

// EnsureMongoIndexes creates the unique indexes documents and users rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for _, res := range models.Resources() {
		for _, field := range res.Unique {
			model := mongo.IndexModel{
				Keys: bson.D{{Key: field, Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}}),
			}
			if _, err := db.Collection(res.Collection).Indexes().CreateOne(ctx, model); err != nil {
				return dberrors.Wrap(fmt.Sprintf("index %s.%s", res.Collection, field), err)
			}
		}
	}

	users := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, users); err != nil {
		return dberrors.Wrap("index users.email", err)
	}
	return nil
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

// stripIDs drops the Mongo-assigned _id so imported rows look like the source files.
func stripIDs(rows []models.Record) []models.Record {
	for _, r := range rows {
		delete(r, "_id")
	}
	return rows
}

func fromBSON(doc bson.M) models.Record {
	out := make(models.Record, len(doc))
	for k, v := range doc {
		out[k] = normalizeBSON(v)
	}
	return out
}

func normalizeBSON(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case bson.M:
		return map[string]interface{}(fromBSON(t))
	case bson.D:
		return map[string]interface{}(fromBSON(t.Map()))
	case bson.A:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalizeBSON(item)
		}
		return out
	default:
		return v
	}
}
