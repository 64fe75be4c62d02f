package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fernbank/core/common/mmongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// metadataDocument is the wire shape of a metadata document: the entity it
// describes plus the free-form blob itself.
type metadataDocument struct {
	EntityID  string         `bson:"entity_id"`
	Metadata  map[string]any `bson:"metadata"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// MetadataMongoDBRepository is a MongoDB-backed ports.MetadataRepository:
// the free-form companion document store for Customer.otherInfo audit
// blobs and bulk-upload row-error documents (spec.md §9).
type MetadataMongoDBRepository struct {
	connection *mmongo.MongoConnection
	Database   string
}

// NewMetadataMongoDBRepository returns a new MetadataMongoDBRepository.
func NewMetadataMongoDBRepository(mc *mmongo.MongoConnection) *MetadataMongoDBRepository {
	return &MetadataMongoDBRepository{connection: mc, Database: mc.Database}
}

func (mmr *MetadataMongoDBRepository) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := mmr.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	return db.Database(strings.ToLower(mmr.Database)).Collection(strings.ToLower(name)), nil
}

// Create upserts a metadata document under collection, keyed by entityID —
// an upsert rather than a strict insert since bulk-upload row errors and
// onboarding audit notes may be written more than once for the same entity.
func (mmr *MetadataMongoDBRepository) Create(ctx context.Context, collection, entityID string, metadata map[string]any) error {
	coll, err := mmr.collection(ctx, collection)
	if err != nil {
		return err
	}

	now := time.Now()

	filter := bson.M{"entity_id": entityID}
	update := bson.M{
		"$set": bson.M{"metadata": metadata, "updated_at": now},
		"$setOnInsert": bson.M{
			"entity_id":  entityID,
			"created_at": now,
		},
	}

	_, err = coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))

	return err
}

// Find retrieves the metadata blob for entityID, or a nil map if none
// exists — absent metadata is a normal state, not an error (spec.md §9).
func (mmr *MetadataMongoDBRepository) Find(ctx context.Context, collection, entityID string) (map[string]any, error) {
	coll, err := mmr.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	var doc metadataDocument

	if err := coll.FindOne(ctx, bson.M{"entity_id": entityID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, err
	}

	return doc.Metadata, nil
}
