// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/models"
)

const defaultMongoDatabase = "formbuilder"

// MongoStore keeps accounts, forms and responses as documents in three
// collections. Opaque values are stored as native BSON.
type MongoStore struct {
	client    *mongo.Client
	accounts  *mongo.Collection
	forms     *mongo.Collection
	responses *mongo.Collection
	now       func() time.Time
}

type mongoAccount struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	FormID       string    `bson:"formId,omitempty"`
	Responses    []string  `bson:"responses"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type mongoForm struct {
	ID        string        `bson:"_id"`
	OwnerID   string        `bson:"userId"`
	Title     string        `bson:"title"`
	FormData  bson.RawValue `bson:"formData"`
	Responses []string      `bson:"responses"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

type mongoResponse struct {
	ID           string        `bson:"_id"`
	FormID       string        `bson:"formId"`
	ResponseData bson.RawValue `bson:"responseData"`
	Name         string        `bson:"name"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// OpenMongo connects to MongoDB and ensures the lookup indexes exist. The
// database name is taken from the URI path, defaulting to "formbuilder".
func OpenMongo(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	store := NewMongoStore(client, mongoDatabaseName(uri))
	if err := store.createIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		accounts:  db.Collection("accounts"),
		forms:     db.Collection("forms"),
		responses: db.Collection("responses"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

// Username uniqueness is checked by the caller, so this index is not unique
func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.accounts, "username"},
		{s.forms, "userId"},
		{s.responses, "formId"},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: idx.key, Value: 1}}})
		if err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", idx.coll.Name(), idx.key, err)
		}
	}
	return nil
}

func (s *MongoStore) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = auth.GenerateID()
	account.CreatedAt = s.now()
	if account.Responses == nil {
		account.Responses = []string{}
	}

	_, err := s.accounts.InsertOne(ctx, mongoAccount{
		ID:           account.ID,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		FormID:       account.FormID,
		Responses:    account.Responses,
		CreatedAt:    account.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *MongoStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.findAccount(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.findAccount(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *MongoStore) findAccount(ctx context.Context, filter bson.D) (*models.Account, error) {
	var doc mongoAccount
	err := s.accounts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	account := &models.Account{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		FormID:       doc.FormID,
		Responses:    doc.Responses,
		CreatedAt:    doc.CreatedAt,
	}
	if account.Responses == nil {
		account.Responses = []string{}
	}
	return account, nil
}

func (s *MongoStore) CreateForm(ctx context.Context, form *models.Form) error {
	encoded, err := encodeFormData(form.FormData)
	if err != nil {
		return err
	}
	formData, err := jsonToBSON(encoded)
	if err != nil {
		return fmt.Errorf("failed to convert form data: %w", err)
	}

	form.ID = auth.GenerateID()
	form.CreatedAt = s.now()
	form.UpdatedAt = form.CreatedAt
	if form.FormData == nil {
		form.FormData = []json.RawMessage{}
	}
	if form.Responses == nil {
		form.Responses = []string{}
	}

	_, err = s.forms.InsertOne(ctx, mongoForm{
		ID:        form.ID,
		OwnerID:   form.OwnerID,
		Title:     form.Title,
		FormData:  formData,
		Responses: form.Responses,
		CreatedAt: form.CreatedAt,
		UpdatedAt: form.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	return nil
}

func (doc *mongoForm) toModel() (*models.Form, error) {
	encoded, err := bsonToJSON(doc.FormData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert form data: %w", err)
	}

	form := &models.Form{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Title:     doc.Title,
		Responses: doc.Responses,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if err := json.Unmarshal(encoded, &form.FormData); err != nil {
		return nil, fmt.Errorf("failed to decode form data: %w", err)
	}
	if form.FormData == nil {
		form.FormData = []json.RawMessage{}
	}
	if form.Responses == nil {
		form.Responses = []string{}
	}
	return form, nil
}

func (s *MongoStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var doc mongoForm
	err := s.forms.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query form: %w", err)
	}
	return doc.toModel()
}

func (s *MongoStore) ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.forms.Find(ctx, bson.D{{Key: "userId", Value: ownerID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}

	var docs []mongoForm
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read forms: %w", err)
	}

	forms := make([]models.Form, 0, len(docs))
	for i := range docs {
		form, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		forms = append(forms, *form)
	}
	return forms, nil
}

func (s *MongoStore) UpdateForm(ctx context.Context, id, title string, formData []json.RawMessage) (*models.Form, error) {
	encoded, err := encodeFormData(formData)
	if err != nil {
		return nil, err
	}
	value, err := jsonToBSON(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to convert form data: %w", err)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: title},
		{Key: "formData", Value: value},
		{Key: "updatedAt", Value: s.now()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoForm
	err = s.forms.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return doc.toModel()
}

func (s *MongoStore) DeleteForm(ctx context.Context, id string) (*models.Form, error) {
	var doc mongoForm
	err := s.forms.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete form: %w", err)
	}
	return doc.toModel()
}

func (s *MongoStore) CreateResponse(ctx context.Context, response *models.Response) error {
	data, err := encodeValue(response.ResponseData)
	if err != nil {
		return fmt.Errorf("failed to encode response data: %w", err)
	}
	value, err := jsonToBSON(data)
	if err != nil {
		return fmt.Errorf("failed to convert response data: %w", err)
	}

	response.ID = auth.GenerateID()
	response.CreatedAt = s.now()
	response.ResponseData = data

	_, err = s.responses.InsertOne(ctx, mongoResponse{
		ID:           response.ID,
		FormID:       response.FormID,
		ResponseData: value,
		Name:         response.Name,
		CreatedAt:    response.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (s *MongoStore) AppendFormResponse(ctx context.Context, formID, responseID string) error {
	result, err := s.forms.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: formID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "responses", Value: responseID}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to append form response: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.responses.Find(ctx, bson.D{{Key: "formId", Value: formID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}

	var docs []mongoResponse
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	responses := make([]models.Response, 0, len(docs))
	for _, doc := range docs {
		data, err := bsonToJSON(doc.ResponseData)
		if err != nil {
			return nil, fmt.Errorf("failed to convert response data: %w", err)
		}
		responses = append(responses, models.Response{
			ID:           doc.ID,
			FormID:       doc.FormID,
			ResponseData: data,
			Name:         doc.Name,
			CreatedAt:    doc.CreatedAt,
		})
	}
	return responses, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
