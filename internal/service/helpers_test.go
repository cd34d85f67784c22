package service_test

import (
	"alcyxob/training-app/internal/service"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newActor() service.Actor {
	return service.Actor{
		UserID:   primitive.NewObjectID().Hex(),
		Username: gofakeit.Username(),
	}
}

func oid(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}

func ptr[T any](v T) *T {
	return &v
}

// fakeFileStorage records presign and delete calls in memory.
type fakeFileStorage struct {
	mu        sync.Mutex
	deleted   []string
	deleteErr error
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + key + "?ct=" + contentType, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileStorage) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

var errStoreDown = errors.New("store down")
