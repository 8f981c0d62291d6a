package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// pngURI is a one pixel PNG.
const pngURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type env struct {
	store   *store.Store
	fx      *testhelpers.Fixtures
	images  *storage.MemoryStore
	metrics *observability.Metrics
	log     *logger.Logger
}

func newEnv(t *testing.T) *env {
	s := store.New(testhelpers.SetupSQLiteDB(t), logger.NewNop())
	return &env{
		store:   s,
		fx:      testhelpers.NewFixtures(t, s),
		images:  storage.NewMemoryStore("http://testserver"),
		metrics: observability.NewMetrics(),
		log:     logger.NewNop(),
	}
}
