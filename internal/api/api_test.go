package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testServer struct {
	router *gin.Engine
	store  *store.Store
	fx     *testhelpers.Fixtures
	auth   *service.AuthService
	images *storage.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	s := store.New(testhelpers.SetupSQLiteDB(t), log)
	images := storage.NewMemoryStore("http://testserver")
	auth := service.NewAuthService(s, "test-secret", log)

	router := gin.New()
	SetupAPI(router, &Services{
		Auth:          auth,
		Profiles:      service.NewProfileService(s, images, log),
		Subscriptions: service.NewSubscriptionService(s, nil, log),
		Catalog:       service.NewCatalogService(s, log),
		Recipes:       service.NewRecipeService(s, images, log),
		Relations: []service.IRelationService{
			service.NewRelationService(s, model.KindFavorite, nil, log),
			service.NewRelationService(s, model.KindCart, nil, log),
		},
		ShoppingList: service.NewShoppingListService(s, nil),
		ShortLinks:   service.NewShortLinkService(s, nil),
	}, Options{Log: log})
	RegisterMediaRoutes(router, images)

	return &testServer{router: router, store: s, fx: testhelpers.NewFixtures(t, s), auth: auth, images: images}
}

// userToken creates a user directly and signs a token for it.
func (ts *testServer) userToken(t *testing.T, username string) (*model.User, string) {
	t.Helper()
	u := ts.fx.User(username)
	token, err := ts.auth.GenerateToken(u)
	require.NoError(t, err)
	return u, token
}

func (ts *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	decode(t, rec, &body)
	return body.Code
}
