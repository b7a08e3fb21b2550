package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/middleware"
	"wishlist-backend/internal/features/auth/identity"
	"wishlist-backend/internal/features/auth/initdata"
	"wishlist-backend/internal/features/auth/token"
	"wishlist-backend/internal/features/gift/models"
)

type fakeGiftService struct {
	added    []*models.Gift
	calls    []string
	opErr    error
	reserver int64
}

func (f *fakeGiftService) Add(_ context.Context, g *models.Gift) (int64, error) {
	f.added = append(f.added, g)
	return 7, nil
}

func (f *fakeGiftService) Get(_ context.Context, giftID, viewerID int64) (*models.Gift, error) {
	if giftID != 7 {
		return nil, apperrors.NewNotFoundError("Gift", giftID)
	}
	g := &models.Gift{ID: 7, OwnerID: 100, Name: "Bike", IsReserved: f.reserver != 0}
	if f.reserver == viewerID {
		g.ReservedBy = &f.reserver
	}
	return g, nil
}

func (f *fakeGiftService) ListByOwner(ctx context.Context, ownerID, viewerID int64) ([]*models.Gift, error) {
	g, _ := f.Get(ctx, 7, viewerID)
	return []*models.Gift{g}, nil
}

func (f *fakeGiftService) op(name string) error {
	f.calls = append(f.calls, name)
	return f.opErr
}

func (f *fakeGiftService) Delete(context.Context, int64, int64) error { return f.op("delete") }

func (f *fakeGiftService) Reserve(_ context.Context, _, reserverID int64) error {
	if err := f.op("reserve"); err != nil {
		return err
	}
	f.reserver = reserverID
	return nil
}

func (f *fakeGiftService) ReleaseByFriend(context.Context, int64, int64) error {
	return f.op("release_friend")
}

func (f *fakeGiftService) ReleaseByOwner(context.Context, int64, int64) error {
	return f.op("release_owner")
}

type client struct {
	router http.Handler
	tokens *token.Issuer
}

func setup(t *testing.T, svc *fakeGiftService) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := token.NewIssuer("secret", token.DefaultAlgorithm, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	resolver := identity.NewResolver(initdata.NewVerifier("bot", initdata.DefaultMaxAge), issuer)
	NewGiftHandler(svc).RegisterRoutes(r.Group("/api/v1"), resolver)
	return &client{router: r, tokens: issuer}
}

func (c *client) do(t *testing.T, as int64, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := c.tokens.Issue(as)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthorizationHeader, "Bearer "+tok.AccessToken)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func TestAdd(t *testing.T) {
	svc := &fakeGiftService{}
	c := setup(t, svc)

	w := c.do(t, 100, http.MethodPost, "/api/v1/gifts", `{"name":" Bike ","wish_rate":10,"price":1000000,"note":""}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	require.Len(t, svc.added, 1)
	g := svc.added[0]
	assert.Equal(t, int64(100), g.OwnerID)
	assert.Equal(t, "Bike", g.Name)
	require.NotNil(t, g.WishRate)
	assert.Equal(t, 10, *g.WishRate)
	require.NotNil(t, g.Price)
	assert.Equal(t, int64(1_000_000), *g.Price)
	assert.Empty(t, g.Note)
}

func TestAdd_InvalidPayload(t *testing.T) {
	tests := map[string]string{
		"missing name":   `{"url":"https://example.com"}`,
		"negative price": `{"name":"Bike","price":-1}`,
		"wish rate high": `{"name":"Bike","wish_rate":11}`,
		"not json":       `name=Bike`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &fakeGiftService{}
			w := setup(t, svc).do(t, 100, http.MethodPost, "/api/v1/gifts", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Empty(t, svc.added)
		})
	}
}

func TestBikeScenarioOverHTTP(t *testing.T) {
	svc := &fakeGiftService{}
	c := setup(t, svc)

	w := c.do(t, 200, http.MethodPost, "/api/v1/gifts/7/reserve", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var asReserver map[string]interface{}
	w = c.do(t, 200, http.MethodGet, "/api/v1/gifts/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &asReserver))
	assert.Equal(t, true, asReserver["is_reserved"])
	assert.Equal(t, float64(200), asReserver["reserved_by"])

	var wishlist []map[string]interface{}
	w = c.do(t, 100, http.MethodGet, "/api/v1/gifts/user/100", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wishlist))
	require.Len(t, wishlist, 1)
	assert.Equal(t, true, wishlist[0]["is_reserved"])
	assert.Nil(t, wishlist[0]["reserved_by"])
	assert.Nil(t, wishlist[0]["url"])
}

func TestGiftOperations_Status(t *testing.T) {
	tests := []struct {
		method     string
		path       string
		err        error
		wantStatus int
		wantCall   string
	}{
		{http.MethodDelete, "/api/v1/gifts/7", nil, http.StatusNoContent, "delete"},
		{http.MethodDelete, "/api/v1/gifts/7/reserve/friend", nil, http.StatusNoContent, "release_friend"},
		{http.MethodDelete, "/api/v1/gifts/7/reserve/owner", nil, http.StatusNoContent, "release_owner"},
		{http.MethodDelete, "/api/v1/gifts/7", apperrors.NewForbiddenError(apperrors.ReasonNotOwner, "no"), http.StatusForbidden, "delete"},
		{http.MethodPost, "/api/v1/gifts/7/reserve",
			apperrors.NewConflictError("Gift", apperrors.ReasonAlreadyReserved, "taken"), http.StatusConflict, "reserve"},
		{http.MethodPost, "/api/v1/gifts/7/reserve",
			apperrors.NewForbiddenError(apperrors.ReasonNotFriend, "no"), http.StatusForbidden, "reserve"},
		{http.MethodDelete, "/api/v1/gifts/x", nil, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			svc := &fakeGiftService{opErr: tt.err}
			w := setup(t, svc).do(t, 100, tt.method, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCall == "" {
				assert.Empty(t, svc.calls)
				return
			}
			assert.Equal(t, []string{tt.wantCall}, svc.calls)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	w := setup(t, &fakeGiftService{}).do(t, 100, http.MethodGet, "/api/v1/gifts/8", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"Gift"`)
}
