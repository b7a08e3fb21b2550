package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/auth/identity"
	"wishlist-backend/internal/features/auth/initdata"
	"wishlist-backend/internal/features/auth/token"
)

const (
	testBotToken = "123456:TEST-token"
	testSecret   = "test-jwt-secret"
)

type envelope struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Path      string `json:"path"`
	Error     struct {
		Code    string                 `json:"code"`
		Reason  string                 `json:"reason"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *token.Issuer) {
	t.Helper()
	issuer, err := token.NewIssuer(testSecret, token.DefaultAlgorithm, time.Hour)
	require.NoError(t, err)
	resolver := identity.NewResolver(initdata.NewVerifier(testBotToken, initdata.DefaultMaxAge), issuer)

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Recovery())

	r.POST("/auth", RequireInitData(resolver), func(c *gin.Context) {
		id, err := GetIdentity(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.ID})
	})
	r.GET("/me", RequireBearer(resolver), func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID})
	})
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperrors.NewNotFoundError("Gift", 9))
	})
	r.GET("/forbidden", func(c *gin.Context) {
		_ = c.Error(apperrors.NewForbiddenError(apperrors.ReasonNotOwner, "Not the owner"))
	})
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperrors.NewConflictError("Gift", apperrors.ReasonAlreadyReserved, "Already reserved"))
	})
	r.GET("/db", func(c *gin.Context) {
		_ = c.Error(apperrors.NewDatabaseError("get gift", errors.New("connection refused")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})
	return r, issuer
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signedInitData(authDate time.Time) string {
	values := url.Values{
		"auth_date": {strconv.FormatInt(authDate.Unix(), 10)},
		"user":      {`{"id":100,"first_name":"Ann"}`},
	}
	values.Set("hash", initdata.Sign(values, testBotToken))
	return values.Encode()
}

func TestRequireBearer(t *testing.T) {
	r, issuer := newTestRouter(t)
	tok, err := issuer.Issue(100)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantReason string
	}{
		{name: "valid token", header: "Bearer " + tok.AccessToken, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + tok.AccessToken, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantReason: "MissingHeader"},
		{name: "basic scheme", header: "Basic xyz", wantStatus: http.StatusUnauthorized, wantReason: "InvalidScheme"},
		{name: "no token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantReason: "InvalidScheme"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantReason: "InvalidSignature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[AuthorizationHeader] = tt.header
			}
			w := do(r, http.MethodGet, "/me", headers)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantReason == "" {
				assert.JSONEq(t, `{"id":100}`, w.Body.String())
				return
			}
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
			assert.Equal(t, tt.wantReason, body.Error.Reason)
		})
	}
}

func TestRequireInitData(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth", map[string]string{InitDataHeader: signedInitData(time.Now())})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":100}`, w.Body.String())

	w = do(r, http.MethodPost, "/auth", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MissingHeader", decode(t, w).Error.Reason)

	w = do(r, http.MethodPost, "/auth", map[string]string{InitDataHeader: signedInitData(time.Now().Add(-48 * time.Hour))})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Expired", decode(t, w).Error.Reason)
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{"/missing", http.StatusNotFound, "NOT_FOUND", "Gift"},
		{"/forbidden", http.StatusForbidden, "FORBIDDEN", "NotOwner"},
		{"/conflict", http.StatusConflict, "CONFLICT", "AlreadyReserved"},
		{"/db", http.StatusInternalServerError, "DATABASE_ERROR", ""},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"/panic", http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.wantStatus, w.Code)

			body := decode(t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantReason, body.Error.Reason)
			assert.Equal(t, tt.path, body.Path)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/db", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.NotContains(t, w.Body.String(), "get gift")
}

func TestRequestID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/missing", map[string]string{requestIDHeader: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
	assert.Equal(t, "req-42", decode(t, w).RequestID)

	w = do(r, http.MethodGet, "/missing", nil)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestHTTPMetrics(t *testing.T) {
	metrics := NewHTTPMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", metrics.Handler())

	do(r, http.MethodGet, "/ping/1", nil)
	do(r, http.MethodGet, "/ping/2", nil)

	w := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wishlist_http_requests_total{method="GET",route="/ping/:id",status="204"} 2`)
	assert.Contains(t, w.Body.String(), "wishlist_http_request_duration_seconds")
}
