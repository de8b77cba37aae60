package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/app"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/auth"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/domain/reports"
	v1 "aquaops/internal/infrastructure/http/v1"
	"aquaops/internal/infrastructure/http/v1/dto"
	"aquaops/internal/infrastructure/storage/memory"
	"aquaops/pkg/logger"
)

type testServer struct {
	t      *testing.T
	router http.Handler
	tokens *auth.JWTService
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	services := app.New(app.MemoryRepositories(memory.New()), app.Options{
		Now: func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) },
	})
	tokens := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))

	srv := &testServer{
		t:      t,
		tokens: tokens,
		router: v1.NewRouter(v1.RouterConfig{
			Services: services,
			Logger:   logger.Nop(),
			Tokens:   tokens,
			Storage:  "memory",
		}),
	}
	srv.admin = srv.token(appctx.Actor{ID: "admin-1", Name: "Admin", Role: appctx.RoleAdmin})
	return srv
}

func (s *testServer) token(actor appctx.Actor) string {
	s.t.Helper()
	tok, _, err := s.tokens.GenerateAccessToken(actor)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth_LiveNeedsNoToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/v1/customers", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.False(t, body.Retryable)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = srv.do(http.MethodGet, "/api/v1/customers", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_ModeratorCannotManageInventory(t *testing.T) {
	srv := newTestServer(t)
	tok := srv.token(appctx.Actor{ID: "m-1", Role: appctx.RoleModerator})

	w := srv.do(http.MethodPost, "/api/v1/inventory/setup", tok, dto.SetupInventoryRequest{TotalBottles: 10})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, w).Code)
}

func TestAPI_InvalidBodyIsValidationError(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/inventory/bottles", srv.admin, dto.BottleCountRequest{Bottles: 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[dto.ErrorResponse](t, w).Code)

	w = srv.do(http.MethodGet, "/api/v1/deliveries/not-a-uuid", srv.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_DeliveryRound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/inventory/setup", srv.admin, dto.SetupInventoryRequest{TotalBottles: 500})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(http.MethodPost, "/api/v1/moderators", srv.admin, dto.CreateModeratorRequest{
		Name: "Ravi", Phone: "+971500000001", Areas: []string{"Marina"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mod := decode[moderator.Moderator](t, w)

	w = srv.do(http.MethodPost, "/api/v1/customers", srv.admin, dto.CreateCustomerRequest{
		Name: "Blue Tower", Phone: "+971500000002", Area: "Marina",
		ModeratorID: &mod.ID, BottlePrice: types.MustMoney("10"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cust := decode[customer.Customer](t, w)

	modToken := srv.token(appctx.Actor{ID: mod.ID.String(), Name: mod.Name, Role: appctx.RoleModerator})

	w = srv.do(http.MethodPost, "/api/v1/usage/take", modToken, dto.TakeBottlesRequest{FilledBottles: 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(40), decode[usage.BottleUsage](t, w).Remaining)

	w = srv.do(http.MethodPost, "/api/v1/deliveries", modToken, dto.CreateDeliveryRequest{
		CustomerID: cust.ID,
		CountsRequest: dto.CountsRequest{
			FilledBottles: 6, EmptyBottles: 2, FOC: 1, Payment: types.MustMoney("20"),
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	d := decode[delivery.Delivery](t, w)
	assert.True(t, types.MustMoney("50").Equal(d.Bill))
	assert.NotEmpty(t, d.Number)

	w = srv.do(http.MethodGet, "/api/v1/customers/"+cust.ID.String(), modToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[customer.Customer](t, w)
	assert.True(t, types.MustMoney("30").Equal(got.Balance), got.Balance.String())
	assert.Equal(t, int64(4), got.Bottles)

	w = srv.do(http.MethodGet, "/api/v1/usage/today", modToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[usage.BottleUsage](t, w)
	assert.Equal(t, int64(6), u.Sales)
	assert.Equal(t, int64(34), u.Remaining)
	assert.Equal(t, int64(2), u.Empty)

	w = srv.do(http.MethodGet, "/api/v1/inventory", srv.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(460), decode[inventory.TotalBottles](t, w).Available)

	w = srv.do(http.MethodGet, "/api/v1/reports/daily?day=2024-03-05", srv.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[reports.DailySummary](t, w)
	require.Len(t, summary.Moderators, 1)
	assert.Equal(t, "Ravi", summary.Moderators[0].ModeratorName)
	assert.True(t, types.MustMoney("20").Equal(summary.TotalPayments))

	w = srv.do(http.MethodGet, "/api/v1/deliveries?customerId="+cust.ID.String(), modToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items      []delivery.Delivery `json:"items"`
		TotalCount int64               `json:"totalCount"`
	}](t, w)
	assert.Equal(t, int64(1), list.TotalCount)

	w = srv.do(http.MethodGet, "/api/v1/audit/customer/"+cust.ID.String(), srv.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"entityType":"customer"`)
}

func TestAPI_DeliveryRejectsFOCAboveFilled(t *testing.T) {
	srv := newTestServer(t)
	tok := srv.token(appctx.Actor{ID: "00000000-0000-0000-0000-000000000001", Role: appctx.RoleModerator})

	w := srv.do(http.MethodPost, "/api/v1/deliveries", tok, dto.CreateDeliveryRequest{
		CountsRequest: dto.CountsRequest{FilledBottles: 1, FOC: 2},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "foc", body.Details["field"])
}
