package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pedidos/internal/config"
	"pedidos/internal/domain/model"
	infra "pedidos/internal/infra/repository"
	repo "pedidos/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// helper
// =====================

type fixture struct {
	srv        *httptest.Server
	client     *Client
	identities *infra.IdentityStorageRepository
	metrics    *Metrics
}

func newFixture(t *testing.T, h http.Handler) *fixture {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	identities := infra.NewIdentityStorageRepository(infra.NewStorageMemoryRepository())
	metrics := NewMetrics(prometheus.NewRegistry())

	c, err := NewClient(config.APIConfig{
		BaseURL:   srv.URL + "/",
		Timeout:   5 * time.Second,
		CSRFToken: "csrf-123",
	}, identities, WithMetrics(metrics))
	require.NoError(t, err)

	return &fixture{srv: srv, client: c, identities: identities, metrics: metrics}
}

func (f *fixture) login(t *testing.T, access string, refresh string) {
	t.Helper()
	require.NoError(t, f.identities.Save(context.Background(), model.Identity{
		Username:     "ana",
		ID:           7,
		Role:         model.RoleCliente,
		Token:        access,
		RefreshToken: refresh,
	}))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =====================
// headers
// =====================

func TestClient_AttachesBearerAndCSRF(t *testing.T) {
	var gotAuth, gotCSRF, gotReqID string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCSRF = r.Header.Get(HeaderCSRF)
		gotReqID = r.Header.Get(HeaderRequestID)
		writeJSON(w, http.StatusOK, []model.Product{})
	}))
	f.login(t, "acc-1", "ref-1")

	var out []model.Product
	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer acc-1", gotAuth)
	assert.Equal(t, "csrf-123", gotCSRF)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_NoIdentity_NoBearer(t *testing.T) {
	var gotAuth string
	var hasCSRF bool
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasCSRF = r.Header[http.CanonicalHeaderKey(HeaderCSRF)]
		writeJSON(w, http.StatusOK, []model.Product{})
	}))

	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.True(t, hasCSRF)
}

func TestClient_DoPublic_SkipsAuth(t *testing.T) {
	var gotAuth string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account"})
	}))
	f.login(t, "acc-1", "ref-1")

	err := f.client.DoPublic(context.Background(), http.MethodPost, "/api/token/", map[string]string{"username": "x"}, nil)
	require.Error(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.refreshes.WithLabelValues("failure")))
}

// =====================
// refresh-on-401
// =====================

func TestClient_401_RefreshesAndRetriesOnce(t *testing.T) {
	var refreshCalls, orderCalls int32
	var reqIDs []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "ref-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "bad refresh"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "acc-2"})
	})
	mux.HandleFunc("/api/pedidos/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&orderCalls, 1)
		reqIDs = append(reqIDs, r.Header.Get(HeaderRequestID))
		if r.Header.Get("Authorization") != "Bearer acc-2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []model.Order{{ID: 1, Status: model.OrderStatusPendiente}})
	})

	f := newFixture(t, mux)
	f.login(t, "acc-1", "ref-1")

	var refreshed model.Identity
	f.client.OnTokenRefreshed(func(ctx context.Context, identity model.Identity) {
		refreshed = identity
	})

	var out []model.Order
	err := f.client.Do(context.Background(), http.MethodGet, "/api/pedidos/", nil, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&orderCalls))
	require.Len(t, reqIDs, 2)
	assert.Equal(t, reqIDs[0], reqIDs[1])

	saved, err := f.identities.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-2", saved.Token)
	assert.Equal(t, "ref-1", saved.RefreshToken)
	assert.Equal(t, "acc-2", refreshed.Token)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.refreshes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.requests.WithLabelValues(http.MethodGet, "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.requests.WithLabelValues(http.MethodGet, "200")))
}

func TestClient_Second401_DoesNotRefreshAgain(t *testing.T) {
	var refreshCalls, calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "acc-2", "refresh": "ref-2"})
	})
	mux.HandleFunc("/api/entregas/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "still no"})
	})

	f := newFixture(t, mux)
	f.login(t, "acc-1", "ref-1")

	expired := false
	f.client.OnAuthExpired(func(ctx context.Context) { expired = true })

	err := f.client.Do(context.Background(), http.MethodGet, "/api/entregas/", nil, nil)
	require.Error(t, err)

	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "still no", ae.Detail)

	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.False(t, expired)

	saved, _ := f.identities.Load(context.Background())
	assert.Equal(t, "ref-2", saved.RefreshToken)
}

func TestClient_RefreshFailure_ExpiresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})
	mux.HandleFunc("/api/productos/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})

	f := newFixture(t, mux)
	f.login(t, "acc-1", "ref-1")

	var expiredCalls int32
	f.client.OnAuthExpired(func(ctx context.Context) { atomic.AddInt32(&expiredCalls, 1) })

	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&expiredCalls))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.refreshes.WithLabelValues("failure")))
}

func TestClient_NoRefreshToken_ExpiresWithoutCall(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/api/pedidos/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})

	f := newFixture(t, mux)
	f.login(t, "acc-1", "")

	expired := false
	f.client.OnAuthExpired(func(ctx context.Context) { expired = true })

	err := f.client.Do(context.Background(), http.MethodGet, "/api/pedidos/", nil, nil)
	require.Error(t, err)
	assert.True(t, expired)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
}

func TestClient_401_LoggedOut_NoExpire(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
	}))

	expired := false
	f.client.OnAuthExpired(func(ctx context.Context) { expired = true })

	err := f.client.Do(context.Background(), http.MethodGet, "/api/pedidos/", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, expired)
}

// =====================
// errors / decoding
// =====================

func TestClient_ErrorDetailPassthrough(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "No tiene permiso"})
	}))
	f.login(t, "acc-1", "ref-1")

	err := f.client.Do(context.Background(), http.MethodDelete, "/api/productos/3/", nil, nil)
	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, ae.Status)
	assert.Equal(t, "No tiene permiso", ae.Detail)
	assert.Equal(t, "403: No tiene permiso", err.Error())
}

func TestClient_ErrorWithoutDetail(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	}))

	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, nil)
	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.Empty(t, ae.Detail)
}

func TestClient_TransportError(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	f.srv.Close()

	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusOf(err))
}

func TestClient_DecodeError(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "{not json")
	}))

	var out []model.Product
	err := f.client.Do(context.Background(), http.MethodGet, "/api/productos/", nil, &out)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(config.APIConfig{BaseURL: "not-a-url"}, infra.NewIdentityStorageRepository(infra.NewStorageMemoryRepository()))
	assert.Error(t, err)
}

// =====================
// resources
// =====================

func TestOrderAPI_CreateWithItems_Payload(t *testing.T) {
	var got map[string]json.RawMessage
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/pedidos/crear-con-items/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id": 10, "cliente": 7, "direccion_envio": "Calle 1", "estado": "pendiente", "monto_total": "50.00",
		})
	}))
	f.login(t, "acc-1", "ref-1")

	out, err := NewOrderAPI(f.client).CreateWithItems(context.Background(), model.OrderDraft{
		Order: model.OrderHeader{
			ClienteID:       7,
			ShippingAddress: "Calle 1",
			Status:          model.OrderStatusPendiente,
			Total:           decimal.NewFromInt(50),
		},
		Items: []model.OrderDraftItem{{ProductID: 1, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(50)))

	assert.JSONEq(t, `{"cliente":7,"direccion_envio":"Calle 1","estado":"pendiente","monto_total":"50"}`, string(got["pedido"]))
	assert.JSONEq(t, `[{"producto_id":1,"cantidad":5}]`, string(got["items"]))
}

func TestOrderAPI_UpdateStatus_PatchesEstadoOnly(t *testing.T) {
	var body string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/pedidos/4/", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		writeJSON(w, http.StatusOK, map[string]string{"estado": "entregado"})
	}))

	err := NewOrderAPI(f.client).UpdateStatus(context.Background(), 4, model.OrderStatusEntregado)
	require.NoError(t, err)
	assert.JSONEq(t, `{"estado":"entregado"}`, body)
}

func TestProductAPI_List_DecodesDecimal(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"nombre":"Cafe","descripcion":"x","precio":"10.50","stock":3},{"id":2,"nombre":"Te","descripcion":"y","precio":4,"stock":0}]`)
	}))

	out, err := NewProductAPI(f.client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "10.5", out[0].Price.String())
	assert.Equal(t, "4", out[1].Price.String())
}

func TestDeliveryAPI_Update_SendsOnlySetFields(t *testing.T) {
	var body string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/entregas/2/", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 2, "pedido": 9, "estado": "en_camino"})
	}))

	status := model.DeliveryStatusEnCamino
	out, err := NewDeliveryAPI(f.client).Update(context.Background(), 2, model.DeliveryPatch{Status: &status})
	require.NoError(t, err)
	assert.JSONEq(t, `{"estado":"en_camino"}`, body)
	assert.Equal(t, model.DeliveryStatusEnCamino, out.Status)
	assert.Nil(t, out.CourierID)
}

func TestDeliveryAPI_Update_UnassignSendsNull(t *testing.T) {
	var body string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 2, "pedido": 9, "asignado_a": nil, "estado": "pendiente"})
	}))

	out, err := NewDeliveryAPI(f.client).Update(context.Background(), 2, model.DeliveryPatch{
		CourierID:   model.Null[int64](),
		DeliveredAt: model.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"asignado_a":null,"fecha_entrega":null}`, body)
	assert.Nil(t, out.CourierID)
}

func TestDeliveryPatch_DecodesExplicitNull(t *testing.T) {
	var patch model.DeliveryPatch
	require.NoError(t, json.Unmarshal([]byte(`{"asignado_a":null}`), &patch))
	assert.True(t, patch.CourierID.IsNull())
	assert.False(t, patch.DeliveredAt.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"asignado_a":5}`), &patch))
	require.NotNil(t, patch.CourierID.Value)
	assert.Equal(t, int64(5), *patch.CourierID.Value)

	b, err := json.Marshal(model.DeliveryPatch{CourierID: model.Some[int64](5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"asignado_a":5}`, string(b))
}

func TestProfileAPI_List_RoleFilter(t *testing.T) {
	var query string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []model.Profile{{ID: 3, Username: "rep", Role: model.RoleRepartidor}})
	}))

	out, err := NewProfileAPI(f.client).List(context.Background(), model.RoleRepartidor)
	require.NoError(t, err)
	assert.Equal(t, "rol=repartidor", query)
	require.Len(t, out, 1)

	_, err = NewProfileAPI(f.client).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, query)
}

func TestTokenAPI_Obtain(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "a", "refresh": "r"})
	}))
	tokens := NewTokenAPI(f.client)

	pair, err := tokens.Obtain(context.Background(), "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.TokenPair{Access: "a", Refresh: "r"}, pair)

	_, err = tokens.Obtain(context.Background(), "ana", "wrong")
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)
}

func TestTokenAPI_Obtain_ServerError(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "upstream"})
	}))

	_, err := NewTokenAPI(f.client).Obtain(context.Background(), "ana", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrInvalidCredentials)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}
