package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tillpoint-pos/tillpoint/internal/salesqueue"
	"github.com/tillpoint-pos/tillpoint/internal/shared"
)

func TestSubmitSuccess(t *testing.T) {
	var received transactionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":99,"products":[]}`))
	}))
	defer srv.Close()

	sub := NewSubmitter(srv.URL+"/transactions/create", http.MethodPost, 5*time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{
		{ProductID: 1, UnitPrice: 1000, Quantity: 2},
		{ProductID: 2, UnitPrice: 500, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, received.Products, 2)
	require.Equal(t, LineItem{ID: 1, SellingPrice: 1000, Quantity: 2}, received.Products[0])
}

func TestSubmitBlocksZeroQuantityBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	sub := NewSubmitter(srv.URL, http.MethodPost, 5*time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{
		{ProductID: 1, UnitPrice: 1000, Quantity: 2},
		{ProductID: 2, UnitPrice: 500, Quantity: 0},
	})
	require.ErrorIs(t, err, shared.ErrInvalidQuantity)
	require.False(t, called, "no network call may be issued for an invalid queue")
}

func TestSubmitEmptyQueue(t *testing.T) {
	sub := NewSubmitter("http://127.0.0.1:0", http.MethodPost, time.Second, nil)
	err := sub.Submit(context.Background(), nil)
	require.ErrorIs(t, err, shared.ErrEmptyQueue)
}

func TestSubmitServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Insufficient stock"}`))
	}))
	defer srv.Close()

	sub := NewSubmitter(srv.URL, http.MethodPost, 5*time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{{ProductID: 1, UnitPrice: 10, Quantity: 1}})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "Insufficient stock", rejected.Message)
}

func TestSubmitServerRejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sub := NewSubmitter(srv.URL, http.MethodPost, 5*time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{{ProductID: 1, UnitPrice: 10, Quantity: 1}})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, GenericRejectionMessage, rejected.Message)
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sub := NewSubmitter(srv.URL, http.MethodPost, time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{{ProductID: 1, UnitPrice: 10, Quantity: 1}})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSubmitMalformedRejectionBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	sub := NewSubmitter(srv.URL, http.MethodPost, 5*time.Second, nil)
	err := sub.Submit(context.Background(), []salesqueue.QueueLine{{ProductID: 1, UnitPrice: 10, Quantity: 1}})
	require.ErrorIs(t, err, ErrUnavailable)
}
