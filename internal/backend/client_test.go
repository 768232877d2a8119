package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistaro/checkout-gateway/internal/model"
)

func TestGetEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/event/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"eventId":  7,
			"title":    "Interstellar",
			"category": "MOVIE",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	ev, err := c.GetEvent(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), ev.ID)
	assert.Equal(t, "Interstellar", ev.Title)
	assert.Equal(t, "MOVIE", ev.Category)
}

func TestGetSeatsForSlotDecodesPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/seat/slot/5", r.URL.Path)
		_, _ = w.Write([]byte(`[{"seatId":"A1","seatNumber":"A1","price":200},{"seatId":"A2","seatNumber":"A2","price":250.50}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	seats, err := c.GetSeatsForSlot(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.True(t, seats[0].Price.Equal(decimal.NewFromInt(200)))
	assert.True(t, seats[1].Price.Equal(decimal.RequireFromString("250.50")))
}

func TestUnlockSeatsSendsSeatIDs(t *testing.T) {
	var got struct {
		SeatIDs []string `json:"seatIds"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/seat/unlock", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	require.NoError(t, c.UnlockSeats(context.Background(), []string{"A1", "A2"}))
	assert.Equal(t, []string{"A1", "A2"}, got.SeatIDs)
}

func TestCreateBookingRejectionKeepsMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Offer VIST50 has expired"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	offer := "VIST50"
	_, err := c.CreateBooking(context.Background(), &model.BookingRequest{
		UserID:      1,
		SlotID:      5,
		SeatIDs:     []string{"A1"},
		OfferCode:   &offer,
		PaymentMode: "CARD",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Offer VIST50 has expired", apiErr.Message)
}

func TestCreateBookingSendsNullOptionalCodes(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"bookingId":42,"userId":1,"slotId":5,"seatIds":["A1"],"totalAmount":200}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	bk, err := c.CreateBooking(context.Background(), &model.BookingRequest{
		UserID:      1,
		SlotID:      5,
		SeatIDs:     []string{"A1"},
		FoodItems:   []model.FoodLine{},
		PaymentMode: "CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), bk.ID)
	assert.Equal(t, "null", string(raw["offerCode"]))
	assert.Equal(t, "null", string(raw["giftCardCode"]))
}

func TestBareStringErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`seat already booked`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.DeleteBooking(context.Background(), 9)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "seat already booked", apiErr.Message)
}
