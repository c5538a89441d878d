package frontpad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"8 (912) 345-67-89", "+79123456789"},
		{"+7 912 345 67 89", "+79123456789"},
		{"79123456789", "+79123456789"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPhone(tt.in))
		})
	}
}

func TestOrderEncodePickup(t *testing.T) {
	order := Order{
		Name:    "Иван",
		Phone:   "8 912 345-67-89",
		Branch:  BranchLesoparkovaya,
		Comment: "без васаби",
		Persons: 2,
		Items: []OrderItem{
			{ID: 10, Article: "A-101", Quantity: 2},
			{ID: 11, Quantity: 1},
		},
		DeliveryNow: true,
	}

	form := order.Encode("s3cret")

	assert.Equal(t, "s3cret", form.Get("secret"))
	assert.Equal(t, "+79123456789", form.Get("phone"))
	assert.Equal(t, "2", form.Get("person"))
	assert.Equal(t, "САМОВЫВОЗ. Комментарий: без васаби", form.Get("descr"))
	assert.Equal(t, "238", form.Get("affiliate"))
	assert.Empty(t, form.Get("street"))

	assert.Equal(t, "A-101", form.Get("product[0]"))
	assert.Equal(t, "2", form.Get("product_kol[0]"))
	assert.Equal(t, "11", form.Get("product[1]"))
	assert.Equal(t, "1", form.Get("product_kol[1]"))
}

func TestOrderEncodePickupBaturinaNoAffiliate(t *testing.T) {
	order := Order{Branch: BranchBaturina, DeliveryNow: true}
	form := order.Encode("s")
	assert.Empty(t, form.Get("affiliate"))
}

func TestOrderEncodeDelivery(t *testing.T) {
	order := Order{
		Name:            "Анна",
		Phone:           "+7 (999) 111-22-33",
		IsDelivery:      true,
		Street:          "Ленина",
		HouseNumber:     "5",
		Entrance:        "2",
		Floor:           "4",
		ApartmentNumber: "17",
		Branch:          BranchLesoparkovaya, // must be ignored for delivery
		DeliveryNow:     true,
	}

	form := order.Encode("s")

	assert.Equal(t, "Ленина", form.Get("street"))
	assert.Equal(t, "5", form.Get("home"))
	assert.Equal(t, "2", form.Get("pod"))
	assert.Equal(t, "4", form.Get("et"))
	assert.Equal(t, "17", form.Get("apart"))
	assert.Empty(t, form.Get("affiliate"))
	assert.Empty(t, form.Get("descr"))
}

func TestOrderEncodeScheduledTimeLeadsComment(t *testing.T) {
	order := Order{
		IsDelivery: true,
		Comment:    "позвонить заранее",
		Time:       "25.12.2026 18:30",
	}

	form := order.Encode("s")
	assert.Equal(t, "Клиент заказал на 25.12.2026 18:30. Комментарий: позвонить заранее", form.Get("descr"))
}

func TestOrderEncodeMalformedTimeIgnored(t *testing.T) {
	order := Order{IsDelivery: true, Time: "soon"}
	form := order.Encode("s")
	assert.Empty(t, form.Get("descr"))
}

func TestSendOrderSuccess(t *testing.T) {
	var gotAction string
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.RawQuery
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Write([]byte(`{"result":"success","order_id":1553,"order_number":"A-42","warnings":["sale_blocked"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	result, err := client.SendOrder(context.Background(), Order{
		Name:        "Иван",
		Phone:       "89123456789",
		DeliveryNow: true,
		Items:       []OrderItem{{ID: 7, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, "new_order", gotAction)
	assert.Equal(t, "s3cret", gotForm.Get("secret"))
	assert.Equal(t, "7", gotForm.Get("product[0]"))
	assert.Equal(t, "1553", result.OrderID)
	assert.Equal(t, "A-42", result.OrderNumber)
	assert.JSONEq(t, `["sale_blocked"]`, string(result.Warnings))
}

func TestSendOrderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","error":"cash_close"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	_, err := client.SendOrder(context.Background(), Order{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "cash_close", apiErr.Code)
	assert.Contains(t, apiErr.Message(), "смена закрыта")
}

func TestSendOrderSecretMissing(t *testing.T) {
	for _, secret := range []string{"", "###"} {
		client := NewClient("http://unused", secret)
		_, err := client.SendOrder(context.Background(), Order{})
		assert.ErrorIs(t, err, ErrSecretMissing)
	}
}

func TestSendOrderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.SendOrder(ctx, Order{})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGetProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_products", r.URL.RawQuery)
		w.Write([]byte(`{
			"result": "success",
			"product_id": {"0": "101", "1": "102", "10": "110"},
			"name": {"0": "Ролл Филадельфия", "1": "Пицца Маргарита", "10": "Сет Большой"},
			"price": {"0": "499.50", "1": "650", "10": "nope"},
			"sale": {"0": "1", "1": "0", "10": "1"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	products, err := client.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, Product{ID: "101", Name: "Ролл Филадельфия", Price: 499.5, SaleEnabled: true}, products[0])
	assert.Equal(t, Product{ID: "102", Name: "Пицца Маргарита", Price: 650, SaleEnabled: false}, products[1])
	// numeric key ordering, "10" sorts after "1"
	assert.Equal(t, Product{ID: "110", Name: "Сет Большой", Price: 0, SaleEnabled: true}, products[2])
}

func TestGetStopsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","error":"no_stops"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	stops, err := client.GetStops(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestGetStops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"result": "success",
			"product_id": {"0": "101"},
			"name": {"0": "Ролл Филадельфия"},
			"price": {"0": "499.50"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	stops, err := client.GetStops(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, Stop{ID: "101", Name: "Ролл Филадельфия", Price: 499.5}, stops[0])
}
