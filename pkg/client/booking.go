package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"servly/pkg/model"
	"time"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingForbidden = errors.New("booking not visible to caller")
)

// BookingClient reads bookings from the bookings service on behalf of the
// caller, forwarding its bearer token so visibility rules apply there.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string, timeout time.Duration) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

func (c *BookingClient) GetByID(ctx context.Context, id string, bearerToken string) (*model.Booking, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	resp, err := c.httpClient.GET(ctx, path, map[string]string{
		"Authorization": "Bearer " + bearerToken,
	})
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return DecodeBooking(resp)
	case http.StatusNotFound:
		return nil, ErrBookingNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, ErrBookingForbidden
	default:
		return nil, fmt.Errorf("bookings service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
}

func DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %s: %w", resp, err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json: %s: %w", resp, err)
	}

	return &booking, nil
}
