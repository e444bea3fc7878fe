package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент сервиса уведомлений о бронированиях
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Notify отправляет событие бронирования
func (c *Client) Notify(ctx context.Context, event BookingEvent) error {
	url := fmt.Sprintf("%s/internal/notifications/bookings", c.baseURL)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		var errResp ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}
}

// NotifyWithGracefulDegradation отправляет событие, но не считает недоступность сервиса ошибкой бронирования.
// При сбое возвращает ErrServiceDegraded, вызывающая сторона только логирует его
func (c *Client) NotifyWithGracefulDegradation(ctx context.Context, event BookingEvent) error {
	c.log.Info("Sending %s notification for booking_id=%d", event.Event, event.BookingID)

	if err := c.Notify(ctx, event); err != nil {
		c.log.Error("Notification service unavailable, applying graceful degradation for booking_id=%d: %v", event.BookingID, err)
		return fmt.Errorf("%w: booking_id=%d, error=%v", ErrServiceDegraded, event.BookingID, err)
	}

	c.log.Info("Notification %s delivered for booking_id=%d", event.Event, event.BookingID)
	return nil
}

// Noop используется, когда уведомления отключены в конфигурации
type Noop struct{}

// NotifyWithGracefulDegradation ничего не делает
func (Noop) NotifyWithGracefulDegradation(context.Context, BookingEvent) error {
	return nil
}
