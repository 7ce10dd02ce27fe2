// Package rest реализует storage.Store поверх удалённой таблицы с REST-интерфейсом
// в стиле PostgREST: фильтры в query string (id=eq.X), Prefer: return=representation.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

const (
	eventsTable        = "/Events"
	subscriptionsTable = "/subscriptions"
)

// Config параметры подключения к удалённому хранилищу.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client клиент удалённого хранилища.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New создаёт клиент. Таймаут по умолчанию: 10 секунд.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Close освобождает простаивающие соединения.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// apiError тело ошибки удалённого хранилища.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}
	return req, nil
}

// do выполняет запрос и раскладывает ответ в строки. Статусы ответа переводятся
// в ошибки хранилища: 404: ErrNotFound, 400/409/422: ErrValidationRejected,
// остальные и ошибки транспорта: ErrBackendUnavailable.
func (c *Client) do(req *http.Request) ([]storage.Row, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		detail := apiErr.Message
		if detail == "" {
			detail = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, detail)
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: %s", models.ErrValidationRejected, detail)
		default:
			return nil, fmt.Errorf("%w: %s", models.ErrBackendUnavailable, detail)
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var rows []storage.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		var single storage.Row
		if errSingle := json.Unmarshal(body, &single); errSingle != nil {
			return nil, fmt.Errorf("%w: decode response: %w", models.ErrBackendUnavailable, err)
		}
		rows = []storage.Row{single}
	}
	return rows, nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any) ([]storage.Row, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

var _ storage.Store = (*Client)(nil)
