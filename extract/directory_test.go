package extract

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oletk/sales-insights-etl/config"
	"github.com/stretchr/testify/assert"
)

const directoryPayload = `[
  {
    "id": 1,
    "name": "Leanne Graham",
    "username": "Bret",
    "email": "Sincere@april.biz",
    "address": {
      "street": "Kulas Light",
      "geo": {"lat": "-37.3159", "lng": "81.1496"}
    }
  },
  {
    "id": 2,
    "name": "Ervin Howell",
    "username": "Antonette",
    "email": "Shanna@melissa.tv",
    "address": {
      "street": "Victor Plains",
      "geo": {"lat": "-43.9509", "lng": "-34.4618"}
    }
  }
]`

func getTestConfig(url string) *config.Config {
	return &config.Config{
		Directory: config.DirectoryConfig{URL: url},
		Extract: config.ExtractConfig{
			Backoff: config.BackoffConfig{
				RetryWaitMin: 10 * time.Millisecond,
				RetryWaitMax: 20 * time.Millisecond,
				RetryMax:     0,
			},
		},
	}
}

func getTestLogger(buffer *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buffer, nil))
}

func TestFetchCustomers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(directoryPayload))
	}))
	defer server.Close()

	client := NewDirectoryClient(getTestConfig(server.URL), getTestLogger(&bytes.Buffer{}))

	customers, err := client.FetchCustomers()
	assert.NoError(t, err)
	assert.Equal(t, []Customer{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Lat: -37.3159, Lng: 81.1496},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Lat: -43.9509, Lng: -34.4618},
	}, customers)
}

func TestFetchCustomers_NonSuccessStatusIsError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{
			// 5xx is retryable, so the client reports it as a transport
			// error with no response once retries are exhausted.
			name:   "server error",
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "client error",
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("directory down"))
			}))
			defer server.Close()

			client := NewDirectoryClient(getTestConfig(server.URL), getTestLogger(&bytes.Buffer{}))

			customers, err := client.FetchCustomers()
			assert.Error(t, err)
			assert.Nil(t, customers)
			assert.Contains(t, err.Error(), "customer directory")
		})
	}
}

func TestFetchCustomers_InvalidCoordinatesAreFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "name": "X", "username": "x", "email": "x@example.com", "address": {"geo": {"lat": "not-a-number", "lng": "0"}}}]`))
	}))
	defer server.Close()

	client := NewDirectoryClient(getTestConfig(server.URL), getTestLogger(&bytes.Buffer{}))

	_, err := client.FetchCustomers()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid latitude")
}

func TestFetchCustomers_MalformedJSONIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	client := NewDirectoryClient(getTestConfig(server.URL), getTestLogger(&bytes.Buffer{}))

	_, err := client.FetchCustomers()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}
