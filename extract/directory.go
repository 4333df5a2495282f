package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oletk/sales-insights-etl/config"
)

// Customer is one record from the remote customer directory.
type Customer struct {
	ID       int
	Name     string
	Username string
	Email    string
	Lat      float64
	Lng      float64
}

// directoryUser mirrors the wire shape of the directory endpoint. Coordinates
// arrive as strings nested under address.geo.
type directoryUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  struct {
		Geo struct {
			Lat string `json:"lat"`
			Lng string `json:"lng"`
		} `json:"geo"`
	} `json:"address"`
}

type DirectoryClient struct {
	HTTPClient *retryablehttp.Client
	Logger     *slog.Logger
	BaseURL    string
}

func NewDirectoryClient(cfg *config.Config, logger *slog.Logger) *DirectoryClient {
	return &DirectoryClient{
		HTTPClient: newHTTPClient(cfg, logger),
		Logger:     logger,
		BaseURL:    cfg.Directory.URL,
	}
}

// FetchCustomers fetches the full customer directory. Any transport error or
// non-200 status is returned as an error: the downstream joins cannot run on
// partial or synthetic customer data.
func (c *DirectoryClient) FetchCustomers() ([]Customer, error) {
	body, err := fetchData(c.HTTPClient, c.BaseURL, "customer directory")
	if err != nil {
		return nil, err
	}

	var users []directoryUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode customer directory response: %w", err)
	}

	customers := make([]Customer, 0, len(users))
	for _, user := range users {
		lat, err := strconv.ParseFloat(user.Address.Geo.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q for customer %d: %w", user.Address.Geo.Lat, user.ID, err)
		}
		lng, err := strconv.ParseFloat(user.Address.Geo.Lng, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q for customer %d: %w", user.Address.Geo.Lng, user.ID, err)
		}

		customers = append(customers, Customer{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Email:    user.Email,
			Lat:      lat,
			Lng:      lng,
		})
	}

	c.Logger.Info(fmt.Sprintf("Fetched %d customers from directory", len(customers)))

	return customers, nil
}
