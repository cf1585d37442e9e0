package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/model"
	"github.com/kasflow/txbuilder/settings"
	"github.com/kasflow/txbuilder/ulogger"
	"github.com/kasflow/txbuilder/util"
)

type Client struct {
	logger   ulogger.Logger
	settings *settings.Settings
	baseURL  string
}

func NewClient(logger ulogger.Logger, tSettings *settings.Settings) (*Client, error) {
	if tSettings.Indexer.BaseURL == "" {
		return nil, errors.NewConfigurationError("indexer_httpAddress is required")
	}

	return &Client{
		logger:   logger,
		settings: tSettings,
		baseURL:  tSettings.Indexer.BaseURL,
	}, nil
}

// GetUTXOsByAddress returns the spendable outputs of an address. An empty
// result is returned as an empty slice, not an error. Each call is bounded
// by the configured indexer timeout; there is no retry at this layer.
func (c *Client) GetUTXOsByAddress(ctx context.Context, address string) ([]*model.SpendableOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.Indexer.Timeout)
	defer cancel()

	requestURL := fmt.Sprintf("%s/addresses/%s/utxos", c.baseURL, url.PathEscape(address))

	body, err := util.DoHTTPRequest(ctx, requestURL)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			// an unknown address simply has nothing to spend
			return []*model.SpendableOutput{}, nil
		}

		return nil, errors.NewServiceError("failed to fetch utxos for %s", address, err)
	}

	var utxos []*model.SpendableOutput
	if err = json.Unmarshal(body, &utxos); err != nil {
		return nil, errors.NewServiceError("failed to decode utxos response for %s", address, err)
	}

	for _, u := range utxos {
		if err = u.Validate(); err != nil {
			return nil, errors.NewServiceError("indexer returned an invalid utxo for %s", address, err)
		}
	}

	return utxos, nil
}

func (c *Client) Health(ctx context.Context, _ bool) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.Indexer.Timeout)
	defer cancel()

	if _, err := util.DoHTTPRequest(ctx, c.baseURL+"/info"); err != nil {
		return http.StatusServiceUnavailable, "indexer unreachable", err
	}

	return http.StatusOK, "OK", nil
}
