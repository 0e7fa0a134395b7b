package opensearch_client

import (
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// New returns nil when no addresses are configured.
func New(cfg *config.Config, log *slog.Logger) (*opensearchapi.Client, error) {
	osCfg := cfg.Infrastructure.OpenSearch
	if len(osCfg.Addresses) == 0 {
		log.Info("opensearch disabled, portfolio search uses the database")
		return nil, nil
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: osCfg.InsecureSkipVerify},
				},
				Addresses: osCfg.Addresses,
				Username:  osCfg.Username,
				Password:  osCfg.Password,
			},
		},
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
