package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/ContractRAG/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var once sync.Once
var pooledClient *http.Client

// GetHttpClient returns the shared client the model SDKs reuse so that
// generation and embedding calls keep their connections warm.
func GetHttpClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{
			Transport: customTransport,
			Timeout:   config.GenerationTimeout,
		}
	})
	return pooledClient
}
