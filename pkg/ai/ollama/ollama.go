package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 4

// GraphOllamaClient implements ai.GraphAIClient using a locally hosted
// Ollama server.
type GraphOllamaClient struct {
	extractionModel string
	temperature     float64
	thinking        string
	tokenEncoder    string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewGraphOllamaClientParams contains configuration options for creating a new GraphOllamaClient.
//
// TokenEncoder names the tiktoken encoding used to estimate the context
// window each request needs. MaxConcurrentRequests bounds in-flight
// requests against the server and defaults to 4.
type NewGraphOllamaClientParams struct {
	ExtractionModel string
	Temperature     float64
	Thinking        string
	TokenEncoder    string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewGraphOllamaClient creates a new Ollama-based AI client.
// It connects to the Ollama server at BaseURL, or the library default
// (OLLAMA_HOST) when BaseURL is empty.
func NewGraphOllamaClient(
	params NewGraphOllamaClientParams,
) (*GraphOllamaClient, error) {
	var cli *api.Client
	if params.BaseURL != "" {
		u, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
		headers := map[string]string{}
		if params.ApiKey != "" {
			headers["Authorization"] = "Bearer " + params.ApiKey
		}
		httpClient := &http.Client{
			Transport: &headerTransport{
				headers: headers,
				rt:      http.DefaultTransport,
			},
		}
		cli = api.NewClient(u, httpClient)
	} else {
		var err error
		cli, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}
	encoder := params.TokenEncoder
	if encoder == "" {
		encoder = "o200k_base"
	}

	return &GraphOllamaClient{
		extractionModel: params.ExtractionModel,
		temperature:     params.Temperature,
		thinking:        params.Thinking,
		tokenEncoder:    encoder,

		reqLock: semaphore.NewWeighted(maxReq),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		Client: cli,
	}, nil
}
