package graph

import (
	"errors"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultTopic             = "general"
	DefaultEvidenceNamespace = "OPENALEX"
)

// DefaultExtensions is the document filter used for directory runs.
var DefaultExtensions = []string{".pdf"}

// IDFunc generates identifiers for events, relationships and evidence.
type IDFunc func() (string, error)

// GraphClient extracts key event graphs from documents. It owns the
// inference and acquisition collaborators and the limits applied to
// document text.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	aiClient          ai.GraphAIClient
	loader            loader.GraphFileLoader
	extensions        []string
	textLimits        loader.TextLimits
	evidenceNamespace string
	parallelFiles     int
	newID             IDFunc
	genOpts           []ai.GenerateOption
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// AIClient and Loader are required. Extensions filters documents in
// directory runs and is matched case-insensitively. ParallelFiles controls
// how many documents of a directory are processed at once; values below 2
// process documents one after the other. IDFunc defaults to nanoid.
type NewGraphClientParams struct {
	AIClient          ai.GraphAIClient
	Loader            loader.GraphFileLoader
	Extensions        []string
	TextLimits        loader.TextLimits
	EvidenceNamespace string
	ParallelFiles     int
	IDFunc            IDFunc
	GenerateOptions   []ai.GenerateOption
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		AIClient: aiClient,
//		Loader:   fileLoader,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := client.Extract(ctx, "liver fibrosis", "./papers")
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.AIClient == nil {
		return nil, errors.New("graph client requires an AI client")
	}
	if params.Loader == nil {
		return nil, errors.New("graph client requires a file loader")
	}

	extensions := make([]string, 0, len(params.Extensions))
	for _, ext := range params.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	if len(extensions) == 0 {
		extensions = append(extensions, DefaultExtensions...)
	}

	namespace := strings.TrimSpace(params.EvidenceNamespace)
	if namespace == "" {
		namespace = DefaultEvidenceNamespace
	}

	parallel := params.ParallelFiles
	if parallel < 1 {
		parallel = 1
	}

	newID := params.IDFunc
	if newID == nil {
		newID = func() (string, error) { return gonanoid.New() }
	}

	return &GraphClient{
		aiClient:          params.AIClient,
		loader:            params.Loader,
		extensions:        extensions,
		textLimits:        params.TextLimits,
		evidenceNamespace: namespace,
		parallelFiles:     parallel,
		newID:             newID,
		genOpts:           params.GenerateOptions,
	}, nil
}

func (g *GraphClient) options(systemPrompt string) []ai.GenerateOption {
	opts := make([]ai.GenerateOption, 0, len(g.genOpts)+1)
	opts = append(opts, g.genOpts...)
	return append(opts, ai.WithSystemPrompts(systemPrompt))
}
