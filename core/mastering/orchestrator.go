package mastering

import (
	"context"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/core/graph"
	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/model"
)

// Resolution is the complete mastering decision for one track.
type Resolution struct {
	Params    model.ParameterSet `json:"params"`
	Graph     *graph.Graph       `json:"graph"`
	Fallbacks []Fallback         `json:"fallbacks,omitempty"`
}

// Orchestrator runs parameter resolution and graph compilation as one
// operation. It is the only entry point callers need.
type Orchestrator struct {
	resolver  *Resolver
	templates TemplateProvider
}

// NewOrchestrator wires a catalog and template source into an orchestrator.
func NewOrchestrator(catalog *Catalog, templates TemplateProvider) *Orchestrator {
	return &Orchestrator{
		resolver:  NewResolver(catalog, templates),
		templates: templates,
	}
}

// Resolve produces the parameter set and filter graph for one track. A
// compilation failure means resolution produced an out-of-bounds set, which
// is a bug: it is logged and returned as an error, never patched over.
func (o *Orchestrator) Resolve(ctx context.Context, m model.TrackMeasurement, genreHint, profileHint string) (*Resolution, error) {
	params, fallbacks := o.resolver.Resolve(ctx, m, genreHint, profileHint)

	g, err := graph.Compile(params)
	if err != nil {
		logger.Error("filter graph compilation rejected resolved parameters",
			logger.String("genre", genreHint),
			logger.String("profile", profileHint),
			logger.ErrorField(err))
		return nil, fmt.Errorf("failed to compile filter graph: %w", err)
	}

	if len(fallbacks) > 0 {
		logger.Info("resolution degraded",
			logger.String("genre", genreHint),
			logger.String("profile", profileHint),
			logger.Any("fallbacks", fallbacks))
	}

	return &Resolution{Params: params, Graph: g, Fallbacks: fallbacks}, nil
}

// RefreshGenre drops the cached template for a genre so the next resolution
// re-derives it from the corpus.
func (o *Orchestrator) RefreshGenre(genre string) {
	o.templates.Refresh(genre)
}
