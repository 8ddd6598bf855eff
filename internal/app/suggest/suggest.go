// Package suggest answers free-text learning questions by grounding a
// completion model in the approved catalog: relevant resources are
// retrieved first and handed to the model as context, so suggestions only
// ever reference resources that actually exist.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencurio/resourcehub/internal/app/search"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/normalize"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.uber.org/zap"
)

// How many catalog entries are offered to the model as context.
const contextSize = 5

// Completer produces a free-text completion for a prompt. Implementations
// wrap an external model API; tests use a stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	searcher  *search.Service
	completer Completer
	log       *zap.Logger
}

// New builds the suggestion service. completer may be nil, in which case
// Suggest degrades to a plain list of the best-matching resources.
func New(searcher *search.Service, completer Completer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{searcher: searcher, completer: completer, log: log}
}

// Response is a suggestion with the resources it was grounded on.
type Response struct {
	Answer    string            `json:"answer"`
	Resources []models.Resource `json:"resources"`
}

// Suggest answers a question using the approved catalog. When no completion
// model is configured, or the model call fails, the answer falls back to a
// plain rendering of the matched resources rather than erroring: a degraded
// suggestion beats none.
func (s *Service) Suggest(ctx context.Context, question string) (Response, error) {
	question = normalize.QueryParam(question)
	if question == "" {
		return Response{}, apperr.Validationf("question is required")
	}

	res, err := s.searcher.Search(ctx, search.Request{Query: question, Size: contextSize})
	if err != nil {
		return Response{}, err
	}

	resp := Response{Resources: res.Resources}
	if s.completer == nil {
		resp.Answer = fallbackAnswer(res.Resources)
		return resp, nil
	}

	answer, err := s.completer.Complete(ctx, buildPrompt(question, res.Resources))
	if err != nil {
		s.log.Warn("completion failed, falling back to plain listing", zap.Error(err))
		resp.Answer = fallbackAnswer(res.Resources)
		return resp, nil
	}
	resp.Answer = strings.TrimSpace(answer)
	return resp, nil
}

func buildPrompt(question string, resources []models.Resource) string {
	var b strings.Builder
	b.WriteString("You recommend AI learning resources from a curated catalog.\n")
	b.WriteString("Answer the question using only the resources below. ")
	b.WriteString("Mention resources by title. If none fit, say so.\n\nResources:\n")
	for i, r := range resources {
		fmt.Fprintf(&b, "%d. %s (%s, %s) - %s\n", i+1, r.Title, r.Category, r.ResourceType, r.Description)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func fallbackAnswer(resources []models.Resource) string {
	if len(resources) == 0 {
		return "No matching resources were found in the catalog."
	}
	var b strings.Builder
	b.WriteString("These catalog resources match your question:\n")
	for _, r := range resources {
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.ResourceType, r.URL)
	}
	return b.String()
}
