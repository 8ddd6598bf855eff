package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opencurio/resourcehub/internal/app/search"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/testutil"
)

type stubCompleter struct {
	gotPrompt string
	answer    string
	err       error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.answer, s.err
}

func setup(t *testing.T) (*search.Service, *testutil.Fixtures) {
	t.Helper()
	docs := testutil.SetupTestStore(t)
	return search.NewService(docs, nil, 0, nil), testutil.NewFixtures(t, docs.Database())
}

func TestSuggest_GroundsPromptInCatalog(t *testing.T) {
	searcher, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateApprovedResource(ctx, "Transformers From Scratch")

	stub := &stubCompleter{answer: "  Start with Transformers From Scratch.  "}
	svc := New(searcher, stub, nil)

	resp, err := svc.Suggest(ctx, "how do transformers work")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if resp.Answer != "Start with Transformers From Scratch." {
		t.Errorf("answer: got %q", resp.Answer)
	}
	if !strings.Contains(stub.gotPrompt, "Transformers From Scratch") {
		t.Error("prompt does not mention the matched resource")
	}
	if !strings.Contains(stub.gotPrompt, "how do transformers work") {
		t.Error("prompt does not carry the question")
	}
	if len(resp.Resources) != 1 {
		t.Errorf("resources: got %d, want 1", len(resp.Resources))
	}
}

func TestSuggest_FallsBackWithoutCompleter(t *testing.T) {
	searcher, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := fx.CreateApprovedResource(ctx, "Deep Learning Basics")
	svc := New(searcher, nil, nil)

	resp, err := svc.Suggest(ctx, "deep learning")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !strings.Contains(resp.Answer, r.Title) {
		t.Errorf("fallback answer should list %q, got %q", r.Title, resp.Answer)
	}
}

func TestSuggest_FallsBackOnCompleterError(t *testing.T) {
	searcher, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := fx.CreateApprovedResource(ctx, "Practical NLP")
	svc := New(searcher, &stubCompleter{err: errors.New("model unavailable")}, nil)

	resp, err := svc.Suggest(ctx, "nlp course")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !strings.Contains(resp.Answer, r.Title) {
		t.Errorf("fallback answer should list %q, got %q", r.Title, resp.Answer)
	}
}

func TestSuggest_EmptyQuestion(t *testing.T) {
	searcher, _ := setup(t)
	svc := New(searcher, nil, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := svc.Suggest(ctx, "   ")
	if _, ok := apperr.AsValidation(err); !ok {
		t.Errorf("got %v, want ValidationError", err)
	}
}
