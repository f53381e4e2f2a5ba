package port

import (
	"context"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// TestDrafter produces candidate test cases for detected requirements.
// Drafts are accepted verbatim as graph input; validation happens in the
// build fold, which silently drops drafts with unknown source requirements.
type TestDrafter interface {
	DraftTestCases(ctx context.Context, requirements []domain.DetectedRequirement) ([]domain.TestCaseDraft, error)
}
