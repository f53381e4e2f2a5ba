package expand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_AppendsContinuationSentences(t *testing.T) {
	context := "The system shall authenticate users. It must use multi-factor authentication. This ensures security."
	got := Expand("The system shall authenticate users", context, DefaultOptions())

	assert.Contains(t, got, "multi-factor")
	assert.Contains(t, got, "This ensures security.")
}

func TestExpand_StopsAtSectionBreak(t *testing.T) {
	context := "Security: The application must encrypt data. Performance: Fast loading times required."
	got := Expand("Security: The application must encrypt data", context, DefaultOptions())

	assert.NotContains(t, got, "Performance")
	assert.Contains(t, got, "encrypt data")
}

func TestExpand_Idempotent(t *testing.T) {
	context := "The system shall authenticate users. It must use multi-factor authentication. This ensures security."
	once := Expand("The system shall authenticate users", context, DefaultOptions())
	twice := Expand(once, context, DefaultOptions())

	assert.Equal(t, once, twice)
}

func TestExpand_CompleteSentenceUnchanged(t *testing.T) {
	initial := "The platform must retain audit records for seven years after creation."
	got := Expand(initial, "unrelated context text that never matches anything here", DefaultOptions())

	assert.Equal(t, initial, got)
}

func TestExpand_NotFoundReturnsInput(t *testing.T) {
	got := Expand("missing fragment", "Completely different content. Nothing matches here.", DefaultOptions())
	assert.Equal(t, "missing fragment", got)
}

func TestExpand_RespectsSentenceBudget(t *testing.T) {
	context := "The service shall queue jobs. it retries failures. it logs outcomes. it emits alerts. it archives results."
	got := Expand("The service shall queue jobs", context, Options{MaxSentences: 2, MaxChars: 300})

	assert.Contains(t, got, "retries")
	assert.Contains(t, got, "logs")
	assert.NotContains(t, got, "alerts")
	assert.NotContains(t, got, "archives")
}

func TestExpand_RespectsCharBudget(t *testing.T) {
	long := strings.Repeat("x", 120)
	context := "The system shall export data. and " + long + " continues here."
	got := Expand("The system shall export data", context, Options{MaxSentences: 3, MaxChars: 60})

	assert.Equal(t, "The system shall export data.", got)
}

func TestExpand_NeverCrossesConservativeStop(t *testing.T) {
	context := "The system shall validate input. Validation failures are rejected."
	got := Expand("The system shall validate input", context, DefaultOptions())

	// A capitalized non-continuation sentence stops expansion.
	assert.Equal(t, "The system shall validate input.", got)
}

func TestExpand_EmptyInputs(t *testing.T) {
	assert.Equal(t, "", Expand("", "some context", DefaultOptions()))
	assert.Equal(t, "fragment", Expand("fragment", "", DefaultOptions()))
}
