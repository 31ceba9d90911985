package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestDiagnose(t *testing.T) {
	mapping := domain.CanonicalMapping{
		"Delivery issue": {"late delivery"},
		"App crash":      {"app crashes"},
		"Refunds":        {"refund request"},
	}
	counts := domain.CanonicalCounts{
		"2024-01-01": {"Delivery issue": 3, "late order delivery": 1},
		"2024-01-02": {"App crash": 1, "dark mode": 1, "Delivery issue": 2},
	}
	unmapped := domain.UnmappedTopics{"dark mode": "App crash"}

	diag := Diagnose(mapping, counts, unmapped)

	assert.Equal(t, []string{"Refunds"}, diag.DeclaredUnused)
	assert.Equal(t, []string{"dark mode", "late order delivery"}, diag.UndeclaredUsed)
	assert.Equal(t, []domain.SingletonTopic{
		{Topic: "App crash"},
		{Topic: "dark mode", Suggestion: "App crash"},
		{Topic: "late order delivery", Suggestion: "Delivery issue"},
	}, diag.Singletons)
	assert.False(t, diag.IsClean())
}

func TestDiagnose_DoesNotMutateCounts(t *testing.T) {
	counts := domain.CanonicalCounts{"2024-01-01": {"solo": 1}}
	before := domain.CanonicalCounts{"2024-01-01": {"solo": 1}}

	Diagnose(domain.CanonicalMapping{"Other": nil}, counts, nil)

	assert.Equal(t, before, counts)
}

func TestDiagnose_Clean(t *testing.T) {
	mapping := domain.CanonicalMapping{"Delivery issue": {"late delivery"}}
	counts := domain.CanonicalCounts{"2024-01-01": {"Delivery issue": 2}}

	diag := Diagnose(mapping, counts, domain.UnmappedTopics{})

	assert.True(t, diag.IsClean())
}
