package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/venture-backend/internal/models"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("USER@EXAMPLE.COM"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("без-собаки"))
	assert.Error(t, ValidateEmail("user@localhost"))
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(models.RoleFounder))
	assert.NoError(t, ValidateRole(models.RoleInvestor))
	assert.Error(t, ValidateRole("admin"))
	assert.Error(t, ValidateRole(""))
}

func TestValidateIdeaTitle(t *testing.T) {
	assert.Error(t, ValidateIdeaTitle(""))
	assert.Error(t, ValidateIdeaTitle("ab"))
	assert.NoError(t, ValidateIdeaTitle("Идея"))
	assert.Error(t, ValidateIdeaTitle(strings.Repeat("x", MaxIdeaTitleLength+1)))
}

func TestValidateFunding(t *testing.T) {
	assert.Error(t, ValidateFunding(0))
	assert.Error(t, ValidateFunding(-100))
	assert.NoError(t, ValidateFunding(500000))
	assert.Error(t, ValidateFunding(MaxFunding+1))
}

func TestValidateEquity(t *testing.T) {
	assert.NoError(t, ValidateEquity(0))
	assert.NoError(t, ValidateEquity(100))
	assert.NoError(t, ValidateEquity(12.5))
	assert.Error(t, ValidateEquity(-0.1))
	assert.Error(t, ValidateEquity(100.1))
}

func TestValidateAccessMessage(t *testing.T) {
	assert.Error(t, ValidateAccessMessage(""))
	assert.Error(t, ValidateAccessMessage("коротко"))
	assert.NoError(t, ValidateAccessMessage("достаточно длинное сообщение"))
}

func TestValidateMilestones(t *testing.T) {
	assert.NoError(t, ValidateMilestones(nil))
	assert.NoError(t, ValidateMilestones(models.Milestones{
		{Description: "MVP", Amount: 100000, Deadline: "2026-12-01"},
	}))

	err := ValidateMilestones(models.Milestones{
		{Description: "", Amount: 100000},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "транш 1")

	err = ValidateMilestones(models.Milestones{
		{Description: "MVP", Amount: 100000},
		{Description: "Рост", Amount: 0},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "транш 2")

	tooMany := make(models.Milestones, MaxMilestonesCount+1)
	for i := range tooMany {
		tooMany[i] = models.Milestone{Description: "транш", Amount: 1000}
	}
	assert.Error(t, ValidateMilestones(tooMany))
}
