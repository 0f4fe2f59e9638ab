package pipeline

import (
	"testing"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(defs []domain.ProcessDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func TestNew_NormalizesOrder(t *testing.T) {
	defs := []domain.ProcessDefinition{
		{Name: "Welding", Kind: domain.Duration{}, Order: 30},
		{Name: "Cutting", Kind: domain.Duration{}, Order: 10},
		{Name: "Fitting", Kind: domain.Duration{}, Order: 10},
		{Name: "Delivery", Kind: domain.Milestone{}, Order: 99},
	}

	p, err := New(defs)
	require.NoError(t, err)

	steps := p.Steps()
	assert.Equal(t, []string{"Cutting", "Fitting", "Welding", "Delivery"}, names(steps), "ties keep insertion order")
	for i, s := range steps {
		assert.Equal(t, i+1, s.Order)
	}
	assert.Equal(t, 30, defs[0].Order, "input is not modified")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyPipeline)

	_, err = New([]domain.ProcessDefinition{
		{Name: "Cutting", Kind: domain.Duration{}},
		{Name: "cutting", Kind: domain.Duration{}},
	})
	assert.ErrorIs(t, err, ErrDuplicateProcess)

	_, err = New([]domain.ProcessDefinition{{Name: "  ", Kind: domain.Duration{}}})
	assert.ErrorIs(t, err, ErrInvalidProcess)

	_, err = New([]domain.ProcessDefinition{{Name: "Cutting"}})
	assert.ErrorIs(t, err, ErrInvalidProcess)

	_, err = New([]domain.ProcessDefinition{{Name: "Cutting", Kind: domain.Duration{DefaultDays: -1}}})
	assert.ErrorIs(t, err, ErrInvalidProcess)
}

func TestBackward(t *testing.T) {
	p := Default()
	back := p.Backward()
	require.Len(t, back, 9)
	assert.Equal(t, domain.ProcessDelivery, back[0].Name)
	assert.Equal(t, domain.ProcessPND, back[1].Name)
	assert.Equal(t, "Cutting", back[8].Name)

	assert.Equal(t, "Cutting", p.Steps()[0].Name, "Backward does not reorder the pipeline")
}

func TestDefault_Subsets(t *testing.T) {
	p := Default()

	assert.Equal(t, []string{"Cutting", "Fitting", "Welding", "Sandblasting", "Painting"}, names(p.DurationProcesses()))
	assert.Len(t, p.WorkProcesses(), 7)
	assert.Equal(t, []string{
		"cutting", "fitting", "welding", "sandblasting", "assembly_inspection",
		"painting", "painting_inspection", "pnd", "final",
	}, p.TeamCodes())
	assert.NotContains(t, p.SchedulableTeamCodes(), "pnd")
	assert.NotContains(t, p.SchedulableTeamCodes(), "final")

	got, ok := p.Lookup("painting")
	require.True(t, ok)
	assert.Equal(t, 6, got.Order)
	_, ok = p.Lookup("grinding")
	assert.False(t, ok)
}
