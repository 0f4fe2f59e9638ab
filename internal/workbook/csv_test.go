package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateColumns_DefaultPipeline(t *testing.T) {
	assert.Equal(t, []string{
		"Project_No", "Block_No", "Weight", "Delivery_Date",
		"Cutting_Days", "Fitting_Days", "Welding_Days", "Sandblasting_Days",
		"AssemblyInspection_Date", "Painting_Days", "PaintingInspection_Date",
		"PND_Date",
	}, TemplateColumns(pipeline.Default()))
}

func TestTemplateColumns_RenamedDeliveryKeepsSingleDeadlineColumn(t *testing.T) {
	p, err := pipeline.New([]domain.ProcessDefinition{
		{Name: "Cutting", Kind: domain.Duration{}, Order: 1, TeamCode: "cutting"},
		{Name: "pnd", Kind: domain.Milestone{}, Order: 2},
		{Name: "DELIVERY", Kind: domain.Milestone{}, Order: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Project_No", "Block_No", "Weight", "Delivery_Date", "Cutting_Days", "pnd_Date",
	}, TemplateColumns(p))
}

func TestWriteTemplate_ReadsBackEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, pipeline.Default()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))

	blocks, err := ReadBlocks(&buf, pipeline.Default())
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestReadBlocks(t *testing.T) {
	sheet := "\ufeffProject_No,Block_No,Weight,Delivery_Date,Cutting_Days,painting_days,Unknown_Days\n" +
		"H1,B1,12.5,2026-04-30,3,2,9\n" +
		"H1,B2,,2026-05-05 (화),2.9,,\n" +
		",,,,,,\n" +
		"H2,B1,1,2026/06/01,abc,0\n"

	blocks, err := ReadBlocks(strings.NewReader(sheet), pipeline.Default())
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, "H1-B1", blocks[0].Label())
	assert.Equal(t, 12.5, blocks[0].WeightTon)
	assert.Equal(t, domain.Date(2026, 4, 30), blocks[0].Deadline)
	assert.Equal(t, map[string]int{"Cutting": 3, "Painting": 2}, blocks[0].Durations)

	assert.Equal(t, 0.0, blocks[1].WeightTon)
	assert.Equal(t, domain.Date(2026, 5, 5), blocks[1].Deadline)
	assert.Equal(t, map[string]int{"Cutting": 2}, blocks[1].Durations)

	assert.Equal(t, domain.Date(2026, 6, 1), blocks[2].Deadline)
	assert.Empty(t, blocks[2].Durations, "unusable cells keep the default")
}

func TestReadBlocks_MissingRequiredColumns(t *testing.T) {
	_, err := ReadBlocks(strings.NewReader("Project_No,Weight\nH1,3\n"), pipeline.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Block_No, Delivery_Date")
}

func TestReadBlocks_CollectsRowErrors(t *testing.T) {
	sheet := "Project_No,Block_No,Weight,Delivery_Date\n" +
		"H1,,1,2026-04-30\n" +
		"H1,B2,heavy,2026-04-30\n" +
		"H1,B3,1,soon\n"

	_, err := ReadBlocks(strings.NewReader(sheet), pipeline.Default())
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "line 2: Block_No is required")
	assert.Contains(t, msg, `line 3: invalid Weight "heavy"`)
	assert.Contains(t, msg, "line 4: Delivery_Date")
}

func TestReadBlocks_Empty(t *testing.T) {
	_, err := ReadBlocks(strings.NewReader(""), pipeline.Default())
	assert.Error(t, err)
}
