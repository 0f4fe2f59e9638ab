package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
processes:
  - {name: Cutting, kind: duration, order: 1, team: cutting}
  - {name: Delivery, kind: milestone, order: 2}
teams:
  - code: cutting
    work_weekdays: [0, 1, tue, "4"]
    holidays: [2026-05-05]
global_holidays: ["2026-01-01"]
projects:
  - project_no: H1
    blocks:
      - {block_no: B1, weight: 4.5, deadline: 2026-04-30, durations: {Cutting: 3}}
      - {block_no: B2, deadline: 2026-05-30, durations: {Cutting: "2.5"}}
      - {block_no: B3, deadline: 2026-05-30, durations: {Cutting: null}}
`

func TestParse_YAML(t *testing.T) {
	wb, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, wb.Processes, 2)
	assert.Equal(t, []Scalar{"0", "1", "tue", "4"}, wb.Teams[0].WorkWeekdays)
	assert.Equal(t, []string{"2026-05-05"}, wb.Teams[0].Holidays)
	blocks := wb.Projects[0].Blocks
	assert.Equal(t, Scalar("3"), blocks[0].Durations["Cutting"])
	assert.Equal(t, Scalar("2.5"), blocks[1].Durations["Cutting"])
	assert.Equal(t, Scalar(""), blocks[2].Durations["Cutting"])
	assert.Empty(t, Validate(wb))
}

func TestParse_JSON(t *testing.T) {
	data := `{
		"teams": [{"code": "cutting", "work_weekdays": [0, "fri", 5]}],
		"projects": [{"project_no": "H1", "blocks": [
			{"block_no": "B1", "deadline": "2026-04-30", "durations": {"Cutting": 3.7, "Welding": "x", "Painting": null}}
		]}]
	}`
	wb, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []Scalar{"0", "fri", "5"}, wb.Teams[0].WorkWeekdays)
	d := wb.Projects[0].Blocks[0].Durations
	assert.Equal(t, Scalar("3.7"), d["Cutting"])
	assert.Equal(t, Scalar("x"), d["Welding"])
	assert.Equal(t, Scalar(""), d["Painting"])

	c, err := Convert(wb)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Cutting": 3}, c.Blocks[0].Durations)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("procesess: []\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`{"projcts": []}`), FormatJSON)
	assert.Error(t, err)
}

func TestParse_RejectsNonScalarDuration(t *testing.T) {
	_, err := Parse([]byte(`{"projects": [{"project_no": "H1", "blocks": [{"block_no": "B1", "deadline": "2026-04-30", "durations": {"Cutting": [1]}}]}]}`), FormatJSON)
	assert.Error(t, err)
}

func TestParse_EmptyYAML(t *testing.T) {
	wb, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, wb.Projects)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("plan.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("plan"))
}
