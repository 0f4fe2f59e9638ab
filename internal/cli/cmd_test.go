package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/ironflow/internal/testutil"
	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yardWorkbook = `processes:
  - {name: Cutting, kind: duration, order: 1, team: cutting}
  - {name: Final, kind: milestone, order: 2, team: final}
  - {name: PND, kind: milestone, order: 3}
teams:
  - code: cutting
    work_weekdays: [mon, tue, wed, thu, fri, sat]
global_holidays: []
projects:
  - project_no: H1
    blocks:
      - {block_no: B1, weight: 12.5, deadline: "2026-04-30", durations: {Cutting: 3}}
`

// testApp wires a full App backed by an in-memory DB for CLI tests.
func testApp(t *testing.T) *App {
	t.Helper()
	return NewApp(testutil.NewTestUoW(testutil.NewTestDB(t)), 0)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestScheduleCmd_Table(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)

	out, err := executeCmd(t, testApp(t), "-w", path, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "H1-B1")
	assert.Contains(t, out, "04-24~04-27")
	assert.Contains(t, out, "04-28")
	assert.Contains(t, out, "04-29")
}

func TestScheduleCmd_CSVToFile(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)
	outPath := filepath.Join(t.TempDir(), "result.csv")

	_, err := executeCmd(t, testApp(t), "-w", path, "schedule", "--format", "csv", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "project_no,block_no,weight_ton,deadline,Cutting_start,Cutting_end,Final_date,pnd_date", lines[0])
	assert.Equal(t, "H1,B1,12.5,2026-04-30,2026-04-24,2026-04-27,2026-04-28,2026-04-29", lines[1])
}

func TestScheduleCmd_JSONWithOverrides(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)

	out, err := executeCmd(t, testApp(t), "-w", path, "schedule", "--format", "json",
		"--team-holiday", "cutting=2026-04-24", "--workdays", "cutting=mon,tue,wed,thu,fri")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Contains(t, out, "2026-04-22", "friday holiday and no saturday push the start back")
}

func TestScheduleCmd_Gantt(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)

	out, err := executeCmd(t, testApp(t), "-w", path, "schedule", "-f", "gantt")
	require.NoError(t, err)
	assert.Contains(t, out, "TASK")
	assert.Contains(t, out, "Cutting")
	assert.Contains(t, out, "◆")
}

func TestScheduleCmd_InvalidFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "schedule", "--format", "pdf")
	require.Error(t, err)
	_, err = executeCmd(t, app, "schedule", "--team-holiday", "2026-04-24")
	require.Error(t, err)
	_, err = executeCmd(t, app, "schedule", "--workdays", "cutting=funday")
	require.Error(t, err)
}

func TestScheduleCmd_NoWorkingDaysFails(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)

	_, err := executeCmd(t, testApp(t), "-w", path, "schedule", "--workdays", "cutting=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cutting")
}

func TestBlocksFlag_RegistersSheet(t *testing.T) {
	sheet := writeFile(t, "h2.csv", "Project_No,Block_No,Weight,Delivery_Date,Cutting_Days\nH2,B7,3,2026-05-20,2\n")
	app := testApp(t)

	out, err := executeCmd(t, app, "-b", sheet, "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "H2")
	assert.Contains(t, out, "2026-05-20")
}

func TestPipelineCmd_ShowAddRemove(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "pipeline", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Sandblasting")
	assert.Contains(t, out, "painting_inspection")

	out, err = executeCmd(t, app, "pipeline", "add", "Grinding", "--after", "Welding", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added team calendars: grinding")

	p, err := app.Pipeline.Get(t.Context())
	require.NoError(t, err)
	g, ok := p.Lookup("grinding")
	require.True(t, ok)
	assert.Equal(t, 4, g.Order)
	assert.Equal(t, 2, g.DefaultDays())

	out, err = executeCmd(t, app, "pipeline", "remove", "Grinding")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed team calendars: grinding")

	_, err = executeCmd(t, app, "pipeline", "remove", "Nope")
	require.Error(t, err)
}

func TestPipelineCmd_AddBeforeSentinels(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "pipeline", "add", "FinalCheck", "--kind", "milestone")
	require.NoError(t, err)

	p, err := app.Pipeline.Get(t.Context())
	require.NoError(t, err)
	steps := p.Steps()
	assert.Equal(t, "FinalCheck", steps[len(steps)-3].Name)
}

func TestCalendarCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "calendar", "workdays", "painting", "mon,tue,wed,thu,fri")
	require.NoError(t, err)
	assert.Contains(t, out, "painting works Mon,Tue,Wed,Thu,Fri")

	out, err = executeCmd(t, app, "calendar", "holiday", "--team", "painting", "2026-05-05", "2026-05-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Added painting holiday 2026-05-05")
	assert.Contains(t, out, "unchanged")

	_, err = executeCmd(t, app, "calendar", "holiday", "2026-05-01")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "calendar", "show", "painting")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-05-05")
	assert.Contains(t, out, "2026-05-01")

	out, err = executeCmd(t, app, "calendar", "holiday", "--remove", "2026-05-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed global holiday 2026-05-01")
}

func TestCalendarCmd_Walk(t *testing.T) {
	app := testApp(t)

	// Thursday 04-30 back three Mon-Sat days: 04-30, 04-29, 04-28.
	out, err := executeCmd(t, app, "calendar", "walk", "--team", "welding", "--from", "2026-04-30", "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "= 2026-04-28")

	out, err = executeCmd(t, app, "calendar", "walk", "--from", "2026-05-04", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "= 2026-05-02", "sunday skipped")

	_, err = executeCmd(t, app, "calendar", "walk")
	require.Error(t, err)
}

func TestProjectsCmd_DurationAndRemove(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)
	app := testApp(t)

	out, err := executeCmd(t, app, "-w", path, "projects", "duration", "H1", "Cutting", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Cutting on 1 block(s) of H1")

	_, err = executeCmd(t, app, "projects", "duration", "H1", "Final", "2")
	require.Error(t, err)

	out, err = executeCmd(t, app, "projects", "remove", "H1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 block(s)")

	_, err = executeCmd(t, app, "projects", "remove", "H1")
	require.Error(t, err)
}

func TestTemplateCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "template")
	require.NoError(t, err)
	header := strings.TrimPrefix(strings.TrimSpace(out), "\ufeff")
	assert.True(t, strings.HasPrefix(header, "Project_No,Block_No,Weight,Delivery_Date,Cutting_Days"))
	assert.Contains(t, header, "AssemblyInspection_Date")
	assert.True(t, strings.HasSuffix(header, ",PND_Date"))
	assert.Equal(t, 1, strings.Count(header, "Delivery_Date"))
}

func TestWorkbookCmd_ExportAndSave(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)
	app := testApp(t)

	out, err := executeCmd(t, app, "-w", path, "workbook", "export", "--format", "json")
	require.NoError(t, err)
	wb, err := workbook.Parse([]byte(out), workbook.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, wb.Processes, 3)

	_, err = executeCmd(t, app, "-w", path, "--save", "calendar", "holiday", "2026-05-01")
	require.NoError(t, err)
	saved, err := workbook.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-05-01"}, saved.GlobalHolidays)

	_, err = executeCmd(t, app, "--save", "summary")
	require.Error(t, err, "--save needs a workbook")
}

func TestWorkbookCmd_Validate(t *testing.T) {
	good := writeFile(t, "good.yaml", yardWorkbook)
	out, err := executeCmd(t, testApp(t), "workbook", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	bad := writeFile(t, "bad.yaml", "projects:\n  - project_no: H1\n    blocks:\n      - {block_no: B1, deadline: soon}\n")
	out, err = executeCmd(t, testApp(t), "workbook", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "deadline")
}

func TestSummaryCmd(t *testing.T) {
	path := writeFile(t, "yard.yaml", yardWorkbook)

	out, err := executeCmd(t, testApp(t), "-w", path, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "WORKSPACE")
	assert.Contains(t, out, "Processes")
}
