package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/testutil"
	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func sampleWorkbook() *workbook.Workbook {
	return &workbook.Workbook{
		Processes: []workbook.ProcessEntry{
			{Name: "Cutting", Kind: "duration", Order: 1, Team: "cutting", DefaultDays: intPtr(4)},
			{Name: "Final", Kind: "milestone", Order: 2, Team: "final"},
			{Name: "PND", Kind: "milestone", Order: 3},
		},
		Teams: []workbook.TeamEntry{
			{Code: "cutting", WorkWeekdays: []workbook.Scalar{"mon", "tue", "wed", "thu", "fri"}, Holidays: []string{"2026-04-27"}},
		},
		GlobalHolidays: []string{"2026-05-01"},
		Projects: []workbook.ProjectEntry{
			{ProjectNo: "H1", Blocks: []workbook.BlockEntry{
				{BlockNo: "B1", Weight: 10, Deadline: "2026-04-30", Durations: map[string]workbook.Scalar{"Cutting": "3"}},
				{BlockNo: "B2", Weight: 4.5, Deadline: "2026-05-15"},
			}},
			{ProjectNo: "H2", Blocks: []workbook.BlockEntry{
				{BlockNo: "B1", Deadline: "2026-06-01"},
			}},
		},
	}
}

func TestImportService_ImportWorkbookContents(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewImportService(uow)
	ctx := context.Background()
	require.NoError(t, NewPipelineService(uow).EnsureDefaults(ctx))

	result, err := svc.ImportWorkbookContents(ctx, sampleWorkbook())
	require.NoError(t, err)
	assert.Equal(t, 3, result.ProcessCount)
	assert.Equal(t, 2, result.TeamCount, "cutting from the workbook, final added by sync")
	assert.Equal(t, 2, result.HolidayCount)
	assert.Equal(t, 2, result.ProjectCount)
	assert.Equal(t, 3, result.BlockCount)

	p, err := NewPipelineService(uow).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 4, p.Steps()[0].DefaultDays())

	team, err := NewCalendarService(uow).Team(ctx, "cutting")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, team.WorkWeekdays.Indices())

	blocks, err := NewBlockService(uow).ListProject(ctx, "H1")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 3, blocks[0].Durations["Cutting"])
}

func TestImportService_ImportWorkbookReplacesWorkspace(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewImportService(uow)
	ctx := context.Background()

	_, err := NewBlockService(uow).RegisterProject(ctx, "OLD", []domain.Block{*testutil.NewTestBlock()})
	require.NoError(t, err)

	_, err = svc.ImportWorkbookContents(ctx, sampleWorkbook())
	require.NoError(t, err)

	old, err := NewBlockService(uow).ListProject(ctx, "OLD")
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestImportService_ValidationCollectsAllErrors(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewImportService(uow)

	wb := sampleWorkbook()
	wb.Projects[0].Blocks[0].Deadline = "30/04/2026"
	wb.Projects[1].Blocks[0].BlockNo = ""
	_, err := svc.ImportWorkbookContents(context.Background(), wb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workbook validation failed (2 errors)")
}

func TestImportService_RollbackOnStoreFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewPipelineService(testutil.NewTestUoW(database)).EnsureDefaults(ctx))

	// Exec calls: #1-#4 clear the workspace, #5 starts the process replace.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 5,
		Err:    fmt.Errorf("injected process store failure"),
	}
	_, err := NewImportService(failUoW).ImportWorkbookContents(ctx, sampleWorkbook())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected process store failure")

	uow := testutil.NewTestUoW(database)
	p, err := NewPipelineService(uow).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Default().Steps(), p.Steps(), "previous pipeline restored")
	teams, err := NewCalendarService(uow).Teams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, len(pipeline.Default().TeamCodes()))
}

func TestImportService_ImportWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yard.yaml")
	data, err := workbook.Marshal(sampleWorkbook(), workbook.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	svc := NewImportService(testutil.NewTestUoW(testutil.NewTestDB(t)))
	result, err := svc.ImportWorkbook(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.BlockCount)

	_, err = svc.ImportWorkbook(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestImportService_ImportBlocksOverwritesListedProjects(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, NewPipelineService(uow).EnsureDefaults(ctx))
	blocks := NewBlockService(uow)

	_, err := blocks.RegisterProject(ctx, "H2", []domain.Block{
		*testutil.NewTestBlock(testutil.WithBlockNo("OLD1")),
	})
	require.NoError(t, err)
	_, err = blocks.RegisterProject(ctx, "H3", []domain.Block{*testutil.NewTestBlock()})
	require.NoError(t, err)

	sheet := "\ufeffProject_No,Block_No,Weight,Delivery_Date,Cutting_Days,Welding_Days\n" +
		"H2,B1,10,2026-04-30,3,\n" +
		"H2,B2,8.5,2026-05-15,2.7,abc\n" +
		"H4,B1,,2026-06-01,,4\n"
	result, err := NewImportService(uow).ImportBlocks(ctx, strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProjectCount)
	assert.Equal(t, 3, result.BlockCount)

	h2, err := blocks.ListProject(ctx, "H2")
	require.NoError(t, err)
	require.Len(t, h2, 2)
	assert.Equal(t, "B1", h2[0].BlockNo)
	assert.Equal(t, map[string]int{"Cutting": 2}, h2[1].Durations, "fractions truncate, garbage is dropped")

	h3, err := blocks.ListProject(ctx, "H3")
	require.NoError(t, err)
	assert.Len(t, h3, 1, "projects absent from the sheet are untouched")

	h4, err := blocks.ListProject(ctx, "H4")
	require.NoError(t, err)
	require.Len(t, h4, 1)
	assert.Equal(t, 4, h4[0].Durations["Welding"])
}

func TestImportService_ImportBlocksMissingColumn(t *testing.T) {
	svc := NewImportService(testutil.NewTestUoW(testutil.NewTestDB(t)))

	_, err := svc.ImportBlocks(context.Background(), strings.NewReader("Project_No,Block_No\nH1,B1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Delivery_Date")
}

func TestImportService_ExportRoundTrip(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewImportService(uow)
	ctx := context.Background()

	_, err := svc.ImportWorkbookContents(ctx, sampleWorkbook())
	require.NoError(t, err)

	wb, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Empty(t, workbook.Validate(wb))
	assert.Len(t, wb.Processes, 3)
	assert.Len(t, wb.Projects, 2)
	assert.Equal(t, []string{"2026-05-01"}, wb.GlobalHolidays)

	// Importing the export into a fresh workspace reproduces it.
	other := NewImportService(testutil.NewTestUoW(testutil.NewTestDB(t)))
	_, err = other.ImportWorkbookContents(ctx, wb)
	require.NoError(t, err)
	again, err := other.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, wb, again)
}
