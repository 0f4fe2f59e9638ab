package workbook

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/google/uuid"
)

// Fixed block sheet columns.
const (
	ColProjectNo = "Project_No"
	ColBlockNo   = "Block_No"
	ColWeight    = "Weight"
	ColDeadline  = "Delivery_Date"
)

var requiredColumns = []string{ColProjectNo, ColBlockNo, ColWeight, ColDeadline}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DaysColumn is the block sheet column holding a process duration.
func DaysColumn(process string) string { return process + "_Days" }

// DateColumn is the block sheet column reserved for a milestone.
func DateColumn(process string) string { return process + "_Date" }

// TemplateColumns returns the block sheet header for p: the fixed columns,
// then one column per process in pipeline order. The Delivery sentinel's
// date column is the fixed deadline column and is not repeated.
func TemplateColumns(p *pipeline.Pipeline) []string {
	cols := append([]string(nil), requiredColumns...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[strings.ToLower(c)] = true
	}
	for _, proc := range p.Steps() {
		var col string
		switch proc.Kind.(type) {
		case domain.Duration:
			col = DaysColumn(proc.Name)
		case domain.Milestone:
			col = DateColumn(proc.Name)
		}
		if col == "" || seen[strings.ToLower(col)] {
			continue
		}
		seen[strings.ToLower(col)] = true
		cols = append(cols, col)
	}
	return cols
}

// WriteTemplate writes an empty block sheet for p. A UTF-8 BOM is written
// first so spreadsheet tools detect the encoding.
func WriteTemplate(w io.Writer, p *pipeline.Pipeline) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateColumns(p)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ReadBlocks parses a block sheet. Missing required columns fail the whole
// sheet. Process columns are optional; blank or unusable duration cells
// leave the process default in place. Row errors are collected and
// returned together.
func ReadBlocks(r io.Reader, p *pipeline.Pipeline) ([]domain.Block, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("block sheet is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("block sheet is missing required columns: %s", strings.Join(missing, ", "))
	}

	durationCols := make(map[string]int)
	for _, proc := range p.DurationProcesses() {
		if i, ok := cols[strings.ToLower(DaysColumn(proc.Name))]; ok {
			durationCols[proc.Name] = i
		}
	}

	now := time.Now().UTC()
	var (
		blocks []domain.Block
		errs   []error
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if blankRecord(rec) {
			continue
		}

		cell := func(name string) string {
			i := cols[strings.ToLower(name)]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		b := domain.Block{
			ID:        uuid.New().String(),
			ProjectNo: cell(ColProjectNo),
			BlockNo:   cell(ColBlockNo),
			Durations: make(map[string]int),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if b.ProjectNo == "" {
			errs = append(errs, fmt.Errorf("line %d: %s is required", line, ColProjectNo))
		}
		if b.BlockNo == "" {
			errs = append(errs, fmt.Errorf("line %d: %s is required", line, ColBlockNo))
		}
		if w := cell(ColWeight); w != "" {
			weight, err := strconv.ParseFloat(w, 64)
			if err != nil || weight < 0 {
				errs = append(errs, fmt.Errorf("line %d: invalid %s %q", line, ColWeight, w))
			}
			b.WeightTon = weight
		}
		deadline, err := domain.ParseDate(cell(ColDeadline))
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %s: %w", line, ColDeadline, err))
		}
		b.Deadline = deadline

		for name, i := range durationCols {
			if i >= len(rec) {
				continue
			}
			if days, ok := domain.CoerceDurationDays(rec[i]); ok {
				b.SetDuration(name, days)
			}
		}
		blocks = append(blocks, b)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return blocks, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
