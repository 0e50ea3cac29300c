// Package importer loads cards in bulk from spreadsheet files. It feeds each
// row through the same duplicate-checked insertion path as a single add, so an
// import can never silently overwrite existing cards: duplicates are collected
// for the caller to resolve row by row.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/flitskaart/flitskaart-api/internal/card"
	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
)

// ErrUnsupportedFormat is returned for file types the importer cannot read.
var ErrUnsupportedFormat = errors.New("unsupported import file format")

// Expected column order. A first row whose first cell reads "word" is
// treated as a header and skipped.
const (
	colWord = iota
	colDefinition
	colExample
	colArticle
	colPlural
	colPastTense
	colFutureTense
	colPastParticiple
)

// CardAdder is the slice of the card service the importer needs: the
// duplicate-checked insertion path.
type CardAdder interface {
	AddCard(ctx context.Context, draft domain.CardDraft) (*domain.Card, *card.DuplicateDetected, error)
}

// DuplicateRow reports one import row that collided with an existing card.
// The row is not inserted; the caller resolves it like any other duplicate.
type DuplicateRow struct {
	Row        int                  `json:"row"`
	Word       string               `json:"word"`
	Existing   domain.Card          `json:"existing"`
	Comparison duplicate.Comparison `json:"comparison"`
}

// Result summarizes an import run. Errors carry per-row messages; a failed
// row never aborts the rest of the file.
type Result struct {
	Processed  int            `json:"processed"`
	Created    int            `json:"created"`
	Duplicates []DuplicateRow `json:"duplicates"`
	Skipped    int            `json:"skipped"`
	Errors     []string       `json:"errors"`
}

// Importer reads card rows from .xlsx or .csv content.
type Importer struct {
	adder  CardAdder
	logger *slog.Logger
}

// New creates an Importer that inserts through the given adder.
func New(adder CardAdder, logger *slog.Logger) *Importer {
	// Validate inputs
	if adder == nil {
		panic("adder cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &Importer{
		adder:  adder,
		logger: logger.With(slog.String("component", "importer")),
	}
}

// Import reads rows from r, picking the parser by the filename extension,
// and inserts each row as a card in the given decks. An empty deck list
// falls back to the default deck, exactly like a single add.
func (i *Importer) Import(
	ctx context.Context,
	r io.Reader,
	filename string,
	deckIDs []uuid.UUID,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(r)
	case ".csv":
		rows, err = readCSVRows(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	for n, row := range rows {
		rowNum := n + 1

		if isHeaderRow(n, row) {
			continue
		}
		if isEmptyRow(row) {
			result.Skipped++
			continue
		}

		result.Processed++

		draft := draftFromRow(row, deckIDs)
		created, dup, err := i.adder.AddCard(ctx, draft)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		case dup != nil:
			result.Duplicates = append(result.Duplicates, DuplicateRow{
				Row:        rowNum,
				Word:       draft.Word,
				Existing:   dup.Existing,
				Comparison: dup.Comparison,
			})
		default:
			result.Created++
			log.Debug("imported card",
				slog.Int("row", rowNum),
				slog.String("card_id", created.ID.String()))
		}
	}

	log.Info("import finished",
		slog.String("filename", filename),
		slog.Int("processed", result.Processed),
		slog.Int("created", result.Created),
		slog.Int("duplicates", len(result.Duplicates)),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

// readExcelRows loads every row of the workbook's first sheet.
func readExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// readCSVRows loads every record of a CSV file. Rows may have a variable
// number of fields; short rows leave the trailing columns empty.
func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

// isHeaderRow detects a leading column-name row.
func isHeaderRow(index int, row []string) bool {
	return index == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "word")
}

// isEmptyRow reports whether every cell trims to empty.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// draftFromRow maps a spreadsheet row onto a card draft. Missing trailing
// cells read as empty fields.
func draftFromRow(row []string, deckIDs []uuid.UUID) domain.CardDraft {
	return domain.CardDraft{
		Word:           cell(row, colWord),
		Definition:     cell(row, colDefinition),
		Example:        cell(row, colExample),
		Article:        cell(row, colArticle),
		Plural:         cell(row, colPlural),
		PastTense:      cell(row, colPastTense),
		FutureTense:    cell(row, colFutureTense),
		PastParticiple: cell(row, colPastParticiple),
		DeckIDs:        deckIDs,
	}
}

// cell reads a column that may be absent from a short row.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
