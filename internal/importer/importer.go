package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"guitarla/internal/domain"
)

// CSVImporter reads a catalog export with the columns id,name,image,description,price.
// Column order is taken from the header row; unknown columns are ignored.
type CSVImporter struct {
	reader *csv.Reader
}

func NewCSVImporter(r io.Reader) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr}
}

// Run parses every row into an Item, preserving file order.
func (i *CSVImporter) Run() ([]domain.Item, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var items []domain.Item
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return items, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		item, err := parseRow(record, index)
		if err != nil {
			line, _ := i.reader.FieldPos(0)
			return items, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Item, error) {
	idStr := pick(record, index, "id")
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	if idStr == "" || name == "" || priceStr == "" {
		return domain.Item{}, errors.New("id, name and price are required")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return domain.Item{}, fmt.Errorf("invalid id %q", idStr)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return domain.Item{}, fmt.Errorf("invalid price %q: %w", priceStr, err)
	}
	if !price.IsPositive() {
		return domain.Item{}, fmt.Errorf("price must be positive, got %s", price)
	}

	return domain.Item{
		ID:          id,
		Name:        name,
		Image:       pick(record, index, "image"),
		Description: pick(record, index, "description"),
		Price:       price,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
