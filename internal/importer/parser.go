package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/fingerprint"
	"github.com/GregMSThompson/finance-tracker/internal/money"
)

type column int

const (
	colDate column = iota
	colDescription
	colAmount
	colAccount
	colBudget
)

var columnNames = [...]string{"date", "description", "amount", "account", "budget"}

var requiredColumns = []column{colDate, colDescription, colAmount, colAccount}

type Parser struct {
	profile Profile
}

func NewParser(profile Profile) *Parser {
	return &Parser{profile: profile.withDefaults()}
}

// Parse reads the whole file before returning. A bad header, date or amount
// rejects the file; rows missing a required field are skipped and counted.
func (p *Parser) Parse(r io.Reader) ([]dto.ImportRow, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.profile.delimiter()
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, errs.NewValidationError("import file is empty")
	}
	if err != nil {
		return nil, 0, errs.NewValidationError(fmt.Sprintf("unreadable header: %v", err))
	}

	index, err := p.mapHeader(header)
	if err != nil {
		return nil, 0, err
	}

	rows := []dto.ImportRow{}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, errs.NewValidationError(fmt.Sprintf("malformed file: %v", err))
		}
		line, _ := reader.FieldPos(0)

		field := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if isBlank(record) {
			continue
		}
		if field(colDate) == "" || field(colDescription) == "" || field(colAmount) == "" || field(colAccount) == "" {
			skipped++
			continue
		}

		date, err := p.parseDate(field(colDate))
		if err != nil {
			return nil, 0, errs.NewValidationError(fmt.Sprintf("line %d: invalid date %q", line, field(colDate)))
		}
		amount, err := ParseAmount(field(colAmount))
		if err != nil {
			return nil, 0, errs.NewValidationError(fmt.Sprintf("line %d: invalid amount %q", line, field(colAmount)))
		}

		rows = append(rows, dto.ImportRow{
			Line:        line,
			Date:        date,
			Description: field(colDescription),
			Amount:      amount,
			AccountName: field(colAccount),
			BudgetName:  field(colBudget),
		})
	}
	return rows, skipped, nil
}

func (p *Parser) mapHeader(header []string) (map[column]int, error) {
	aliases := map[column][]string{
		colDate:        p.profile.Columns.Date,
		colDescription: p.profile.Columns.Description,
		colAmount:      p.profile.Columns.Amount,
		colAccount:     p.profile.Columns.Account,
		colBudget:      p.profile.Columns.Budget,
	}
	lookup := make(map[string]column)
	for c, names := range aliases {
		for _, name := range names {
			lookup[fingerprint.Normalize(name)] = c
		}
	}

	index := make(map[column]int)
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		c, ok := lookup[fingerprint.Normalize(h)]
		if !ok {
			continue
		}
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return nil, errs.NewValidationError("missing required columns: " + strings.Join(missing, ", "))
	}
	return index, nil
}

func (p *Parser) parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range p.profile.DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var amountReplacer = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "", ",", "", " ", "", "\u00a0", "")

// ParseAmount strips currency symbols and thousands separators. A value in
// parentheses is negative. The result is rounded to cents.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountReplacer.Replace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	cents, err := money.ParseMinorUnits(s)
	if err != nil {
		return decimal.Zero, err
	}
	d := money.ToMajorUnits(cents)
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
