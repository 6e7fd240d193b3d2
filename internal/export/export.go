// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package export renders candidate lists as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// Format is an export format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts csv or json, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

var csvHeader = []string{"number", "locality", "region", "capabilities", "monthly_price"}

// Record is the exported shape of a candidate
type Record struct {
	Number       string   `json:"number"`
	Locality     string   `json:"locality"`
	Region       string   `json:"region"`
	Capabilities []string `json:"capabilities"`
	MonthlyPrice *string  `json:"monthly_price"`
}

// NewRecord converts a candidate; prices are rendered with two decimals
func NewRecord(c model.Candidate) Record {
	r := Record{
		Number:       c.PhoneNumber,
		Locality:     c.Locality,
		Region:       c.Region,
		Capabilities: c.Capabilities.Names(),
	}
	if c.MonthlyPrice.Valid {
		price := c.MonthlyPrice.Decimal.StringFixed(2)
		r.MonthlyPrice = &price
	}
	return r
}

// NewRecords converts candidates preserving their order
func NewRecords(candidates []model.Candidate) []Record {
	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, NewRecord(c))
	}
	return records
}

// WriteCSV writes a header row and one row per candidate. Capabilities are joined
// with "|" and a missing price is an empty cell.
func WriteCSV(w io.Writer, candidates []model.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range NewRecords(candidates) {
		price := ""
		if r.MonthlyPrice != nil {
			price = *r.MonthlyPrice
		}
		row := []string{r.Number, r.Locality, r.Region, strings.Join(r.Capabilities, "|"), price}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Number, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the candidates as an indented JSON array
func WriteJSON(w io.Writer, candidates []model.Candidate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewRecords(candidates)); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// Write dispatches on format
func Write(w io.Writer, format Format, candidates []model.Candidate) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, candidates)
	case FormatJSON:
		return WriteJSON(w, candidates)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
