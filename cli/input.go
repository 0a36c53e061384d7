package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/bcdannyboy/qp/models"
	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
)

type returnRow struct {
	Return string `csv:"return"`
}

type quoteRow struct {
	Type   string  `csv:"type"`
	Strike float64 `csv:"strike"`
	Price  float64 `csv:"price"`
}

func unmarshalFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readReturns loads the "return" column. Blank cells become NaN so the
// library drops them like any other missing observation.
func readReturns(path string) ([]float64, error) {
	var rows []*returnRow
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}

	returns := make([]float64, len(rows))
	for i, row := range rows {
		if row.Return == "" {
			returns[i] = math.NaN()
			continue
		}
		r, err := strconv.ParseFloat(row.Return, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		returns[i] = r
	}
	log.WithFields(log.Fields{"file": path, "rows": len(returns)}).Debug("loaded returns")
	return returns, nil
}

// readColumns loads the named columns of a wide CSV, one series per name.
func readColumns(path string, names []string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	series := make([][]float64, len(names))
	for j, name := range names {
		series[j] = make([]float64, len(records))
		for i, rec := range records {
			cell, ok := rec[name]
			if !ok {
				return nil, fmt.Errorf("%s has no column %q", path, name)
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %s: %w", path, i+1, name, err)
			}
			series[j][i] = v
		}
	}
	return series, nil
}

func readQuotes(path string) ([]models.Quote, error) {
	var rows []*quoteRow
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, len(rows))
	for i, row := range rows {
		ot, err := models.ParseOptionType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		quotes[i] = models.Quote{Type: ot, Strike: row.Strike, Price: row.Price}
	}
	return quotes, nil
}

func readBars(path string) ([]models.Bar, error) {
	var bars []models.Bar
	if err := unmarshalFile(path, &bars); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"file": path, "bars": len(bars)}).Debug("loaded bars")
	return bars, nil
}
