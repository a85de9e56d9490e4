package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/j-veylop/skycast/internal/config"
	"github.com/j-veylop/skycast/internal/db"
	"github.com/j-veylop/skycast/internal/models"
)

// runImport loads geocoding rows from a CSV file into the database.
func runImport(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: skycast import-places <file.csv>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	rows, err := readGeoPlaces(f)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	n, err := database.InsertPlaces(rows)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d places into %s\n", n, database.Path())
	return nil
}

// readGeoPlaces parses name,country,lat,lon[,region] rows. A first row whose
// lat column is not a number is treated as a header.
func readGeoPlaces(r io.Reader) ([]models.GeoPlace, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var places []models.GeoPlace
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", line, len(record))
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if latErr != nil && line == 1 {
			continue
		}
		if latErr != nil {
			return nil, fmt.Errorf("line %d: invalid latitude %q", line, record[2])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude %q", line, record[3])
		}

		p := models.GeoPlace{
			Name:    strings.TrimSpace(record[0]),
			Country: strings.TrimSpace(record[1]),
			Lat:     lat,
			Lon:     lon,
		}
		if len(record) > 4 {
			p.Region = strings.TrimSpace(record[4])
		}
		places = append(places, p)
	}
	return places, nil
}
