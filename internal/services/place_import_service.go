package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tripcanvas/internal/models/db_models"
	"tripcanvas/internal/models/response_models"
	"tripcanvas/internal/repositories"
	"tripcanvas/pkg/utils"
)

// placeColumns are the catalog export headers every row must fill.
var placeColumns = []string{"contentid", "title", "cat", "addr", "area", "detail_addr", "x", "y"}

type PlaceImportServiceInterface interface {
	Import(ctx context.Context, r io.Reader) (*PlaceImportReport, error)
}

type PlaceImportReport struct {
	Rows     int   `json:"rows"`
	Skipped  int   `json:"skipped"`
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
}

type PlaceImportService struct {
	repo   repositories.PlaceRepository
	logger *zap.Logger
}

func NewPlaceImportService(repo repositories.PlaceRepository, logger *zap.Logger) PlaceImportServiceInterface {
	return &PlaceImportService{repo: repo, logger: logger}
}

// Import loads a CSV catalog export and upserts its complete rows by contentId.
func (s *PlaceImportService) Import(ctx context.Context, r io.Reader) (*PlaceImportReport, error) {
	places, report, err := ParsePlaceCSV(r, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("place file parsed",
		zap.Int("rows", report.Rows),
		zap.Int("valid", len(places)),
		zap.Int("skipped", report.Skipped))

	if len(places) == 0 {
		return report, nil
	}
	if err := s.repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	res, err := s.repo.UpsertMany(ctx, places)
	if res != nil {
		report.Inserted, report.Updated = res.Inserted, res.Updated
	}
	if err != nil {
		s.logger.Error("place upsert incomplete",
			zap.Int64("inserted", report.Inserted),
			zap.Int64("updated", report.Updated),
			zap.Error(err))
		return report, err
	}

	s.logger.Info("places imported",
		zap.Int64("inserted", report.Inserted),
		zap.Int64("updated", report.Updated))
	return report, nil
}

// ParsePlaceCSV maps catalog rows to places. Incomplete rows are skipped and
// the first row wins when a contentid repeats.
func ParsePlaceCSV(r io.Reader, logger *zap.Logger) ([]db_models.Place, *PlaceImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: missing header row", utils.ErrInvalidPlaceFile)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrInvalidPlaceFile, err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range placeColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", utils.ErrInvalidPlaceFile, col)
		}
	}

	report := &PlaceImportReport{}
	seen := make(map[string]bool)
	var places []db_models.Place
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", utils.ErrInvalidPlaceFile, err)
		}
		report.Rows++

		row := make(map[string]string, len(placeColumns))
		for _, col := range placeColumns {
			if i := index[col]; i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}

		place, reason := placeFromRow(row)
		if reason == "" && seen[place.ContentID] {
			reason = "duplicate contentid"
		}
		if reason != "" {
			report.Skipped++
			logger.Warn("place row skipped",
				zap.Int("row", report.Rows),
				zap.String("title", row["title"]),
				zap.String("reason", reason))
			continue
		}
		seen[place.ContentID] = true
		places = append(places, place)
	}
	return places, report, nil
}

func placeFromRow(row map[string]string) (db_models.Place, string) {
	for _, col := range placeColumns {
		if row[col] == "" {
			return db_models.Place{}, "missing " + col
		}
	}

	lng, errX := strconv.ParseFloat(row["x"], 64)
	lat, errY := strconv.ParseFloat(row["y"], 64)
	if errX != nil || errY != nil {
		return db_models.Place{}, "unparsable coordinates"
	}
	point, ok := response_models.NewGeoPoint(lng, lat)
	if !ok {
		return db_models.Place{}, "invalid coordinates"
	}

	return db_models.Place{
		ContentID: row["contentid"],
		Title:     row["title"],
		Category:  row["cat"],
		Address: db_models.PlaceAddress{
			Full:     row["addr"],
			City:     row["area"],
			District: row["detail_addr"],
		},
		Coordinates: &db_models.GeoJSONPoint{
			Type:        point.Type,
			Coordinates: []float64{point.Longitude(), point.Latitude()},
		},
	}, ""
}
