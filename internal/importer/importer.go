package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thuso-software/veriface/internal/domain"
	"github.com/thuso-software/veriface/internal/repository"
)

// expected CSV header, in order
var columns = []string{"id_number", "surname", "name", "date_of_birth", "chief_code", "photo_ref"}

// ParseProfiles reads profile records from CSV. The first row must be the
// header. Field values are normalized on the way in so imported rows
// compare cleanly against claimed details later.
func ParseProfiles(r io.Reader) ([]domain.Profile, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		idNumber := domain.NormalizeField(record[0])
		if idNumber == "" {
			return nil, fmt.Errorf("line %d: id_number is empty", line)
		}

		profiles = append(profiles, domain.Profile{
			IDNumber:    idNumber,
			Surname:     domain.NormalizeField(record[1]),
			Name:        domain.NormalizeField(record[2]),
			DateOfBirth: domain.NormalizeField(record[3]),
			ChiefCode:   domain.NormalizeField(record[4]),
			PhotoRef:    strings.TrimSpace(record[5]),
		})
	}

	return profiles, nil
}

func validateHeader(header []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("expected %d columns, got %d", len(columns), len(header))
	}
	for i, want := range columns {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

// Importer upserts parsed profiles by id_number.
type Importer struct {
	profiles repository.ProfileRepositoryInterface
	logger   *slog.Logger
}

func New(profiles repository.ProfileRepositoryInterface, logger *slog.Logger) *Importer {
	return &Importer{profiles: profiles, logger: logger}
}

// Run imports every profile, stopping at the first failure. Returns the
// number of rows written.
func (i *Importer) Run(ctx context.Context, profiles []domain.Profile) (int, error) {
	for n := range profiles {
		p := &profiles[n]
		if err := i.profiles.Upsert(ctx, p); err != nil {
			return n, fmt.Errorf("upsert %s: %w", p.IDNumber, err)
		}
		i.logger.Debug("profile imported", slog.String("id_number", p.IDNumber))
	}
	return len(profiles), nil
}
