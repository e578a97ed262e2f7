package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thuso-software/veriface/internal/domain"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetByIDNumber(ctx context.Context, idNumber string) (*domain.Profile, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) SaveEmbedding(ctx context.Context, idNumber string, embedding []float64) error {
	args := m.Called(ctx, idNumber, embedding)
	return args.Error(0)
}

const sampleCSV = `id_number,surname,name,date_of_birth,chief_code,photo_ref
9001015009087,Dlamini,Thabo,1990-01-01,CH-042,photos/9001015009087.jpg
8505057788083,  Nkosi , Zanele  Pretty ,1985-05-05,CH-017,photos/8505057788083.jpg
`

func TestParseProfiles(t *testing.T) {
	profiles, err := ParseProfiles(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "9001015009087", profiles[0].IDNumber)
	assert.Equal(t, "Dlamini", profiles[0].Surname)
	assert.Equal(t, "photos/9001015009087.jpg", profiles[0].PhotoRef)

	// whitespace runs collapse during import
	assert.Equal(t, "Nkosi", profiles[1].Surname)
	assert.Equal(t, "Zanele Pretty", profiles[1].Name)
}

func TestParseProfilesBadHeader(t *testing.T) {
	_, err := ParseProfiles(strings.NewReader("id,surname,name,dob,chief,photo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestParseProfilesMissingColumns(t *testing.T) {
	_, err := ParseProfiles(strings.NewReader("id_number,surname,name\n"))
	require.Error(t, err)
}

func TestParseProfilesEmptyIDNumber(t *testing.T) {
	csv := "id_number,surname,name,date_of_birth,chief_code,photo_ref\n ,Dlamini,Thabo,1990-01-01,CH-042,x.jpg\n"
	_, err := ParseProfiles(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_number is empty")
}

func TestImporterRun(t *testing.T) {
	repo := new(mockProfileRepo)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Twice()

	profiles, err := ParseProfiles(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	imp := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n, err := imp.Run(context.Background(), profiles)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo.AssertExpectations(t)
}

func TestImporterRunStopsOnFailure(t *testing.T) {
	repo := new(mockProfileRepo)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.IDNumber == "9001015009087"
	})).Return(nil).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.IDNumber == "8505057788083"
	})).Return(errors.New("connection reset")).Once()

	profiles, err := ParseProfiles(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	imp := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n, err := imp.Run(context.Background(), profiles)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "8505057788083")
}
