package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func storedProfile() *Profile {
	return &Profile{
		IDNumber:    "8001015009087",
		Surname:     "Dlamini",
		Name:        "Sipho Themba",
		DateOfBirth: "01/01/1980",
		ChiefCode:   "CH-042",
	}
}

func TestCompareDetails(t *testing.T) {
	tests := []struct {
		name    string
		claimed ClaimedDetails
		want    Mismatches
	}{
		{
			name: "all fields match exactly",
			claimed: ClaimedDetails{
				Surname:     "Dlamini",
				Name:        "Sipho Themba",
				DateOfBirth: "01/01/1980",
				ChiefCode:   "CH-042",
			},
			want: Mismatches{},
		},
		{
			name: "surname and name are case-insensitive",
			claimed: ClaimedDetails{
				Surname:     "dlamini",
				Name:        "SIPHO THEMBA",
				DateOfBirth: "01/01/1980",
				ChiefCode:   "CH-042",
			},
			want: Mismatches{},
		},
		{
			name: "whitespace differences are ignored",
			claimed: ClaimedDetails{
				Surname:     "  Dlamini ",
				Name:        "Sipho   Themba",
				DateOfBirth: " 01/01/1980",
				ChiefCode:   "CH-042\t",
			},
			want: Mismatches{},
		},
		{
			name: "date of birth format is compared verbatim",
			claimed: ClaimedDetails{
				Surname:     "Dlamini",
				Name:        "Sipho Themba",
				DateOfBirth: "1980-01-01",
				ChiefCode:   "CH-042",
			},
			want: Mismatches{DOB: true},
		},
		{
			name: "chief code is case-sensitive",
			claimed: ClaimedDetails{
				Surname:     "Dlamini",
				Name:        "Sipho Themba",
				DateOfBirth: "01/01/1980",
				ChiefCode:   "ch-042",
			},
			want: Mismatches{ChiefCode: true},
		},
		{
			name: "every field wrong",
			claimed: ClaimedDetails{
				Surname:     "Nkosi",
				Name:        "Thabo",
				DateOfBirth: "02/02/1982",
				ChiefCode:   "CH-001",
			},
			want: Mismatches{Surname: true, Names: true, DOB: true, ChiefCode: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareDetails(tt.claimed, storedProfile())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Mismatches{}, got.DetailsMatch())
		})
	}
}

func TestMismatchesDetailsMatch(t *testing.T) {
	assert.True(t, Mismatches{}.DetailsMatch())
	assert.False(t, Mismatches{Surname: true}.DetailsMatch())
	assert.False(t, Mismatches{Names: true}.DetailsMatch())
	assert.False(t, Mismatches{DOB: true}.DetailsMatch())
	assert.False(t, Mismatches{ChiefCode: true}.DetailsMatch())
}
