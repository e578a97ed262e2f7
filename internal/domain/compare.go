package domain

import "strings"

// CompareDetails compares the claimed demographic fields against the stored
// profile, normalizing every field first. Surname and name are compared
// case-insensitively; date of birth and chief code must match exactly
// (both are treated as opaque strings, no date parsing).
func CompareDetails(claimed ClaimedDetails, stored *Profile) Mismatches {
	var m Mismatches

	if !strings.EqualFold(NormalizeField(claimed.Surname), NormalizeField(stored.Surname)) {
		m.Surname = true
	}
	if !strings.EqualFold(NormalizeField(claimed.Name), NormalizeField(stored.Name)) {
		m.Names = true
	}
	if NormalizeField(claimed.DateOfBirth) != NormalizeField(stored.DateOfBirth) {
		m.DOB = true
	}
	if NormalizeField(claimed.ChiefCode) != NormalizeField(stored.ChiefCode) {
		m.ChiefCode = true
	}

	return m
}
