package application

import (
	"errors"
	"testing"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/stretchr/testify/assert"
)

func TestCheckBreed(t *testing.T) {
	testCases := []struct {
		term  string
		valid bool
	}{
		{term: "pug", valid: true},
		{term: "golden retriever", valid: true},
		{term: "p u g", valid: true},
		{term: "pu", valid: false},
		{term: "      ", valid: false},
		{term: "", valid: false},
		{term: " a b ", valid: false},
	}

	for _, tc := range testCases {
		err := CheckBreed(tc.term)
		if tc.valid {
			assert.NoError(t, err, tc.term)
		} else {
			assert.True(t, errors.Is(err, domain.ErrBreedTooShort), tc.term)
		}
	}
}

func TestValidateBreed(t *testing.T) {
	view := newFakeView()
	assert.False(t, ValidateBreed(view), "no input on page")

	input := view.add(domain.ElementBreedInput)
	input.attrs["value"] = " a "
	assert.False(t, ValidateBreed(view))
	assert.Equal(t, "Search term must be at least 3 letters and not just spaces", input.validity)

	input.attrs["value"] = "beagle"
	assert.True(t, ValidateBreed(view))
	assert.Equal(t, "", input.validity)
}
