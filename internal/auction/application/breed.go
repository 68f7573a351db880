package application

import (
	"strings"
	"unicode/utf8"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
)

const minBreedLength = 3

// CheckBreed validates a breed search term, spaces do not count toward its length
func CheckBreed(term string) error {
	if utf8.RuneCountInString(strings.ReplaceAll(term, " ", "")) < minBreedLength {
		return domain.ErrBreedTooShort
	}
	return nil
}

// ValidateBreed checks the breed input of the page and sets its validity message,
// the result guards the search form submission
func ValidateBreed(view domain.View) bool {
	el, ok := view.ElementByID(domain.ElementBreedInput)
	if !ok {
		return false
	}
	value, _ := el.Attr("value")
	if err := CheckBreed(value); err != nil {
		el.SetCustomValidity(err.Error())
		return false
	}
	el.SetCustomValidity("")
	return true
}
