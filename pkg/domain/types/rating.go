package types

import "github.com/m-mizutani/goerr/v2"

// Rating is a 1-4 evaluation scale shared by impact, control effectiveness
// and probability.
type Rating int

const (
	RatingMin Rating = 1
	RatingMax Rating = 4
)

// IsValid checks if the rating is within the 1-4 domain
func (r Rating) IsValid() bool {
	return r >= RatingMin && r <= RatingMax
}

// Validate checks if the rating is within the 1-4 domain
func (r Rating) Validate() error {
	if !r.IsValid() {
		return goerr.New("rating must be between 1 and 4", goerr.V("rating", int(r)), goerr.T(ErrTagValidation))
	}
	return nil
}

// Int returns the numeric value of the rating
func (r Rating) Int() int {
	return int(r)
}
