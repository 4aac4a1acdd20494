package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field names.
const (
	fieldNewTitle  = "new_title"
	fieldNewRating = "new_rating"
	fieldNewReview = "new_review"
)

const (
	msgRequired    = "This field can't be empty"
	msgTooLong     = "Must be at most 250 characters"
	msgNotANumber  = "Enter a number, e.g. 7.5"
	msgRatingRange = "Rating must be between 0 and 10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors maps a form field to its message. Empty means valid.
type FieldErrors map[string]string

// AddForm is a validated title search.
type AddForm struct {
	Title string
}

// EditForm is a validated rating and review.
type EditForm struct {
	Rating float64
	Review string
}

func validateAddForm(form url.Values) (AddForm, FieldErrors) {
	errs := FieldErrors{}
	title := strings.TrimSpace(form.Get(fieldNewTitle))
	checkText(errs, fieldNewTitle, title)
	return AddForm{Title: title}, errs
}

func validateEditForm(form url.Values) (EditForm, FieldErrors) {
	errs := FieldErrors{}
	out := EditForm{Review: strings.TrimSpace(form.Get(fieldNewReview))}

	raw := strings.TrimSpace(form.Get(fieldNewRating))
	switch {
	case validate.Var(raw, "required") != nil:
		errs[fieldNewRating] = msgRequired
	case validate.Var(raw, "numeric") != nil:
		errs[fieldNewRating] = msgNotANumber
	default:
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[fieldNewRating] = msgNotANumber
			break
		}
		if validate.Var(rating, "gte=0,lte=10") != nil {
			errs[fieldNewRating] = msgRatingRange
			break
		}
		out.Rating = rating
	}

	checkText(errs, fieldNewReview, out.Review)
	return out, errs
}

func checkText(errs FieldErrors, field, value string) {
	switch {
	case validate.Var(value, "required") != nil:
		errs[field] = msgRequired
	case validate.Var(value, "max=250") != nil:
		errs[field] = msgTooLong
	}
}
