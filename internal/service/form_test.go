package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		want    string
		wantErr string
	}{
		{name: "title", form: url.Values{fieldNewTitle: {"Inception"}}, want: "Inception"},
		{name: "trimmed", form: url.Values{fieldNewTitle: {"  Heat "}}, want: "Heat"},
		{name: "missing", form: url.Values{}, wantErr: msgRequired},
		{name: "blank", form: url.Values{fieldNewTitle: {"   "}}, wantErr: msgRequired},
		{name: "too long", form: url.Values{fieldNewTitle: {strings.Repeat("a", 251)}}, wantErr: msgTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := validateAddForm(tt.form)
			if tt.wantErr != "" {
				assert.Equal(t, FieldErrors{fieldNewTitle: tt.wantErr}, errs)
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestValidateEditForm(t *testing.T) {
	tests := []struct {
		name       string
		rating     string
		review     string
		wantRating float64
		wantErrs   FieldErrors
	}{
		{name: "valid", rating: "7.5", review: "Great", wantRating: 7.5},
		{name: "integer", rating: "10", review: "Best", wantRating: 10},
		{name: "zero", rating: "0", review: "Awful", wantRating: 0},
		{name: "empty rating", rating: "", review: "Great", wantErrs: FieldErrors{fieldNewRating: msgRequired}},
		{name: "not a number", rating: "seven", review: "Great", wantErrs: FieldErrors{fieldNewRating: msgNotANumber}},
		{name: "too high", rating: "11", review: "Great", wantErrs: FieldErrors{fieldNewRating: msgRatingRange}},
		{name: "negative", rating: "-1", review: "Great", wantErrs: FieldErrors{fieldNewRating: msgRatingRange}},
		{name: "empty review", rating: "5", review: " ", wantErrs: FieldErrors{fieldNewReview: msgRequired}},
		{
			name:     "both empty",
			wantErrs: FieldErrors{fieldNewRating: msgRequired, fieldNewReview: msgRequired},
		},
		{name: "long review", rating: "5", review: strings.Repeat("é", 251), wantErrs: FieldErrors{fieldNewReview: msgTooLong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := validateEditForm(url.Values{fieldNewRating: {tt.rating}, fieldNewReview: {tt.review}})
			if tt.wantErrs != nil {
				assert.Equal(t, tt.wantErrs, errs)
				return
			}
			assert.Empty(t, errs)
			assert.InDelta(t, tt.wantRating, got.Rating, 0.0001)
			assert.Equal(t, tt.review, got.Review)
		})
	}
}
