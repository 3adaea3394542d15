package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"holidaze/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validVenueInput() models.VenueInput {
	return models.VenueInput{
		Name:        "Seaside Cabin",
		Description: "A cabin by the sea.",
		Price:       1500,
		MaxGuests:   4,
		Rating:      4,
		Location: models.Location{
			Address: "Strandveien 1",
			City:    "Bergen",
			Zip:     "5003",
			Country: "Norway",
		},
	}
}

func TestValidateVenueInput(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, ValidateVenueInput(validVenueInput()))
	})

	tests := []struct {
		name    string
		mutate  func(*models.VenueInput)
		message string
	}{
		{"empty name", func(in *models.VenueInput) { in.Name = " " }, "Please enter a venue name."},
		{"name too long", func(in *models.VenueInput) { in.Name = strings.Repeat("x", 31) }, "The venue name can't be longer than 30 characters."},
		{"empty description", func(in *models.VenueInput) { in.Description = "" }, "Please enter a description."},
		{"zero price", func(in *models.VenueInput) { in.Price = 0 }, "Please enter a positive number."},
		{"negative price", func(in *models.VenueInput) { in.Price = -1 }, "Please enter a positive number."},
		{"zero guests", func(in *models.VenueInput) { in.MaxGuests = 0 }, "Please enter the max number of guests."},
		{"rating above five", func(in *models.VenueInput) { in.Rating = 6 }, "Rating must be between 0 and 5."},
		{"missing address", func(in *models.VenueInput) { in.Location.Address = "" }, "Please enter an address."},
		{"missing city", func(in *models.VenueInput) { in.Location.City = "" }, "Please enter a city."},
		{"missing zip", func(in *models.VenueInput) { in.Location.Zip = "" }, "Please enter a zip code."},
		{"missing country", func(in *models.VenueInput) { in.Location.Country = "" }, "Please enter a country."},
		{"bad media url", func(in *models.VenueInput) { in.Media = []models.Media{{URL: "not a url"}} }, "Please enter a valid URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validVenueInput()
			tt.mutate(&input)

			err := ValidateVenueInput(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("name at limit passes", func(t *testing.T) {
		input := validVenueInput()
		input.Name = strings.Repeat("x", 30)
		assert.NoError(t, ValidateVenueInput(input))
	})

	t.Run("multiple failures joined", func(t *testing.T) {
		input := validVenueInput()
		input.Name = ""
		input.Price = 0

		err := ValidateVenueInput(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Please enter a venue name.")
		assert.Contains(t, err.Error(), "Please enter a positive number.")
	})
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com/img.jpg"))
	assert.True(t, IsValidURL("http://example.com"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL(""))
	assert.False(t, IsValidURL("https://"))
}

func TestVenueCreate(t *testing.T) {
	ctx := context.Background()
	manager := &models.Session{Token: "tok", Name: "alice", VenueManager: true}
	customer := &models.Session{Token: "tok", Name: "bob"}

	t.Run("manager creates venue", func(t *testing.T) {
		venuesAPI := new(mockVenueAPI)
		venuesAPI.On("CreateVenue", mock.Anything, mock.Anything).
			Return(&models.Venue{ID: "v1", Name: "Seaside Cabin"}, nil)

		s := NewVenueService(venuesAPI, nil, testLogger())
		venue, err := s.Create(ctx, manager, validVenueInput())

		require.NoError(t, err)
		assert.Equal(t, "v1", venue.ID)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		s := NewVenueService(new(mockVenueAPI), nil, testLogger())
		_, err := s.Create(ctx, nil, validVenueInput())
		assert.ErrorIs(t, err, ErrLoginRequired)
	})

	t.Run("non-manager rejected", func(t *testing.T) {
		s := NewVenueService(new(mockVenueAPI), nil, testLogger())
		_, err := s.Create(ctx, customer, validVenueInput())
		assert.ErrorIs(t, err, ErrManagerRequired)
	})

	t.Run("invalid input never reaches the API", func(t *testing.T) {
		venuesAPI := new(mockVenueAPI)
		s := NewVenueService(venuesAPI, nil, testLogger())

		input := validVenueInput()
		input.Name = ""
		_, err := s.Create(ctx, manager, input)

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		venuesAPI.AssertNotCalled(t, "CreateVenue")
	})
}

func TestVenueDelete(t *testing.T) {
	ctx := context.Background()
	manager := &models.Session{Token: "tok", Name: "alice", VenueManager: true}

	t.Run("listing trimmed only after server confirms", func(t *testing.T) {
		venuesAPI := new(mockVenueAPI)
		venuesAPI.On("GetVenues", mock.Anything, 1, "").
			Return([]models.Venue{{ID: "v1"}, {ID: "v2"}}, metaFor(1, 1), nil)
		venuesAPI.On("DeleteVenue", mock.Anything, "v1").Return(nil)

		listing := NewListing(venuesAPI, testLogger())
		_, err := listing.Load(ctx, 1, "")
		require.NoError(t, err)

		s := NewVenueService(venuesAPI, nil, testLogger())
		require.NoError(t, s.Delete(ctx, manager, "v1", listing))
		assert.Len(t, listing.State().Venues, 1)
	})

	t.Run("failed delete leaves listing intact", func(t *testing.T) {
		venuesAPI := new(mockVenueAPI)
		venuesAPI.On("GetVenues", mock.Anything, 1, "").
			Return([]models.Venue{{ID: "v1"}}, metaFor(1, 1), nil)
		venuesAPI.On("DeleteVenue", mock.Anything, "v1").Return(errors.New("forbidden"))

		listing := NewListing(venuesAPI, testLogger())
		_, err := listing.Load(ctx, 1, "")
		require.NoError(t, err)

		s := NewVenueService(venuesAPI, nil, testLogger())
		assert.Error(t, s.Delete(ctx, manager, "v1", listing))
		assert.Len(t, listing.State().Venues, 1)
	})
}
