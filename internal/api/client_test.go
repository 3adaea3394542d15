package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"holidaze/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-api-key", Options{Timeout: time.Second, RPS: 1000, Burst: 1000}, testLogger())
	return client, server
}

func TestGetVenues(t *testing.T) {
	t.Run("listing request shape", func(t *testing.T) {
		var gotPath string
		var gotQuery map[string][]string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			assert.Equal(t, "test-api-key", r.Header.Get("X-Noroff-API-Key"))
			assert.Empty(t, r.Header.Get("Authorization"), "listing is an anonymous call")
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"id":"v1","name":"Cabin"}],"meta":{"currentPage":2,"pageCount":5,"isFirstPage":false,"isLastPage":false,"nextPage":3,"totalCount":41}}`))
		})
		defer server.Close()

		venues, meta, err := client.GetVenues(context.Background(), 2, "")
		require.NoError(t, err)

		assert.Equal(t, "/holidaze/venues", gotPath)
		assert.Equal(t, []string{"9"}, gotQuery["limit"])
		assert.Equal(t, []string{"2"}, gotQuery["page"])
		assert.Equal(t, []string{"created"}, gotQuery["sort"])

		require.Len(t, venues, 1)
		assert.Equal(t, "Cabin", venues[0].Name)
		assert.Equal(t, 2, meta.CurrentPage)
		require.NotNil(t, meta.NextPage)
		assert.Equal(t, 3, *meta.NextPage)
	})

	t.Run("query switches to the search endpoint", func(t *testing.T) {
		var gotPath, gotQ string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQ = r.URL.Query().Get("q")
			_, _ = w.Write([]byte(`{"data":[],"meta":{"currentPage":1,"pageCount":0,"isFirstPage":true,"isLastPage":true}}`))
		})
		defer server.Close()

		venues, _, err := client.GetVenues(context.Background(), 1, "cabin by the sea")
		require.NoError(t, err)
		assert.Equal(t, "/holidaze/venues/search", gotPath)
		assert.Equal(t, "cabin by the sea", gotQ)
		assert.Empty(t, venues)
	})
}

func TestGetVenueIncludesRelations(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/venues/v1", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_owner"))
		assert.Equal(t, "true", r.URL.Query().Get("_bookings"))
		assert.Equal(t, "true", r.URL.Query().Get("_customer"))
		_, _ = w.Write([]byte(`{"data":{"id":"v1","owner":{"name":"alice"},"bookings":[{"id":"b1"}]}}`))
	})
	defer server.Close()

	venue, err := client.GetVenue(context.Background(), "v1")
	require.NoError(t, err)
	require.NotNil(t, venue.Owner)
	assert.Equal(t, "alice", venue.Owner.Name)
	assert.Len(t, venue.Bookings, 1)
}

func TestTokenTravelsWithContext(t *testing.T) {
	var gotAuth string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"id":"b1"}}`))
	})
	defer server.Close()

	ctx := WithToken(context.Background(), "secret-token")
	_, err := client.CreateBooking(ctx, models.BookingInput{VenueID: "v1", Guests: 2})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestLoginUsesHolidazeFlag(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_holidaze"))
		_, _ = w.Write([]byte(`{"data":{"name":"alice","accessToken":"tok","venueManager":true}}`))
	})
	defer server.Close()

	user, err := client.Login(context.Background(), models.LoginInput{Email: "a@stud.noroff.no", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", user.AccessToken)
	assert.True(t, user.VenueManager)
}

func TestDeleteHandlesNoContent(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	assert.NoError(t, client.DeleteVenue(context.Background(), "v1"))
	assert.NoError(t, client.DeleteBooking(context.Background(), "b1"))
}

func TestErrorEnvelope(t *testing.T) {
	t.Run("messages joined with line separator", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Name is required"},{"message":"Price must be positive"}]}`))
		})
		defer server.Close()

		_, err := client.CreateVenue(context.Background(), models.VenueInput{})
		require.Error(t, err)
		assert.Equal(t, "Name is required\r\nPrice must be positive", err.Error())
	})

	t.Run("conflict detected", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"errors":[{"message":"dates overlap"}]}`))
		})
		defer server.Close()

		_, err := client.CreateBooking(context.Background(), models.BookingInput{})
		assert.True(t, IsConflict(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("not found detected", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[{"message":"No venue with such ID"}]}`))
		})
		defer server.Close()

		_, err := client.GetVenue(context.Background(), "missing")
		assert.True(t, IsNotFound(err))
	})

	t.Run("non-JSON body degrades to status message", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
		})
		defer server.Close()

		_, err := client.GetVenue(context.Background(), "v1")
		require.Error(t, err)
		assert.Equal(t, "request failed with status 502", err.Error())
	})
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetVenue(ctx, "v1")
	assert.Error(t, err)
}
