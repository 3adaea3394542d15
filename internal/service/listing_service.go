package service

import (
	"context"
	"errors"
	"sync"

	"holidaze/internal/domain"
	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// Listing phases. A fetch keeps the previous venues visible until it
// either succeeds (replace) or fails (error flag, venues retained).
const (
	PhaseIdle    = "idle"
	PhaseLoading = "loading"
	PhaseSuccess = "success"
	PhaseError   = "error"
)

// ErrStaleResponse marks a fetch whose result was discarded because a
// newer load started before it finished. Last started wins, not last
// finished.
var ErrStaleResponse = errors.New("stale listing response discarded")

// ListingState is a snapshot of one chat's venue listing view.
type ListingState struct {
	Phase  string
	Venues []models.Venue
	Meta   models.PageMeta
	Page   int
	Query  string
	Err    error
}

// Listing drives the paginated, searchable venue list for a single chat:
// fixed page size, newest first, explicit Load calls guarded by a
// monotonically increasing sequence number.
type Listing struct {
	venues domain.VenueAPI
	logger *zerolog.Logger

	mu       sync.Mutex
	seq      int64
	applied  int64
	reqQuery string
	state    ListingState
}

func NewListing(venues domain.VenueAPI, logger *zerolog.Logger) *Listing {
	return &Listing{
		venues: venues,
		logger: logger,
		state:  ListingState{Phase: PhaseIdle, Page: 1},
	}
}

// State returns a copy of the current listing snapshot.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	state := l.state
	state.Venues = append([]models.Venue(nil), l.state.Venues...)
	return state
}

// Load fetches one page of venues or search results. A query different
// from the current one resets the page to 1. Responses that lose the race
// against a newer Load are dropped with ErrStaleResponse.
func (l *Listing) Load(ctx context.Context, page int, query string) (ListingState, error) {
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	// Compared against the last requested query, not the last successful
	// one, so retrying a failed search keeps its page.
	if query != l.reqQuery {
		page = 1
	}
	l.reqQuery = query
	l.seq++
	seq := l.seq
	l.state.Phase = PhaseLoading
	l.mu.Unlock()

	venues, meta, err := l.venues.GetVenues(ctx, page, query)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq <= l.applied {
		return l.state, ErrStaleResponse
	}
	l.applied = seq

	if err != nil {
		// Prior results stay visible alongside the error flag. Page and
		// query advance to the attempted values so a retry repeats this
		// request instead of the last successful one.
		l.state.Phase = PhaseError
		l.state.Err = err
		l.state.Page = page
		l.state.Query = query
		l.logger.Error().Err(err).Int("page", page).Str("query", query).Msg("venue listing load failed")
		return l.state, err
	}

	l.state = ListingState{
		Phase:  PhaseSuccess,
		Venues: venues,
		Meta:   meta,
		Page:   meta.CurrentPage,
		Query:  query,
	}
	if l.state.Page == 0 {
		l.state.Page = page
	}
	return l.state, nil
}

// Reload refetches the current page and query, used after mutations that
// invalidate the listing (venue created or deleted).
func (l *Listing) Reload(ctx context.Context) (ListingState, error) {
	l.mu.Lock()
	page, query := l.state.Page, l.state.Query
	l.mu.Unlock()
	return l.Load(ctx, page, query)
}

// RemoveVenue drops a venue from the held snapshot by id, exactly once.
// Used for the non-optimistic delete flow: the API call succeeded first,
// then the local list is trimmed.
func (l *Listing) RemoveVenue(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, venue := range l.state.Venues {
		if venue.ID == id {
			l.state.Venues = append(l.state.Venues[:i], l.state.Venues[i+1:]...)
			return true
		}
	}
	return false
}

// ListingService hands out one Listing per chat.
type ListingService struct {
	venues domain.VenueAPI
	logger *zerolog.Logger

	mu       sync.Mutex
	listings map[int64]*Listing
}

func NewListingService(venues domain.VenueAPI, logger *zerolog.Logger) *ListingService {
	return &ListingService{
		venues:   venues,
		logger:   logger,
		listings: make(map[int64]*Listing),
	}
}

// ForChat returns the chat's listing, creating it on first use.
func (s *ListingService) ForChat(chatID int64) *Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[chatID]
	if !ok {
		listing = NewListing(s.venues, s.logger)
		s.listings[chatID] = listing
	}
	return listing
}
