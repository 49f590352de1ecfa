package services

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"secretsanta/internal/models"
)

var (
	ErrSessionEmpty = errors.New("no participants have been added")
	ErrNoDraw       = errors.New("no draw has been made yet")
)

// SantaSession holds the roster and latest draw for a single user/tenant.
type SantaSession struct {
	mu           sync.Mutex
	Participants []*models.Participant
	// Assigned is the roster copy the latest draw was made on.
	Assigned     []*models.Participant
	Draw         *models.Draw
	LastActivity time.Time
}

// SantaService manages multiple gift exchange sessions.
type SantaService struct {
	mu       sync.RWMutex
	sessions map[string]*SantaSession // Key: tenantID
	seed     func() int64
}

// NewSantaService creates and initializes a new SantaService.
func NewSantaService() *SantaService {
	return &SantaService{
		sessions: make(map[string]*SantaSession),
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// getSession returns a session for a tenant, creating one if it doesn't exist.
func (s *SantaService) getSession(tenantID string) *SantaSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[tenantID]
	if !exists {
		session = &SantaSession{
			Participants: make([]*models.Participant, 0),
		}
		s.sessions[tenantID] = session
	}
	session.LastActivity = time.Now()
	return session
}

// GetParticipants returns a copy of the roster for a specific tenant.
func (s *SantaService) GetParticipants(tenantID string) []*models.Participant {
	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()
	return CloneRoster(session.Participants)
}

// AddParticipant appends a participant to a tenant's roster. Participants
// are identified by index, so two people may share a name. Any previous draw
// is discarded.
func (s *SantaService) AddParticipant(tenantID, name, group, email, message string) {
	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()

	session.Participants = append(session.Participants, &models.Participant{
		Index:   len(session.Participants),
		Name:    name,
		Group:   group,
		Email:   email,
		Message: message,
	})
	session.Assigned = nil
	session.Draw = nil
}

// SetRoster replaces a tenant's roster. Participants are re-indexed in order.
func (s *SantaService) SetRoster(tenantID string, people []*models.Participant) {
	roster := CloneRoster(people)
	for i, p := range roster {
		p.Index = i
	}

	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.Participants = roster
	session.Assigned = nil
	session.Draw = nil
}

// Draw assigns a recipient to every participant of a tenant's roster and
// stores the result as the tenant's current draw.
func (s *SantaService) Draw(tenantID string) (*models.Draw, error) {
	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if len(session.Participants) == 0 {
		return nil, ErrSessionEmpty
	}

	seed := s.seed()
	roster := CloneRoster(session.Participants)
	if err := NewAssigner(rand.New(rand.NewSource(seed))).Assign(roster); err != nil {
		if errors.Is(err, ErrInvariantViolation) {
			logger.Errorf("Draw for tenant %s failed with seed %d: %v", tenantID, seed, err)
		}
		return nil, err
	}

	draw := &models.Draw{
		ID:       uuid.NewString(),
		Seed:     seed,
		Pairings: Pairings(roster),
		DrawnAt:  time.Now(),
	}
	session.Assigned = roster
	session.Draw = draw
	logger.Infof("Draw %s completed for tenant %s: %d participants", draw.ID, tenantID, len(roster))
	return draw, nil
}

// GetDraw returns the latest draw for a specific tenant.
func (s *SantaService) GetDraw(tenantID string) (*models.Draw, error) {
	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Draw == nil {
		return nil, ErrNoDraw
	}
	return session.Draw, nil
}

// AssignedParticipants returns the participants of the latest draw with
// their recipients resolved.
func (s *SantaService) AssignedParticipants(tenantID string) ([]*models.Participant, error) {
	session := s.getSession(tenantID)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Assigned == nil {
		return nil, ErrNoDraw
	}
	return session.Assigned, nil
}

// CleanUpInactiveSessions removes sessions that have been inactive for longer than ttl.
func (s *SantaService) CleanUpInactiveSessions(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tenantID, session := range s.sessions {
		if time.Since(session.LastActivity) > ttl {
			logger.Infof("Removing inactive session for tenant: %s", tenantID)
			delete(s.sessions, tenantID)
		}
	}
}

// ClearSession removes all data associated with a specific tenant.
func (s *SantaService) ClearSession(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tenantID)
	logger.Infof("Cleared session for tenant: %s", tenantID)
}
