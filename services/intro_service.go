package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"bonded_server/models"
)

// IntroService manages the soft-intro lifecycle: pending -> accepted or
// pending -> denied, terminal either way, resolvable only by the
// designated recipient. Accepting materializes the connection edge on both
// users and provisions their chat.
type IntroService struct {
	Store    KVStore
	Profiles *ProfileService
	Chats    *ChatService
}

// SendIntro creates a pending intro and references it from the sender's
// outgoing and the recipient's incoming lists. The two appends are
// retryable: both are duplicate-safe, so a failed second append can be
// re-driven without doubling the first.
func (s *IntroService) SendIntro(ctx context.Context, fromUserID, toUserID, reason string, analysis *models.IntroAnalysis) (*models.SoftIntro, error) {
	if toUserID == "" || fromUserID == toUserID {
		return nil, fmt.Errorf("%w: an intro needs a distinct recipient", ErrValidation)
	}
	if !models.ValidIntroReason(reason) {
		return nil, fmt.Errorf("%w: unknown intro reason %q", ErrValidation, reason)
	}

	recipient, err := s.Profiles.GetProfile(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, toUserID)
	}

	now := time.Now()
	intro := models.SoftIntro{
		ID:         models.IntroID(fromUserID, toUserID, now),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Reason:     reason,
		Analysis:   analysis,
		Status:     models.IntroStatusPending,
		CreatedAt:  now.UTC().Format(time.RFC3339),
	}
	if err := s.saveIntro(ctx, &intro); err != nil {
		return nil, err
	}

	if err := s.Profiles.AppendUnique(ctx, models.OutgoingIntrosKey(fromUserID), intro.ID); err != nil {
		return nil, err
	}
	if err := s.Profiles.AppendUnique(ctx, models.IncomingIntrosKey(toUserID), intro.ID); err != nil {
		return nil, err
	}

	log.Printf("✉️ Soft intro sent: %s -> %s (%s)", fromUserID, toUserID, reason)
	return &intro, nil
}

// IncomingIntros lists the user's pending intros with the sender's profile
// attached, newest first.
func (s *IntroService) IncomingIntros(ctx context.Context, userID string) ([]models.IntroWithProfile, error) {
	return s.resolveIntroList(ctx, models.IncomingIntrosKey(userID), true, func(intro models.SoftIntro) string {
		return intro.FromUserID
	})
}

// OutgoingIntros lists every intro the user has sent, any status, with the
// recipient's profile attached, newest first.
func (s *IntroService) OutgoingIntros(ctx context.Context, userID string) ([]models.IntroWithProfile, error) {
	return s.resolveIntroList(ctx, models.OutgoingIntrosKey(userID), false, func(intro models.SoftIntro) string {
		return intro.ToUserID
	})
}

// AcceptIntro resolves a pending intro to accepted, adds each party to the
// other's connections, and provisions the pair's chat. Accepting an
// already-accepted intro is a no-op returning the stored record.
func (s *IntroService) AcceptIntro(ctx context.Context, callerID, introID string) (*models.SoftIntro, error) {
	intro, err := s.getIntro(ctx, introID)
	if err != nil {
		return nil, err
	}
	if intro.ToUserID != callerID {
		return nil, fmt.Errorf("%w: intro %s is not addressed to you", ErrForbidden, introID)
	}

	switch intro.Status {
	case models.IntroStatusAccepted:
		return intro, nil
	case models.IntroStatusDenied:
		return nil, fmt.Errorf("%w: intro %s was already denied", ErrConflict, introID)
	}

	intro.Status = models.IntroStatusAccepted
	intro.AcceptedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.saveIntro(ctx, intro); err != nil {
		return nil, err
	}

	// Each direction is checked independently: a corrupted or missing
	// connections list on either side reads as empty, never as an error.
	if err := s.Profiles.AppendUnique(ctx, models.ConnectionsKey(intro.FromUserID), intro.ToUserID); err != nil {
		return nil, err
	}
	if err := s.Profiles.AppendUnique(ctx, models.ConnectionsKey(intro.ToUserID), intro.FromUserID); err != nil {
		return nil, err
	}

	if _, err := s.Chats.EnsureChat(ctx, intro.FromUserID, intro.ToUserID); err != nil {
		return nil, err
	}

	log.Printf("🤝 Intro accepted: %s and %s are now connected", intro.FromUserID, intro.ToUserID)
	return intro, nil
}

// DenyIntro resolves a pending intro to denied. No other side effects.
// Denying an already-denied intro is a no-op.
func (s *IntroService) DenyIntro(ctx context.Context, callerID, introID string) (*models.SoftIntro, error) {
	intro, err := s.getIntro(ctx, introID)
	if err != nil {
		return nil, err
	}
	if intro.ToUserID != callerID {
		return nil, fmt.Errorf("%w: intro %s is not addressed to you", ErrForbidden, introID)
	}

	switch intro.Status {
	case models.IntroStatusDenied:
		return intro, nil
	case models.IntroStatusAccepted:
		return nil, fmt.Errorf("%w: intro %s was already accepted", ErrConflict, introID)
	}

	intro.Status = models.IntroStatusDenied
	intro.DeniedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.saveIntro(ctx, intro); err != nil {
		return nil, err
	}
	return intro, nil
}

// Connections returns the profiles of everyone the user is connected to.
func (s *IntroService) Connections(ctx context.Context, userID string) ([]models.Profile, error) {
	ids, err := s.Profiles.StringList(ctx, models.ConnectionsKey(userID))
	if err != nil {
		return nil, err
	}
	return s.Profiles.Profiles(ctx, ids)
}

func (s *IntroService) getIntro(ctx context.Context, introID string) (*models.SoftIntro, error) {
	value, err := s.Store.Get(ctx, introID)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: intro %s", ErrNotFound, introID)
	}

	var intro models.SoftIntro
	if err := json.Unmarshal(value, &intro); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intro %s: %w", introID, err)
	}
	return &intro, nil
}

func (s *IntroService) saveIntro(ctx context.Context, intro *models.SoftIntro) error {
	value, err := json.Marshal(intro)
	if err != nil {
		return fmt.Errorf("failed to marshal intro %s: %w", intro.ID, err)
	}
	// Intro records live under their own composite id.
	return s.Store.Set(ctx, intro.ID, value)
}

// resolveIntroList loads the referenced intros in one batch, filters by
// status, attaches the counterpart's profile, and sorts newest first.
// Intros whose record or counterpart profile is missing are skipped.
func (s *IntroService) resolveIntroList(ctx context.Context, key string, pendingOnly bool, counterpart func(models.SoftIntro) string) ([]models.IntroWithProfile, error) {
	ids, err := s.Profiles.StringList(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.IntroWithProfile{}, nil
	}

	values, err := s.Store.MGet(ctx, ids)
	if err != nil {
		return nil, err
	}

	intros := make([]models.SoftIntro, 0, len(values))
	counterpartIDs := make([]string, 0, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		var intro models.SoftIntro
		if err := json.Unmarshal(value, &intro); err != nil {
			log.Printf("⚠️ Skipping unreadable intro %s: %v", ids[i], err)
			continue
		}
		if pendingOnly && intro.Status != models.IntroStatusPending {
			continue
		}
		intros = append(intros, intro)
		counterpartIDs = append(counterpartIDs, counterpart(intro))
	}

	profiles, err := s.Profiles.Profiles(ctx, counterpartIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	enriched := make([]models.IntroWithProfile, 0, len(intros))
	for _, intro := range intros {
		profile, ok := byID[counterpart(intro)]
		if !ok {
			continue
		}
		enriched = append(enriched, models.IntroWithProfile{SoftIntro: intro, Profile: profile})
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].CreatedAt > enriched[j].CreatedAt
	})
	return enriched, nil
}
