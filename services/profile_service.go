package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bonded_server/models"
)

// ProfileService translates profile and index reads/writes into key-value
// operations. The other services go through it for every list-typed key so
// the corrupted-value recovery lives in exactly one place.
type ProfileService struct {
	Store KVStore
}

// SaveProfile upserts a profile and indexes the user into their school's
// candidate pool. A profile belongs to exactly one school index.
func (ps *ProfileService) SaveProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if profile.ID == "" || profile.School == "" {
		return nil, fmt.Errorf("%w: profile requires id and school", ErrValidation)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if profile.CreatedAt == "" {
		if existing, err := ps.GetProfile(ctx, profile.ID); err == nil && existing != nil {
			profile.CreatedAt = existing.CreatedAt
		}
	}
	if profile.CreatedAt == "" {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	value, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile %s: %w", profile.ID, err)
	}
	if err := ps.Store.Set(ctx, models.UserKey(profile.ID), value); err != nil {
		return nil, err
	}

	if err := ps.AppendUnique(ctx, models.SchoolUsersKey(profile.School), profile.ID); err != nil {
		return nil, fmt.Errorf("failed to index profile %s into school %s: %w", profile.ID, profile.School, err)
	}

	log.Printf("✅ Profile saved: %s (school: %s)", profile.ID, profile.School)
	return &profile, nil
}

// GetProfile retrieves a profile by user id. Returns (nil, nil) when absent.
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	value, err := ps.Store.Get(ctx, models.UserKey(userID))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	var profile models.Profile
	if err := json.Unmarshal(value, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// Profiles batch-fetches profiles in one store round trip, preserving the
// order of ids. Missing or unreadable records are skipped rather than
// failing the whole read.
func (ps *ProfileService) Profiles(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return []models.Profile{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = models.UserKey(id)
	}
	values, err := ps.Store.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		var profile models.Profile
		if err := json.Unmarshal(value, &profile); err != nil {
			log.Printf("⚠️ Skipping unreadable profile %s: %v", userIDs[i], err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// SchoolProfiles returns every profile in a school's candidate pool.
func (ps *ProfileService) SchoolProfiles(ctx context.Context, school string) ([]models.Profile, error) {
	ids, err := ps.StringList(ctx, models.SchoolUsersKey(school))
	if err != nil {
		return nil, err
	}
	return ps.Profiles(ctx, ids)
}

// StringList reads a list-typed key. An absent key or a value that is not
// actually a list (partial-write corruption) reads as an empty list; the
// next AppendUnique overwrites it with a fresh one.
func (ps *ProfileService) StringList(ctx context.Context, key string) ([]string, error) {
	value, err := ps.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal(value, &list); err != nil {
		log.Printf("⚠️ Corrupted list at key '%s', treating as empty: %v", key, err)
		return []string{}, nil
	}
	return list, nil
}

// AppendUnique appends a value to a list-typed key if not already present.
// Read-check-append-write: duplicate-safe, but concurrent writers on the
// same key can still lose an update (no per-key versioning in this store).
func (ps *ProfileService) AppendUnique(ctx context.Context, key, value string) error {
	list, err := ps.StringList(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing == value {
			return nil
		}
	}
	list = append(list, value)

	encoded, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal list for key '%s': %w", key, err)
	}
	return ps.Store.Set(ctx, key, encoded)
}
