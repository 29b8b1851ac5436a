package services_test

import (
	"context"
	"testing"

	"bonded_server/models"
	"bonded_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile := profileFixture("alice")
	profile.Major = "CS"
	profile.Interests = []string{"Music", "Travel"}
	profile.BondPrint = &models.BondPrint{
		Traits:  map[string]float64{"openness": 0.8},
		Summary: "Curious and outgoing",
	}

	saved, err := env.profiles.SaveProfile(ctx, profile)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.CreatedAt)
	assert.NotEmpty(t, saved.UpdatedAt)

	loaded, err := env.profiles.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "CS", loaded.Major)
	assert.Equal(t, []string{"Music", "Travel"}, loaded.Interests)
	require.NotNil(t, loaded.BondPrint)
	assert.Equal(t, 0.8, loaded.BondPrint.Traits["openness"])
}

func TestSaveProfileUpsertPreservesCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile := profileFixture("alice")
	profile.CreatedAt = "2026-01-15T08:00:00Z"
	first, err := env.profiles.SaveProfile(ctx, profile)
	require.NoError(t, err)

	update := profileFixture("alice")
	update.Bio = "new bio"
	second, err := env.profiles.SaveProfile(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "new bio", second.Bio)
}

func TestSaveProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.SaveProfile(ctx, models.Profile{School: "Eastwood"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = env.profiles.SaveProfile(ctx, models.Profile{ID: "alice"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetProfileAbsent(t *testing.T) {
	env := newTestEnv(t)

	profile, err := env.profiles.GetProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSchoolIndexDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("alice")) // re-save must not double the index
	env.seedProfile(t, profileFixture("bob"))

	pool, err := env.profiles.SchoolProfiles(ctx, "Eastwood")
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "alice", pool[0].ID)
	assert.Equal(t, "bob", pool[1].ID)
}

func TestProfilesBatchPreservesOrderAndSkipsMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))
	env.seedProfile(t, profileFixture("carol"))

	profiles, err := env.profiles.Profiles(ctx, []string{"carol", "ghost", "alice", "bob"})
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "carol", profiles[0].ID)
	assert.Equal(t, "alice", profiles[1].ID)
	assert.Equal(t, "bob", profiles[2].ID)
}

func TestProfilesBatchSkipsUnreadableRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, profileFixture("alice"))
	require.NoError(t, env.store.Set(ctx, models.UserKey("broken"), []byte(`not json`)))

	profiles, err := env.profiles.Profiles(ctx, []string{"broken", "alice"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[0].ID)
}

func TestStringListRecoversFromCorruption(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := models.SchoolUsersKey("Eastwood")

	require.NoError(t, env.store.Set(ctx, key, []byte(`{"definitely":"not a list"}`)))

	list, err := env.profiles.StringList(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The next append replaces the corrupt value with a valid list.
	require.NoError(t, env.profiles.AppendUnique(ctx, key, "alice"))
	list, err = env.profiles.StringList(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, list)
}

func TestAppendUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := models.ConnectionsKey("alice")

	require.NoError(t, env.profiles.AppendUnique(ctx, key, "bob"))
	require.NoError(t, env.profiles.AppendUnique(ctx, key, "carol"))
	require.NoError(t, env.profiles.AppendUnique(ctx, key, "bob"))

	list, err := env.profiles.StringList(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, list)
}
