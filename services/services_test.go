package services_test

import (
	"context"
	"testing"

	"bonded_server/models"
	"bonded_server/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

//
// Test helpers
//

// testEnv wires every service onto a miniredis-backed store, so workflow
// tests exercise a real get/set/mget implementation without AWS.
type testEnv struct {
	store    *services.RedisKV
	profiles *services.ProfileService
	match    *services.MatchService
	chats    *services.ChatService
	intros   *services.IntroService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	store := services.NewRedisKV(mr.Addr(), "", 0)
	require.NoError(t, store.Ping(context.Background()))

	profiles := &services.ProfileService{Store: store}
	chats := &services.ChatService{Store: store, Profiles: profiles}
	return &testEnv{
		store:    store,
		profiles: profiles,
		match:    services.NewMatchService(profiles),
		chats:    chats,
		intros:   &services.IntroService{Store: store, Profiles: profiles, Chats: chats},
	}
}

func (e *testEnv) seedProfile(t *testing.T, profile models.Profile) {
	t.Helper()
	_, err := e.profiles.SaveProfile(context.Background(), profile)
	require.NoError(t, err)
}

// profileFixture returns a minimal profile in the default test school.
func profileFixture(id string) models.Profile {
	return models.Profile{ID: id, School: "Eastwood", Name: "User " + id}
}
