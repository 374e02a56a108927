package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &User{
		ID:        "u1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Role:      RoleUser,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// checkInvariant asserts authenticated == (user present && token present).
func checkInvariant(t *testing.T, s *Store) {
	t.Helper()
	expected := s.CurrentUser() != nil && s.Token() != ""
	assert.Equal(t, expected, s.IsAuthenticated())
}

func TestStore_LoginFlow(t *testing.T) {
	s := NewStore(nil)
	checkInvariant(t, s)

	s.Begin()
	assert.True(t, s.IsLoading())
	assert.Empty(t, s.LastError())
	checkInvariant(t, s)

	s.Complete(testUser(), "tok-1")
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "u1", s.CurrentUser().ID)
	checkInvariant(t, s)
}

func TestStore_FailKeepsPriorSession(t *testing.T) {
	s := NewStore(nil)
	s.Complete(testUser(), "tok-1")

	s.Begin()
	s.Fail("Credenciales incorrectas")

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "Credenciales incorrectas", s.LastError())
	assert.False(t, s.IsLoading())
	checkInvariant(t, s)
}

func TestStore_FailRefreshForcesLogout(t *testing.T) {
	s := NewStore(nil)
	s.Complete(testUser(), "tok-1")

	s.Begin()
	s.FailRefresh("token inválido")

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, s.Token())
	assert.Equal(t, "token inválido", s.LastError())
	checkInvariant(t, s)
}

func TestStore_LogoutIdempotent(t *testing.T) {
	s := NewStore(nil)
	s.Complete(testUser(), "tok-1")

	s.Logout()
	first := State{User: s.CurrentUser(), Token: s.Token(), Authenticated: s.IsAuthenticated()}

	s.Logout()
	second := State{User: s.CurrentUser(), Token: s.Token(), Authenticated: s.IsAuthenticated()}

	assert.Equal(t, first, second)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.LastError())
	checkInvariant(t, s)
}

func TestStore_ClearError(t *testing.T) {
	s := NewStore(nil)
	s.Fail("boom")
	require.Equal(t, "boom", s.LastError())

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestStore_CurrentUserIsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Complete(testUser(), "tok-1")

	u := s.CurrentUser()
	u.Name = "changed"

	assert.Equal(t, "Ana", s.CurrentUser().Name)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	s := NewStore(fs)
	s.Complete(testUser(), "tok-1")
	// Leave transient state dirty before the "restart"
	s.Begin()
	s.Fail("transient")

	fs2, err := NewFileStore(dir)
	require.NoError(t, err)
	restored := NewStore(fs2)

	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "tok-1", restored.Token())
	user := restored.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, user.CreatedAt.Equal(testUser().CreatedAt))
	assert.False(t, restored.IsLoading())
	assert.Empty(t, restored.LastError())
	checkInvariant(t, restored)
}

func TestStore_CorruptSnapshotMeansLoggedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600))

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	s := NewStore(fs)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	checkInvariant(t, s)
}

func TestStore_HalfWrittenSnapshotMeansLoggedOut(t *testing.T) {
	dir := t.TempDir()

	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Save(&State{Token: "tok-1", Authenticated: true}))

	s := NewStore(fs)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	checkInvariant(t, s)
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	st, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestStore_LogoutClearsSnapshot(t *testing.T) {
	dir := t.TempDir()

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	s := NewStore(fs)
	s.Complete(testUser(), "tok-1")
	s.Logout()

	fs2, err := NewFileStore(dir)
	require.NoError(t, err)
	restored := NewStore(fs2)
	assert.False(t, restored.IsAuthenticated())
}
