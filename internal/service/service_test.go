package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"eventease/internal/models"
	"eventease/internal/storage"
	"eventease/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store storage.Store, username string) *models.User {
	t.Helper()

	user := models.NewUser(username+"@example.com", username, "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func eventInput(policy models.JoinPolicy) *models.CreateEventInput {
	return &models.CreateEventInput{
		Title:      "Summer Trip",
		Type:       models.EventTrip,
		StartDate:  1751328000,
		EndDate:    1751932800,
		Location:   "Lisbon",
		Budget:     1200,
		JoinPolicy: policy,
	}
}

func strPtr(s string) *string { return &s }

func i64Ptr(v int64) *int64 { return &v }

func statusPtr(s models.EventStatus) *models.EventStatus { return &s }

func taskStatusPtr(s models.TaskStatus) *models.TaskStatus { return &s }
