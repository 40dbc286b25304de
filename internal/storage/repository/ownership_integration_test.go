package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

func TestStorage_CreateOwnership(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name: "successful create ownership",
			setup: func(t *testing.T, factory *TestDataFactory) int {
				_, athleteID := factory.CreateCatalogFixture(t)
				return athleteID
			},
		},
		{
			name:    "duplicate user and athlete pair",
			wantErr: ErrAlreadyExists,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				_, athleteID := factory.CreateCatalogFixture(t)
				factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)
				return athleteID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			athleteID := tt.setup(t, factory)

			gotID, err := storage.CreateOwnership(context.Background(), models.UserOwnedAthlete{
				UserID:           "user-1",
				AthleteProductID: athleteID,
				AcquiredDate:     acquired,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// Исходная запись осталась единственной
				verification := NewTestVerification(storage)
				verification.VerifyOwnershipCount(t, "user-1", athleteID, 1)
			} else {
				require.NoError(t, err)
				assert.Positive(t, gotID)
			}
		})
	}
}

func TestStorage_GrantOwnerships(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("fresh grants", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		categoryID := factory.CreateCategory(t, "Runners", "Беговые дисциплины")
		firstID := factory.CreateAthlete(t, "Sprinter", "Runner", categoryID, 49.99, false, true)
		secondID := factory.CreateAthlete(t, "Marathoner", "Runner", categoryID, 59.99, false, true)

		token := strPtr("aabbccddeeff00112233445566778899")
		granted, err := storage.GrantOwnerships(context.Background(), []models.UserOwnedAthlete{
			{UserID: "user-1", AthleteProductID: firstID, AcquiredDate: acquired, DownloadToken: token},
			{UserID: "user-1", AthleteProductID: secondID, AcquiredDate: acquired, DownloadToken: token},
		})

		require.NoError(t, err)
		assert.Equal(t, []bool{true, true}, granted)

		verification := NewTestVerification(storage)
		verification.VerifyOwnershipCount(t, "user-1", firstID, 1)
		verification.VerifyOwnershipCount(t, "user-1", secondID, 1)
	})

	t.Run("redelivery of the same event", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		_, athleteID := factory.CreateCatalogFixture(t)

		ownerships := []models.UserOwnedAthlete{
			{UserID: "user-1", AthleteProductID: athleteID, AcquiredDate: acquired},
		}

		granted, err := storage.GrantOwnerships(context.Background(), ownerships)
		require.NoError(t, err)
		assert.Equal(t, []bool{true}, granted)

		granted, err = storage.GrantOwnerships(context.Background(), ownerships)
		require.NoError(t, err)
		assert.Equal(t, []bool{false}, granted)

		verification := NewTestVerification(storage)
		verification.VerifyOwnershipCount(t, "user-1", athleteID, 1)
	})

	t.Run("mixed new and already owned", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		categoryID := factory.CreateCategory(t, "Runners", "Беговые дисциплины")
		ownedID := factory.CreateAthlete(t, "Sprinter", "Runner", categoryID, 49.99, false, true)
		newID := factory.CreateAthlete(t, "Marathoner", "Runner", categoryID, 59.99, false, true)
		factory.CreateOwnership(t, "user-1", ownedID, acquired, nil, nil)

		granted, err := storage.GrantOwnerships(context.Background(), []models.UserOwnedAthlete{
			{UserID: "user-1", AthleteProductID: ownedID, AcquiredDate: acquired},
			{UserID: "user-1", AthleteProductID: newID, AcquiredDate: acquired},
		})

		require.NoError(t, err)
		assert.Equal(t, []bool{false, true}, granted)
	})
}

func TestStorage_FindOwnership(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	expiration := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		userID  string
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:   "successful find ownership with token",
			userID: "user-1",
			setup: func(t *testing.T, factory *TestDataFactory) int {
				_, athleteID := factory.CreateCatalogFixture(t)
				factory.CreateOwnership(t, "user-1", athleteID, acquired,
					strPtr("aabbccddeeff00112233445566778899"), timePtr(expiration))
				return athleteID
			},
		},
		{
			name:    "ownership belongs to another user",
			userID:  "user-2",
			wantErr: ErrNotFound,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				_, athleteID := factory.CreateCatalogFixture(t)
				factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)
				return athleteID
			},
		},
		{
			name:    "no ownership at all",
			userID:  "user-1",
			wantErr: ErrNotFound,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				_, athleteID := factory.CreateCatalogFixture(t)
				return athleteID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			athleteID := tt.setup(t, factory)

			got, err := storage.FindOwnership(context.Background(), tt.userID, athleteID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.userID, got.UserID)
			assert.Equal(t, athleteID, got.AthleteProductID)
			require.NotNil(t, got.DownloadToken)
			assert.Equal(t, "aabbccddeeff00112233445566778899", *got.DownloadToken)
			require.NotNil(t, got.TokenExpiration)
			assert.True(t, expiration.Equal(*got.TokenExpiration))
		})
	}
}

func TestStorage_UpdateOwnershipToken(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("set token with expiration", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		_, athleteID := factory.CreateCatalogFixture(t)
		ownershipID := factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)

		expiration := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		err := storage.UpdateOwnershipToken(context.Background(), ownershipID,
			"ffeeddccbbaa99887766554433221100", &expiration)
		require.NoError(t, err)

		got, err := storage.FindOwnership(context.Background(), "user-1", athleteID)
		require.NoError(t, err)
		require.NotNil(t, got.DownloadToken)
		assert.Equal(t, "ffeeddccbbaa99887766554433221100", *got.DownloadToken)
		require.NotNil(t, got.TokenExpiration)
		assert.True(t, expiration.Equal(*got.TokenExpiration))
	})

	t.Run("set token without expiration", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		_, athleteID := factory.CreateCatalogFixture(t)
		old := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
		ownershipID := factory.CreateOwnership(t, "user-1", athleteID, acquired,
			strPtr("aabbccddeeff00112233445566778899"), timePtr(old))

		err := storage.UpdateOwnershipToken(context.Background(), ownershipID,
			"ffeeddccbbaa99887766554433221100", nil)
		require.NoError(t, err)

		got, err := storage.FindOwnership(context.Background(), "user-1", athleteID)
		require.NoError(t, err)
		assert.Nil(t, got.TokenExpiration)
	})
}

func TestStorage_ListOwnershipsByUser(t *testing.T) {
	t.Run("newest acquisitions first", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		categoryID := factory.CreateCategory(t, "Runners", "Беговые дисциплины")
		oldID := factory.CreateAthlete(t, "Sprinter", "Runner", categoryID, 49.99, false, true)
		newID := factory.CreateAthlete(t, "Marathoner", "Runner", categoryID, 59.99, false, true)

		factory.CreateOwnership(t, "user-1", oldID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil)
		factory.CreateOwnership(t, "user-1", newID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), nil, nil)
		// Чужая запись в выборку не попадает
		factory.CreateOwnership(t, "user-2", oldID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil, nil)

		got, err := storage.ListOwnershipsByUser(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, newID, got[0].AthleteProductID)
		assert.Equal(t, oldID, got[1].AthleteProductID)
		require.NotNil(t, got[0].AthleteProduct)
		assert.Equal(t, "Marathoner", got[0].AthleteProduct.Name)
		require.NotNil(t, got[0].AthleteProduct.Category)
		assert.Equal(t, "Runners", got[0].AthleteProduct.Category.Name)
	})

	t.Run("empty library", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		got, err := storage.ListOwnershipsByUser(context.Background(), "user-without-athletes")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStorage_RecordDownload(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	downloadedAt := time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)

	t.Run("increments counter and writes history", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		_, athleteID := factory.CreateCatalogFixture(t)
		ownershipID := factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)

		history := &models.DownloadHistory{
			UserID:           "user-1",
			AthleteProductID: athleteID,
			DownloadDate:     downloadedAt,
			IPAddress:        strPtr("203.0.113.7"),
			UserAgent:        strPtr("test-client"),
			Successful:       true,
		}
		require.NoError(t, storage.RecordDownload(context.Background(), ownershipID, downloadedAt, history))
		require.NoError(t, storage.RecordDownload(context.Background(), ownershipID, downloadedAt, history))

		verification := NewTestVerification(storage)
		verification.VerifyDownloadCount(t, ownershipID, 2)
		verification.VerifyHistoryCount(t, "user-1", athleteID, 2)

		got, err := storage.FindOwnership(context.Background(), "user-1", athleteID)
		require.NoError(t, err)
		require.NotNil(t, got.LastDownloadDate)
		assert.True(t, downloadedAt.Equal(*got.LastDownloadDate))
	})

	t.Run("without history row", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		_, athleteID := factory.CreateCatalogFixture(t)
		ownershipID := factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)

		require.NoError(t, storage.RecordDownload(context.Background(), ownershipID, downloadedAt, nil))

		verification := NewTestVerification(storage)
		verification.VerifyDownloadCount(t, ownershipID, 1)
		verification.VerifyHistoryCount(t, "user-1", athleteID, 0)
	})
}

func TestStorage_ListDownloadHistory(t *testing.T) {
	acquired := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	_, athleteID := factory.CreateCatalogFixture(t)
	ownershipID := factory.CreateOwnership(t, "user-1", athleteID, acquired, nil, nil)

	for day := 1; day <= 3; day++ {
		downloadedAt := time.Date(2026, 1, 10+day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, storage.RecordDownload(context.Background(), ownershipID, downloadedAt, &models.DownloadHistory{
			UserID:           "user-1",
			AthleteProductID: athleteID,
			DownloadDate:     downloadedAt,
			Successful:       true,
		}))
	}

	got, err := storage.ListDownloadHistory(context.Background(), "user-1", athleteID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Новые записи первыми
	assert.True(t, got[0].DownloadDate.After(got[1].DownloadDate))
}
