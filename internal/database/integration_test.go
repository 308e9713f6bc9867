package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"feeportal/internal/database"
	"feeportal/internal/payment"
	"feeportal/internal/session"
	"feeportal/internal/student"
)

// startPostgres spins up a throwaway Postgres container and returns a
// migrated database service bound to it.
func startPostgres(t *testing.T) database.Service {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("feeportal_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping: could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func TestPostgresIntegration(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	students := student.NewPostgresRepository(db)
	sessions := session.NewPostgresStore(db)
	payments := payment.NewPostgresStore(db)

	t.Run("Health", func(t *testing.T) {
		health := db.Health(ctx)
		assert.Equal(t, "up", health["status"])
	})

	var jane *student.Student

	t.Run("CreateAndFindStudent", func(t *testing.T) {
		var err error
		jane, err = students.Create(ctx, "Jane Smith", "jane@student.com", "bcrypt-hash")
		require.NoError(t, err)
		assert.NotEmpty(t, jane.ID)
		assert.False(t, jane.FeesPaid)

		found, err := students.FindByIdentifier(ctx, "jane@student.com")
		require.NoError(t, err)
		assert.Equal(t, jane.ID, found.ID)
		assert.Equal(t, "bcrypt-hash", found.PasswordHash)

		_, err = students.FindByIdentifier(ctx, "nobody@student.com")
		assert.ErrorIs(t, err, student.ErrNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := students.Create(ctx, "Other Jane", "jane@student.com", "bcrypt-hash")
		assert.ErrorIs(t, err, student.ErrEmailTaken)
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		updated, err := students.Update(ctx, jane.ID, "Jane S.", "jane.s@student.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane S.", updated.Name)
		assert.Equal(t, "jane.s@student.com", updated.Email)
	})

	t.Run("ListAllNewestFirst", func(t *testing.T) {
		_, err := students.Create(ctx, "Bob Jones", "bob@student.com", "bcrypt-hash")
		require.NoError(t, err)

		all, err := students.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Bob Jones", all[0].Name)
	})

	t.Run("SessionLifecycle", func(t *testing.T) {
		sess := &session.Session{
			ID:        uuid.New().String(),
			StudentID: jane.ID,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(session.TTL),
		}
		require.NoError(t, sessions.Insert(ctx, sess))

		got, err := sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, jane.ID, got.StudentID)

		require.NoError(t, sessions.Delete(ctx, sess.ID))
		_, err = sessions.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		// Delete is idempotent
		require.NoError(t, sessions.Delete(ctx, sess.ID))
	})

	t.Run("DeleteExpiredSessions", func(t *testing.T) {
		expired := &session.Session{
			ID:        uuid.New().String(),
			StudentID: jane.ID,
			CreatedAt: time.Now().Add(-48 * time.Hour),
			ExpiresAt: time.Now().Add(-24 * time.Hour),
		}
		active := &session.Session{
			ID:        uuid.New().String(),
			StudentID: jane.ID,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(session.TTL),
		}
		require.NoError(t, sessions.Insert(ctx, expired))
		require.NoError(t, sessions.Insert(ctx, active))

		deleted, err := sessions.DeleteExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = sessions.Get(ctx, active.ID)
		assert.NoError(t, err)
	})

	t.Run("RecordCompletedFlipsFeeFlag", func(t *testing.T) {
		p := &payment.Payment{
			ID:            uuid.New().String(),
			StudentID:     jane.ID,
			Amount:        50000,
			PaymentMethod: payment.MethodCard,
			TransactionID: "TXN_1700000000000_abc123",
			Status:        payment.StatusCompleted,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, payments.RecordCompleted(ctx, p))

		paid, err := students.FindByID(ctx, jane.ID)
		require.NoError(t, err)
		assert.True(t, paid.FeesPaid)

		history, err := payments.ListByStudent(ctx, jane.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "TXN_1700000000000_abc123", history[0].TransactionID)
		assert.Equal(t, payment.StatusCompleted, history[0].Status)
	})

	t.Run("RecordCompletedRollsBackOnUnknownStudent", func(t *testing.T) {
		ghost := uuid.New().String()
		p := &payment.Payment{
			ID:            uuid.New().String(),
			StudentID:     ghost,
			Amount:        50000,
			PaymentMethod: payment.MethodBank,
			TransactionID: "TXN_1700000000001_def456",
			Status:        payment.StatusCompleted,
			CreatedAt:     time.Now(),
		}
		require.Error(t, payments.RecordCompleted(ctx, p))

		history, err := payments.ListByStudent(ctx, ghost)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
