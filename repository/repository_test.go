package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"ayursutra/configuration"
	"ayursutra/models"
	"ayursutra/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newRepo runs against the postgres database named by TEST_DB, or a private
// in-memory sqlite database when TEST_DB is unset.
func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	var (
		db  *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_DB"); dsn != "" {
		db, err = configuration.ConfigDB(&configuration.Config{Env: "test", DB: dsn})
		require.NoError(t, err)
		require.NoError(t, db.Exec("TRUNCATE doctor_patient, notifications, patients, doctors").Error)
	} else {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		// one connection so the transaction and later reads see the same database
		sqlDB.SetMaxOpenConns(1)
		require.NoError(t, configuration.Migrate(db))
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.New(db)
}

func seed(t *testing.T, repo *repository.Repository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreatePatient(ctx, &models.Patient{Name: "alice", Email: "a@x.com", Password: "hash"}))
	require.NoError(t, repo.CreateDoctor(ctx, &models.Doctor{DocName: "bob", Password: "hash", Address: "Pune", ClinicName: "Vaidya Clinic", PhoneNo: 9800000000}))
}

func TestPatientRoundTrip(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)
	ctx := context.Background()

	p, err := repo.PatientByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)

	_, err = repo.PatientByName(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.CreatePatient(ctx, &models.Patient{Name: "alice", Email: "b@x.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	byEmail, ok, err := repo.PatientByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", byEmail.Name)

	n, err := repo.UpdateProgress(ctx, "alice", "better")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.UpdateProgress(ctx, "nobody", "better")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDoctorsByLocation(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)

	got, err := repo.DoctorsByLocation(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, []models.DoctorListing{{DocName: "bob", ClinicName: "Vaidya Clinic", PhoneNo: 9800000000}}, got)

	got, err = repo.DoctorsByLocation(context.Background(), "Mumbai")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBookingTransaction(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)
	ctx := context.Background()

	book := func(tx repository.BookingTx) error {
		p, err := tx.PatientWithDoctors(ctx, "alice")
		if err != nil {
			return err
		}
		d, err := tx.DoctorWithPatients(ctx, "bob")
		if err != nil {
			return err
		}
		if err := tx.LinkPatientDoctor(ctx, d, p); err != nil {
			return err
		}
		return tx.CreateNotification(ctx, &models.Notification{
			ID: uuid.NewString(), Kind: models.KindAppointmentConfirmation,
			Recipient: p.Email, PatientName: p.Name, DoctorName: d.DocName,
			Status: models.NotificationPending,
		})
	}
	require.NoError(t, repo.WithinTransaction(ctx, book))
	// relinking the same pair is a no-op
	require.NoError(t, repo.WithinTransaction(ctx, book))

	p, err := repo.PatientWithDoctors(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, p.Doctors, 1)
	assert.Equal(t, "bob", p.Doctors[0].DocName)

	d, err := repo.DoctorWithPatients(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, d.Patients, 1)
	assert.Equal(t, "alice", d.Patients[0].Name)
}

func TestBookingTransactionRollsBack(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(tx repository.BookingTx) error {
		p, _ := tx.PatientWithDoctors(ctx, "alice")
		d, _ := tx.DoctorWithPatients(ctx, "bob")
		if err := tx.LinkPatientDoctor(ctx, d, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	d, err := repo.DoctorWithPatients(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, d.Patients)
}

func TestOutboxQueries(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	n := &models.Notification{ID: uuid.NewString(), Kind: models.KindAppointmentGeneric, Recipient: "a@x.com", Status: models.NotificationPending}
	require.NoError(t, repo.CreateNotification(ctx, n))

	old := time.Now().Add(-time.Hour)
	pending, err := repo.PendingNotifications(ctx, old, old, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "rows inside the grace period are skipped")

	soon := time.Now().Add(time.Minute)
	pending, err = repo.PendingNotifications(ctx, soon, old, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	now := time.Now()
	n.Status, n.Attempts, n.SentAt = models.NotificationSent, 1, &now
	require.NoError(t, repo.SaveDeliveryAttempt(ctx, n))

	pending, err = repo.PendingNotifications(ctx, soon, soon, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestClaimNotification(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	n := &models.Notification{ID: uuid.NewString(), Kind: models.KindAppointmentConfirmation, Recipient: "a@x.com", Status: models.NotificationPending}
	require.NoError(t, repo.CreateNotification(ctx, n))
	old := time.Now().Add(-time.Hour)

	ok, err := repo.ClaimNotification(ctx, n.ID, old)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second sender loses while the first holds the row
	ok, err = repo.ClaimNotification(ctx, n.ID, old)
	require.NoError(t, err)
	assert.False(t, ok)

	soon := time.Now().Add(time.Minute)
	pending, err := repo.PendingNotifications(ctx, soon, old, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "a fresh sending row is not due")

	pending, err = repo.PendingNotifications(ctx, soon, soon, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "a stale sending row is due again")

	ok, err = repo.ClaimNotification(ctx, n.ID, soon)
	require.NoError(t, err)
	assert.True(t, ok, "a stale sending row can be reclaimed")

	n.Status, n.Attempts = models.NotificationFailed, 5
	require.NoError(t, repo.SaveDeliveryAttempt(ctx, n))
	ok, err = repo.ClaimNotification(ctx, n.ID, soon)
	require.NoError(t, err)
	assert.False(t, ok, "finished rows are never claimed")
}

func TestPing(t *testing.T) {
	repo := newRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
