package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

type fakeRepo struct {
	byPhone map[string]*models.Patient
	byEmail map[string]*models.Patient
	created []*models.Patient
	nextID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byPhone: map[string]*models.Patient{},
		byEmail: map[string]*models.Patient{},
		nextID:  100,
	}
}

func (f *fakeRepo) add(p *models.Patient) {
	if p.Phone != "" {
		f.byPhone[p.Phone] = p
	}
	if p.Email != "" {
		f.byEmail[p.Email] = p
	}
}

func (f *fakeRepo) FindByPhone(_ context.Context, phone string) (*models.Patient, error) {
	return f.byPhone[phone], nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*models.Patient, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) Create(_ context.Context, p *models.Patient) error {
	f.nextID++
	p.ID = f.nextID
	f.created = append(f.created, p)
	f.add(p)
	return nil
}

func TestResolveMatchesByPhoneFirst(t *testing.T) {
	repo := newFakeRepo()
	existing := &models.Patient{ID: 7, Name: "Ana Cruz", Phone: "0917 555 0101", Email: "ana@example.com"}
	repo.add(existing)

	// Other patient holds the same email; phone match must win.
	repo.byEmail["ana@example.com"] = &models.Patient{ID: 9}

	got, err := Resolve(context.Background(), repo, "Different Name", "0917 555 0101", "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.ID)
	assert.Empty(t, repo.created)

	// The matched record keeps its stored name.
	assert.Equal(t, "Ana Cruz", got.Name)
}

func TestResolveFallsBackToEmail(t *testing.T) {
	repo := newFakeRepo()
	existing := &models.Patient{ID: 3, Name: "Ben Reyes", Email: "ben@example.com"}
	repo.add(existing)

	got, err := Resolve(context.Background(), repo, "Ben Reyes", "", "ben@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.ID)
	assert.Empty(t, repo.created)
}

func TestResolveCreatesNewPatient(t *testing.T) {
	repo := newFakeRepo()

	got, err := Resolve(context.Background(), repo, " Carla Dizon ", "0917 555 0202", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Carla Dizon", got.Name)
	assert.Equal(t, "0917 555 0202", got.Phone)

	// Booking again with the same phone reuses the record.
	again, err := Resolve(context.Background(), repo, "C. Dizon", "0917 555 0202", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.Len(t, repo.created, 1)
}

func TestResolveAllFieldsEmpty(t *testing.T) {
	repo := newFakeRepo()

	got, err := Resolve(context.Background(), repo, "", "  ", "")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, repo.created)
}

func TestResolveNameOnlyCreates(t *testing.T) {
	repo := newFakeRepo()

	got, err := Resolve(context.Background(), repo, "Walk In", "", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Walk In", got.Name)
	assert.Len(t, repo.created, 1)
}
