package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/notify"
)

// ------------------------------------------------------
// fakes
// ------------------------------------------------------

type fakeApptRepo struct {
	byID   map[uint]*models.Appointment
	nextID uint

	activeSlots map[string]uint // "2006-01-02 15:04" -> holder id

	createErr error
	getErr    error
	updated   []*models.Appointment

	statusByID map[uint]string
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{
		byID:        map[uint]*models.Appointment{},
		activeSlots: map[string]uint{},
		statusByID:  map[uint]string{},
		nextID:      10,
	}
}

func slotKey(date time.Time, startTime string) string {
	return date.Format("2006-01-02") + " " + startTime
}

func (f *fakeApptRepo) add(ap *models.Appointment) {
	f.byID[ap.ID] = ap
	if ap.Status == string(domain.StatusPending) || ap.Status == string(domain.StatusConfirmed) {
		f.activeSlots[slotKey(ap.Date, ap.StartTime)] = ap.ID
	}
}

func (f *fakeApptRepo) Create(_ context.Context, ap *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	ap.ID = f.nextID
	f.add(ap)
	return nil
}

func (f *fakeApptRepo) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ap, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound()
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeApptRepo) Update(_ context.Context, ap *models.Appointment) error {
	f.byID[ap.ID] = ap
	f.updated = append(f.updated, ap)
	return nil
}

func (f *fakeApptRepo) HasActiveSlot(_ context.Context, date time.Time, startTime string, excludeID uint) (bool, error) {
	holder, ok := f.activeSlots[slotKey(date, startTime)]
	if !ok {
		return false, nil
	}
	return holder != excludeID, nil
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, id uint, from []domain.Status, to domain.Status) (bool, error) {
	ap, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if ap.Status == string(s) {
			ap.Status = string(to)
			f.statusByID[id] = string(to)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApptRepo) List(_ context.Context, _ domain.Filter) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeApptRepo) Count(_ context.Context, _ domain.Filter) (int64, error) {
	return 0, nil
}

func (f *fakeApptRepo) CountDistinctIdentities(_ context.Context) (int64, error) {
	return 0, nil
}

type fakePatientRepo struct {
	byPhone map[string]*models.Patient
	created []*models.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{byPhone: map[string]*models.Patient{}}
}

func (f *fakePatientRepo) FindByPhone(_ context.Context, phone string) (*models.Patient, error) {
	return f.byPhone[phone], nil
}

func (f *fakePatientRepo) FindByEmail(_ context.Context, _ string) (*models.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepo) Create(_ context.Context, p *models.Patient) error {
	p.ID = uint(100 + len(f.created))
	f.created = append(f.created, p)
	f.byPhone[p.Phone] = p
	return nil
}

type fakeAuditQueue struct {
	events []audit.Event
}

func (f *fakeAuditQueue) Dispatch(ev audit.Event) {
	f.events = append(f.events, ev)
}

type fakeNotifyQueue struct {
	messages []notify.Message
}

func (f *fakeNotifyQueue) Dispatch(msg notify.Message) {
	f.messages = append(f.messages, msg)
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

func validInput() BookingInput {
	return BookingInput{
		Name:     "Maria Santos",
		Phone:    "0917 555 0101",
		Email:    "maria@example.com",
		Services: []string{"Teeth Cleaning"},
		Date:     "2026-03-10",
		Time:     "14:00",
	}
}

func newCreateUC(repo *fakeApptRepo) (*CreateAppointment, *fakePatientRepo, *fakeAuditQueue, *fakeNotifyQueue) {
	patients := newFakePatientRepo()
	auditQ := &fakeAuditQueue{}
	notifyQ := &fakeNotifyQueue{}
	return NewCreateAppointment(repo, patients, auditQ, notifyQ), patients, auditQ, notifyQ
}

// ------------------------------------------------------
// tests
// ------------------------------------------------------

func TestCreatePublicBooksPendingAndNotifies(t *testing.T) {
	repo := newFakeApptRepo()
	uc, patients, auditQ, notifyQ := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validInput(), domain.StatusPending, nil)
	require.NoError(t, err)

	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, "14:00", ap.StartTime)
	assert.Equal(t, "2:00 PM", ap.Timeslot)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), ap.Date)

	// A new patient record is linked on first contact.
	require.Len(t, patients.created, 1)
	require.NotNil(t, ap.PatientID)
	assert.Equal(t, patients.created[0].ID, *ap.PatientID)

	require.Len(t, auditQ.events, 1)
	assert.Equal(t, "appointment_requested", auditQ.events[0].Action)
	assert.Nil(t, auditQ.events[0].UserID)

	require.Len(t, notifyQ.messages, 1)
	assert.Equal(t, "Appointment Request", notifyQ.messages[0].Subject)
	assert.Equal(t, "maria@example.com", notifyQ.messages[0].ReplyTo)
	assert.Contains(t, notifyQ.messages[0].Body, "Tuesday, March 10, 2026")
}

func TestCreateStaffBooksConfirmedWithoutEmail(t *testing.T) {
	repo := newFakeApptRepo()
	uc, _, auditQ, notifyQ := newCreateUC(repo)

	staff := uint(3)
	ap, err := uc.Execute(context.Background(), validInput(), domain.StatusConfirmed, &staff)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", ap.Status)
	assert.Empty(t, notifyQ.messages)

	require.Len(t, auditQ.events, 1)
	assert.Equal(t, "appointment_created", auditQ.events[0].Action)
	require.NotNil(t, auditQ.events[0].UserID)
	assert.Equal(t, staff, *auditQ.events[0].UserID)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	repo := newFakeApptRepo()
	uc, _, auditQ, notifyQ := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), validInput(), domain.StatusPending, nil)
	require.NoError(t, err)

	in := validInput()
	in.Name = "Jose Reyes"
	in.Phone = "0917 555 0202"
	in.Email = ""

	_, err = uc.Execute(context.Background(), in, domain.StatusPending, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.SlotTakenMessage, verr.Form)

	// Only the first booking produced side effects.
	assert.Len(t, auditQ.events, 1)
	assert.Len(t, notifyQ.messages, 1)
}

func TestCreateMapsDuplicateKeyToSlotTaken(t *testing.T) {
	// The unique index fires when two requests pass the pre-check together;
	// the loser sees the same message as the pre-check path.
	repo := newFakeApptRepo()
	repo.createErr = domain.ErrSlotTaken()
	uc, _, _, _ := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), validInput(), domain.StatusPending, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.SlotTakenMessage, verr.Form)
}

func TestCreateCancelledSlotIsBookable(t *testing.T) {
	repo := newFakeApptRepo()
	repo.add(&models.Appointment{
		ID:        1,
		Status:    "cancelled",
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
	})
	uc, _, _, _ := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validInput(), domain.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", ap.Status)
}

func TestCreateCollectsFieldErrors(t *testing.T) {
	repo := newFakeApptRepo()
	uc, _, auditQ, _ := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), BookingInput{
		Email: "not-an-email",
		Date:  "10/03/2026",
		Time:  "half past two",
	}, domain.StatusPending, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, requiredMessage, verr.Fields["name"])
	assert.Equal(t, requiredMessage, verr.Fields["phone"])
	assert.Contains(t, verr.Fields["email"], "valid email")
	assert.Contains(t, verr.Fields["date"], "valid date")
	assert.Contains(t, verr.Fields["time"], "valid time")
	assert.Contains(t, verr.Fields["services"], "at least one")

	assert.Empty(t, auditQ.events)
	assert.Empty(t, repo.byID)
}

func TestCreateNormalizesServices(t *testing.T) {
	repo := newFakeApptRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := validInput()
	in.Services = []string{" Tooth Extraction ", "Teeth Cleaning", "", "Teeth Cleaning"}

	ap, err := uc.Execute(context.Background(), in, domain.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teeth Cleaning", "Tooth Extraction"}, []string(ap.Services))
}

func TestCreateAcceptsDisplayTimeInput(t *testing.T) {
	repo := newFakeApptRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := validInput()
	in.Time = "2:00 PM"

	ap, err := uc.Execute(context.Background(), in, domain.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, "14:00", ap.StartTime)
	assert.Equal(t, "2:00 PM", ap.Timeslot)
}
