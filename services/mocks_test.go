package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"ayursutra/models"
	"ayursutra/repository"
)

var (
	_ PatientStore         = (*memStore)(nil)
	_ DoctorStore          = (*memStore)(nil)
	_ BookingStore         = (*memStore)(nil)
	_ repository.BookingTx = (*memStore)(nil)
	_ Deliverer            = (*MockDeliverer)(nil)
)

type pair struct{ doctor, patient string }

// memStore keeps rows by primary key and the relation as a set of pairs.
type memStore struct {
	mu            sync.Mutex
	patients      map[string]models.Patient
	doctors       map[string]models.Doctor
	pairs         map[pair]bool
	notifications []models.Notification

	// failures injected by tests
	linkErr  error
	notifErr error
	findErr  error
}

func newMemStore() *memStore {
	return &memStore{
		patients: map[string]models.Patient{},
		doctors:  map[string]models.Doctor{},
		pairs:    map[pair]bool{},
	}
}

func (m *memStore) CreatePatient(_ context.Context, p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[p.Name]; ok {
		return repository.ErrDuplicate
	}
	row := *p
	row.Doctors = nil
	m.patients[p.Name] = row
	return nil
}

func (m *memStore) PatientByName(_ context.Context, name string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.patients[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) PatientWithDoctors(_ context.Context, name string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, docName := range m.doctorsOf(name) {
		d := m.doctors[docName]
		p.Doctors = append(p.Doctors, &d)
	}
	return &p, nil
}

func (m *memStore) PatientByEmail(_ context.Context, email string) (*models.Patient, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.Email == email {
			return &p, true, nil
		}
	}
	return nil, false, nil
}

func (m *memStore) UpdateProgress(_ context.Context, name, progress string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[name]
	if !ok {
		return 0, nil
	}
	p.Progress = progress
	m.patients[name] = p
	return 1, nil
}

func (m *memStore) CreateDoctor(_ context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[d.DocName]; ok {
		return repository.ErrDuplicate
	}
	row := *d
	row.Patients = nil
	m.doctors[d.DocName] = row
	return nil
}

func (m *memStore) DoctorByName(_ context.Context, docName string) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[docName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (m *memStore) DoctorWithPatients(_ context.Context, docName string) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[docName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, name := range m.patientsOf(docName) {
		p := m.patients[name]
		d.Patients = append(d.Patients, &p)
	}
	return &d, nil
}

func (m *memStore) DoctorsByLocation(_ context.Context, address string) ([]models.DoctorListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.DoctorListing{}
	for _, d := range m.doctors {
		if d.Address == address {
			out = append(out, models.DoctorListing{DocName: d.DocName, ClinicName: d.ClinicName, PhoneNo: d.PhoneNo})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocName < out[j].DocName })
	return out, nil
}

func (m *memStore) LinkPatientDoctor(_ context.Context, doctor *models.Doctor, patient *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.linkErr != nil {
		return m.linkErr
	}
	m.pairs[pair{doctor.DocName, patient.Name}] = true
	return nil
}

func (m *memStore) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifErr != nil {
		return m.notifErr
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

// WithinTransaction restores the relation and outbox when fn fails.
func (m *memStore) WithinTransaction(ctx context.Context, fn func(tx repository.BookingTx) error) error {
	m.mu.Lock()
	pairs := make(map[pair]bool, len(m.pairs))
	for k, v := range m.pairs {
		pairs[k] = v
	}
	notes := append([]models.Notification(nil), m.notifications...)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.pairs, m.notifications = pairs, notes
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) doctorsOf(patient string) []string {
	var out []string
	for p := range m.pairs {
		if p.patient == patient {
			out = append(out, p.doctor)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memStore) patientsOf(doctor string) []string {
	var out []string
	for p := range m.pairs {
		if p.doctor == doctor {
			out = append(out, p.patient)
		}
	}
	sort.Strings(out)
	return out
}

// MockDeliverer is a func-field fake of Deliverer.
type MockDeliverer struct {
	DeliverFunc      func(ctx context.Context, n *models.Notification) error
	DeliverCallCount int32
}

func (m *MockDeliverer) Deliver(ctx context.Context, n *models.Notification) error {
	atomic.AddInt32(&m.DeliverCallCount, 1)
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, n)
	}
	return nil
}

// MockSender is a func-field fake of notification.Sender.
type MockSender struct {
	SendFunc func(ctx context.Context, n *models.Notification) error
	Sent     []models.Notification
}

func (m *MockSender) Send(ctx context.Context, n *models.Notification) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, n); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, *n)
	return nil
}

var errMailDown = errors.New("smtp: connection refused")
