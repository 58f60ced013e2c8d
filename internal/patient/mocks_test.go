package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/registration"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/visit"
)

// memoryRepository keeps patients in a map and mimics the SQL search. Create
// draws a registration value only once the row would be accepted, the way
// the transaction in Repository.Create gives back a rejected draw.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	patients map[int64]*Patient
	seqs     map[int64]int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{patients: map[int64]*Patient{}, seqs: map[int64]int64{}}
}

func (m *memoryRepository) Create(ctx context.Context, assigner RegistrationAssigner, req PatientRequest) (*Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.NationalID == req.NationalID {
			return nil, validation.Field("national_id", "a patient with this national ID already exists")
		}
	}
	seq := assigner.Assign(ctx, nil)
	for id := range m.patients {
		if m.seqs[id] == seq {
			return nil, validation.Field("registration_number", "registration number already assigned")
		}
	}
	m.nextID++
	p := fromRequest(m.nextID, req)
	p.RegistrationNumber = registration.Format(seq)
	p.CreatedAt = time.Now()
	m.patients[p.ID] = p
	m.seqs[p.ID] = seq
	cp := *p
	return &cp, nil
}

func (m *memoryRepository) Get(_ context.Context, id int64) (*Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepository) Search(_ context.Context, q string, limit, offset int) ([]Patient, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = strings.ToLower(q)
	var matched []Patient
	for _, p := range m.patients {
		if q == "" ||
			strings.Contains(strings.ToLower(p.NationalID), q) ||
			strings.Contains(strings.ToLower(p.Surname), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(p.RegistrationNumber, q) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Surname != matched[j].Surname {
			return matched[i].Surname < matched[j].Surname
		}
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	if offset >= total {
		return []Patient{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memoryRepository) Update(_ context.Context, id int64, req PatientRequest) (*Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := fromRequest(id, req)
	p.RegistrationNumber = old.RegistrationNumber
	p.CreatedAt = old.CreatedAt
	now := time.Now()
	p.UpdatedAt = &now
	m.patients[id] = p
	cp := *p
	return &cp, nil
}

func fromRequest(id int64, req PatientRequest) *Patient {
	birth, _ := time.Parse(birthDateLayout, req.BirthDate)
	return &Patient{
		ID:                id,
		Surname:           req.Surname,
		Name:              req.Name,
		NationalID:        req.NationalID,
		BirthDate:         req.BirthDate,
		Gender:            req.Gender,
		Phone:             req.Phone,
		Address:           req.Address,
		InsurancePayerID:  req.InsurancePayerID,
		PayerMemberNumber: req.PayerMemberNumber,
		MedicalHistory:    req.MedicalHistory,
		birth:             birth,
	}
}

type stubVisits struct {
	visits []visit.Visit
	err    error
}

func (s stubVisits) ListByPatient(_ context.Context, _ int64) ([]visit.Visit, error) {
	return s.visits, s.err
}

type failingSequence struct{}

func (failingSequence) Next(context.Context, registration.Tx) (int64, error) {
	return 0, errors.New("sequence unavailable")
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type countingMetrics struct {
	ops []string
}

func (c *countingMetrics) RecordPatientOperation(_ context.Context, op string) {
	c.ops = append(c.ops, op)
}
