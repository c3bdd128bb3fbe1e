package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Memory is an in-process store with the same contracts as the gorm
// repositories, including the overlap rule for active appointments.
type Memory struct {
	mu     sync.RWMutex
	nextID uint

	tenants      map[uint]models.Tenant
	employees    map[uint]models.Employee
	services     map[uint]models.Service
	clients      map[uint]models.Client
	appointments map[uint]models.Appointment
	blocks       map[uint]models.ScheduleBlock
	auditLogs    []models.AuditLog
}

func NewMemory() *Memory {
	return &Memory{
		tenants:      make(map[uint]models.Tenant),
		employees:    make(map[uint]models.Employee),
		services:     make(map[uint]models.Service),
		clients:      make(map[uint]models.Client),
		appointments: make(map[uint]models.Appointment),
		blocks:       make(map[uint]models.ScheduleBlock),
	}
}

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (m *Memory) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &t, nil
}

func (m *Memory) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tenants {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *Memory) CreateTenant(ctx context.Context, t *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.tenants {
		if existing.Slug == t.Slug {
			return httperr.ErrConflict("slug_taken")
		}
	}
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	m.tenants[t.ID] = *t
	return nil
}

func (m *Memory) UpdateTenant(ctx context.Context, t *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	m.tenants[t.ID] = *t
	return nil
}

// --------------------------------------------------
// Employee
// --------------------------------------------------

func (m *Memory) GetEmployee(ctx context.Context, tenantID, employeeID uint) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[employeeID]
	if !ok || e.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &e, nil
}

func (m *Memory) ListEmployees(ctx context.Context, tenantID uint, onlyActive bool) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID && (!onlyActive || e.Active) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *Memory) CreateEmployee(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.id()
	e.CreatedAt = time.Now().UTC()
	m.employees[e.ID] = *e
	return nil
}

func (m *Memory) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[e.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	e.UpdatedAt = time.Now().UTC()
	m.employees[e.ID] = *e
	return nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (m *Memory) GetService(ctx context.Context, tenantID, serviceID uint) (*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services[serviceID]
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &s, nil
}

func (m *Memory) ListServices(ctx context.Context, tenantID uint, onlyActive bool) ([]models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Service
	for _, s := range m.services {
		if s.TenantID == tenantID && (!onlyActive || s.Active) {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *Memory) CreateService(ctx context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.id()
	s.CreatedAt = time.Now().UTC()
	m.services[s.ID] = *s
	return nil
}

func (m *Memory) UpdateService(ctx context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[s.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	m.services[s.ID] = *s
	return nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (m *Memory) FindClientByPhone(ctx context.Context, tenantID uint, phone string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if c.TenantID == tenantID && c.Phone == phone {
			return &c, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *Memory) CreateClient(ctx context.Context, client *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clients {
		if c.TenantID == client.TenantID && c.Phone == client.Phone {
			return httperr.ErrConflict("client_exists")
		}
	}
	client.ID = m.id()
	client.CreatedAt = time.Now().UTC()
	m.clients[client.ID] = *client
	return nil
}

func (m *Memory) UpdateClient(ctx context.Context, client *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[client.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	c.Name = client.Name
	c.Email = client.Email
	c.UpdatedAt = time.Now().UTC()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) AddClientVisit(ctx context.Context, clientID uint, spent float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[clientID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	c.VisitCount++
	c.TotalSpent += spent
	m.clients[clientID] = c
	return nil
}

func (m *Memory) ListClients(ctx context.Context, tenantID uint, query string) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	var list []models.Client
	for _, c := range m.clients {
		if c.TenantID != tenantID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(c.Phone, q) {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (m *Memory) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()

	if domain.Status(ap.Status).OccupiesTime() {
		for _, other := range m.appointments {
			if other.EmployeeID == ap.EmployeeID &&
				domain.Status(other.Status).OccupiesTime() &&
				ap.StartTime.Before(other.EndTime) &&
				other.StartTime.Before(ap.EndTime) {
				return httperr.ErrConflict("time_conflict")
			}
		}
	}

	ap.ID = m.id()
	ap.CreatedAt = time.Now().UTC()
	ap.UpdatedAt = ap.CreatedAt
	m.appointments[ap.ID] = stripAssociations(*ap)
	return nil
}

func (m *Memory) ListActiveAppointments(ctx context.Context, employeeID uint, start, end time.Time) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Appointment
	for _, ap := range m.appointments {
		if ap.EmployeeID == employeeID &&
			domain.Status(ap.Status).OccupiesTime() &&
			ap.StartTime.Before(end) &&
			start.Before(ap.EndTime) {
			list = append(list, ap)
		}
	}
	sortAppointments(list)
	return list, nil
}

func (m *Memory) GetAppointment(ctx context.Context, tenantID, appointmentID uint) (*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ap, ok := m.appointments[appointmentID]
	if !ok || ap.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	ap = m.hydrate(ap)
	return &ap, nil
}

func (m *Memory) UpdateStatusIf(ctx context.Context, ap *models.Appointment, from domain.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.appointments[ap.ID]
	if !ok || stored.TenantID != ap.TenantID || stored.Status != string(from) {
		return false, nil
	}

	stored.Status = ap.Status
	stored.ConfirmedAt = ap.ConfirmedAt
	stored.CancelledAt = ap.CancelledAt
	stored.CompletedAt = ap.CompletedAt
	stored.CancellationReason = ap.CancellationReason
	stored.UpdatedAt = time.Now().UTC()
	m.appointments[ap.ID] = stored
	return true, nil
}

func (m *Memory) UpdatePayment(ctx context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.appointments[ap.ID]
	if !ok || stored.TenantID != ap.TenantID {
		return domain.ErrRecordNotFound
	}
	stored.PaymentStatus = ap.PaymentStatus
	stored.PaymentMethod = ap.PaymentMethod
	stored.UpdatedAt = time.Now().UTC()
	m.appointments[ap.ID] = stored
	return nil
}

func (m *Memory) DeleteAppointment(ctx context.Context, tenantID, appointmentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ap, ok := m.appointments[appointmentID]
	if !ok || ap.TenantID != tenantID {
		return domain.ErrRecordNotFound
	}
	delete(m.appointments, appointmentID)
	return nil
}

func (m *Memory) ListAppointmentsForPeriod(ctx context.Context, tenantID, employeeID uint, start, end time.Time) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Appointment
	for _, ap := range m.appointments {
		if ap.TenantID != tenantID || (employeeID != 0 && ap.EmployeeID != employeeID) {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		list = append(list, m.hydrate(ap))
	}
	sortAppointments(list)
	return list, nil
}

func (m *Memory) hydrate(ap models.Appointment) models.Appointment {
	ap.Client = m.clients[ap.ClientID]
	ap.Employee = m.employees[ap.EmployeeID]
	ap.Service = m.services[ap.ServiceID]
	return ap
}

func stripAssociations(ap models.Appointment) models.Appointment {
	ap.Tenant = models.Tenant{}
	ap.Client = models.Client{}
	ap.Employee = models.Employee{}
	ap.Service = models.Service{}
	return ap
}

func sortAppointments(list []models.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
}

// --------------------------------------------------
// Schedule blocks
// --------------------------------------------------

func (m *Memory) CreateBlock(ctx context.Context, block *models.ScheduleBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertBlock(block)
	return nil
}

func (m *Memory) CreateBlocks(ctx context.Context, blocks []models.ScheduleBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range blocks {
		m.insertBlock(&blocks[i])
	}
	return nil
}

func (m *Memory) insertBlock(b *models.ScheduleBlock) {
	b.ID = m.id()
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	b.CreatedAt = time.Now().UTC()
	m.blocks[b.ID] = *b
}

func (m *Memory) GetBlock(ctx context.Context, tenantID, blockID uint) (*models.ScheduleBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blocks[blockID]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &b, nil
}

func (m *Memory) ListBlocks(ctx context.Context, employeeID uint, start, end time.Time) ([]models.ScheduleBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.ScheduleBlock
	for _, b := range m.blocks {
		if b.EmployeeID == employeeID && b.StartTime.Before(end) && start.Before(b.EndTime) {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list, nil
}

func (m *Memory) DeleteBlock(ctx context.Context, tenantID, blockID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[blockID]
	if !ok || b.TenantID != tenantID {
		return domain.ErrRecordNotFound
	}
	delete(m.blocks, blockID)
	return nil
}

func (m *Memory) DeleteRecurrence(ctx context.Context, tenantID uint, recurrenceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, b := range m.blocks {
		if b.TenantID == tenantID && b.RecurrenceID == recurrenceID {
			delete(m.blocks, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) LastRecurrenceBlock(ctx context.Context, tenantID uint, recurrenceID string) (*models.ScheduleBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last *models.ScheduleBlock
	for _, b := range m.blocks {
		if b.TenantID != tenantID || b.RecurrenceID != recurrenceID {
			continue
		}
		if last == nil || b.StartTime.After(last.StartTime) {
			b := b
			last = &b
		}
	}
	if last == nil {
		return nil, domain.ErrRecordNotFound
	}
	return last, nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (m *Memory) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.ID = m.id()
	log.CreatedAt = time.Now().UTC()
	m.auditLogs = append(m.auditLogs, *log)
	return nil
}

func (m *Memory) ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.AuditLog
	for i := len(m.auditLogs) - 1; i >= 0; i-- {
		l := m.auditLogs[i]
		if l.TenantID != f.TenantID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

var (
	_ domain.Repository        = (*Memory)(nil)
	_ domain.BlockRepository   = (*Memory)(nil)
	_ domain.CatalogRepository = (*Memory)(nil)
	_ audit.Store              = (*Memory)(nil)
)
