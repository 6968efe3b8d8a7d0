package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingsRepo "gymflow/database/repository/bookings"
	catalogRepo "gymflow/database/repository/catalog"
	"gymflow/database/repository/rules"
	"gymflow/models"
)

// fakeRuleRepo is an in-memory rulesRepo.RuleRepository.
type fakeRuleRepo struct {
	mu          sync.Mutex
	rules       []models.AvailabilityRule
	overrides   []models.AvailabilityOverride
	holidays    []models.Holiday
	connections map[string]*models.CalendarConnection
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{connections: make(map[string]*models.CalendarConnection)}
}

func (f *fakeRuleRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeRuleRepo) UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
			return nil
		}
	}
	return rulesRepo.ErrNotFound
}

func (f *fakeRuleRepo) SetRuleEnabled(ctx context.Context, orgID, ruleID string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == ruleID && f.rules[i].OrganizationID == orgID {
			f.rules[i].Enabled = enabled
			return nil
		}
	}
	return rulesRepo.ErrNotFound
}

func (f *fakeRuleRepo) GetRuleByID(ctx context.Context, orgID, ruleID string) (*models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == ruleID && f.rules[i].OrganizationID == orgID {
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, rulesRepo.ErrNotFound
}

func (f *fakeRuleRepo) ListRulesForStaff(ctx context.Context, orgID, staffID string) ([]models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, r := range f.rules {
		if r.OrganizationID == orgID && r.StaffID == staffID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) ListStaffWithRules(ctx context.Context, orgID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, r := range f.rules {
		if r.OrganizationID == orgID && r.Enabled && !seen[r.StaffID] {
			seen[r.StaffID] = true
			out = append(out, r.StaffID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRuleRepo) UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.overrides {
		if f.overrides[i].StaffID == override.StaffID && f.overrides[i].Date == override.Date {
			f.overrides[i] = *override
			return nil
		}
	}
	f.overrides = append(f.overrides, *override)
	return nil
}

func (f *fakeRuleRepo) DeleteOverride(ctx context.Context, orgID, overrideID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.overrides {
		if f.overrides[i].ID == overrideID {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return rulesRepo.ErrNotFound
}

func (f *fakeRuleRepo) ListOverrides(ctx context.Context, orgID, staffID, fromDate, toDate string) ([]models.AvailabilityOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityOverride
	for _, o := range f.overrides {
		if o.OrganizationID == orgID && o.StaffID == staffID && o.Date >= fromDate && o.Date <= toDate {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) CreateHoliday(ctx context.Context, holiday *models.Holiday) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holidays = append(f.holidays, *holiday)
	return nil
}

func (f *fakeRuleRepo) DeleteHoliday(ctx context.Context, orgID, holidayID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.holidays {
		if f.holidays[i].ID == holidayID {
			f.holidays = append(f.holidays[:i], f.holidays[i+1:]...)
			return nil
		}
	}
	return rulesRepo.ErrNotFound
}

func (f *fakeRuleRepo) ListHolidays(ctx context.Context, orgID, fromDate, toDate string) ([]models.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Holiday
	for _, h := range f.holidays {
		if h.OrganizationID == orgID && h.StartDate <= toDate && h.EndDate >= fromDate {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) SaveCalendarConnection(ctx context.Context, conn *models.CalendarConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connections[conn.StaffID] = conn
	return nil
}

func (f *fakeRuleRepo) GetCalendarConnection(ctx context.Context, orgID, staffID string) (*models.CalendarConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.connections[staffID]
	if !ok {
		return nil, rulesRepo.ErrNotFound
	}
	return conn, nil
}

func (f *fakeRuleRepo) DeleteCalendarConnection(ctx context.Context, orgID, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.connections, staffID)
	return nil
}

// fakeCatalogRepo is an in-memory catalogRepo.CatalogRepository.
type fakeCatalogRepo struct {
	mu       sync.Mutex
	types    map[string]*models.AppointmentType
	sessions map[string]*models.ClassSession
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		types:    make(map[string]*models.AppointmentType),
		sessions: make(map[string]*models.ClassSession),
	}
}

func (f *fakeCatalogRepo) CreateAppointmentType(ctx context.Context, at *models.AppointmentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *at
	f.types[at.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) UpdateAppointmentType(ctx context.Context, at *models.AppointmentType) error {
	return f.CreateAppointmentType(ctx, at)
}

func (f *fakeCatalogRepo) GetAppointmentType(ctx context.Context, orgID, id string) (*models.AppointmentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.types[id]
	if !ok || at.OrganizationID != orgID {
		return nil, rulesRepo.ErrNotFound
	}
	copied := *at
	return &copied, nil
}

func (f *fakeCatalogRepo) ListAppointmentTypes(ctx context.Context, orgID string, activeOnly bool) ([]models.AppointmentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AppointmentType
	for _, at := range f.types {
		if at.OrganizationID == orgID && (!activeOnly || at.Active) {
			out = append(out, *at)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) CreateSession(ctx context.Context, session *models.ClassSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) GetSession(ctx context.Context, orgID, id string) (*models.ClassSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.OrganizationID != orgID {
		return nil, rulesRepo.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeCatalogRepo) ListSessions(ctx context.Context, orgID string, from, to time.Time) ([]models.ClassSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ClassSession
	for _, s := range f.sessions {
		if s.OrganizationID == orgID && !s.StartTime.Before(from) && s.StartTime.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ReserveSeat(ctx context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.OrganizationID != orgID {
		return rulesRepo.ErrNotFound
	}
	if s.Cancelled || s.SeatsTaken >= s.MaxCapacity {
		return catalogRepo.ErrSessionFull
	}
	s.SeatsTaken++
	return nil
}

func (f *fakeCatalogRepo) ReleaseSeat(ctx context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.OrganizationID != orgID {
		return rulesRepo.ErrNotFound
	}
	if s.SeatsTaken > 0 {
		s.SeatsTaken--
	}
	return nil
}

func (f *fakeCatalogRepo) MarkSessionCancelled(ctx context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return rulesRepo.ErrNotFound
	}
	s.Cancelled = true
	return nil
}

// fakeBookingRepo is an in-memory bookingsRepo.BookingRepository. A single
// mutex serializes transactions, which is how the concurrency tests get
// deterministic winners.
type fakeBookingRepo struct {
	mu       sync.Mutex
	txnMu    sync.Mutex
	bookings map[string]*models.Booking
	claims   map[string]string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*models.Booking),
		claims:   make(map[string]string),
	}
}

func claimKey(staffID string, start time.Time) string {
	return staffID + "|" + start.UTC().Format(time.RFC3339)
}

func (f *fakeBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txnMu.Lock()
	defer f.txnMu.Unlock()
	return fn(ctx)
}

func (f *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.SyncBlockedWindow()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[booking.ID]; !ok {
		return bookingsRepo.ErrNotFound
	}
	booking.SyncBlockedWindow()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, orgID, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.OrganizationID != orgID {
		return nil, bookingsRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) ListBlockingForStaff(ctx context.Context, orgID, staffID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.OrganizationID != orgID || b.StaffID != staffID || !b.Blocks() || b.ID == excludeID {
			continue
		}
		if b.BlockedStart.Before(to) && from.Before(b.BlockedEnd) {
			out = append(out, *b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeBookingRepo) ListBlockingForClient(ctx context.Context, orgID, clientID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.OrganizationID != orgID || b.ClientID != clientID || !b.Blocks() || b.ID == excludeID {
			continue
		}
		if b.StartTime.Before(to) && from.Before(b.EndTime) {
			out = append(out, *b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeBookingRepo) ListForStaffRange(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.OrganizationID == orgID && b.StaffID == staffID && !b.StartTime.Before(from) && b.StartTime.Before(to) {
			out = append(out, *b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeBookingRepo) ListBySession(ctx context.Context, orgID, sessionID string, statuses ...string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.OrganizationID != orgID || b.SessionID != sessionID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, b.Status) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (f *fakeBookingRepo) ListWaitlist(ctx context.Context, orgID, sessionID string) ([]models.Booking, error) {
	return f.ListBySession(ctx, orgID, sessionID, models.BookingStatusWaitlisted)
}

func (f *fakeBookingRepo) ClaimSlot(ctx context.Context, orgID, staffID string, start time.Time, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := claimKey(staffID, start)
	if _, taken := f.claims[key]; taken {
		return bookingsRepo.ErrSlotTaken
	}
	f.claims[key] = bookingID
	return nil
}

func (f *fakeBookingRepo) ReleaseClaim(ctx context.Context, orgID, staffID string, start time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claims, claimKey(staffID, start))
	return nil
}

func sortByStart(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].StartTime.Before(bookings[j].StartTime) })
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// fakeBusySource returns canned intervals or a canned error.
type fakeBusySource struct {
	intervals []models.BusyInterval
	err       error
}

func (f *fakeBusySource) FetchBusyIntervals(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.BusyInterval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intervals, nil
}

// recordingNotifier captures dispatched events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) record(event, bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event+":"+bookingID)
}

func (r *recordingNotifier) BookingConfirmed(ctx context.Context, b *models.Booking) {
	r.record("confirmed", b.ID)
}

func (r *recordingNotifier) BookingWaitlisted(ctx context.Context, b *models.Booking, position int) {
	r.record("waitlisted", b.ID)
}

func (r *recordingNotifier) BookingRescheduled(ctx context.Context, b *models.Booking) {
	r.record("rescheduled", b.ID)
}

func (r *recordingNotifier) BookingCancelled(ctx context.Context, b *models.Booking) {
	r.record("cancelled", b.ID)
}

func (r *recordingNotifier) BookingPromoted(ctx context.Context, b *models.Booking) {
	r.record("promoted", b.ID)
}

// fakeIdempotencyStore is an in-memory IdempotencyStore with SetNX
// semantics: the first booking recorded for a key wins.
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]string)}
}

func (f *fakeIdempotencyStore) Lookup(ctx context.Context, orgID, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bookingID, ok := f.keys[orgID+":"+key]
	return bookingID, ok
}

func (f *fakeIdempotencyStore) Remember(ctx context.Context, orgID, key, bookingID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.keys[orgID+":"+key]; !exists {
		f.keys[orgID+":"+key] = bookingID
	}
}

// looseTxnBookingRepo runs transaction bodies without serializing them
// against each other, like concurrent MongoDB transactions whose reads
// never conflict. Capacity enforcement must not depend on transactions
// excluding one another.
type looseTxnBookingRepo struct {
	*fakeBookingRepo
}

func (l *looseTxnBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// gatedTxnBookingRepo holds the first transaction at its entry until the
// gate is released; later transactions pass straight through.
type gatedTxnBookingRepo struct {
	*fakeBookingRepo
	arrived chan struct{}
	release chan struct{}

	mu    sync.Mutex
	gated bool
}

func newGatedTxnBookingRepo() *gatedTxnBookingRepo {
	return &gatedTxnBookingRepo{
		fakeBookingRepo: newFakeBookingRepo(),
		arrived:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (g *gatedTxnBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	first := !g.gated
	g.gated = true
	g.mu.Unlock()
	if first {
		g.arrived <- struct{}{}
		<-g.release
	}
	return g.fakeBookingRepo.WithTransaction(ctx, fn)
}
