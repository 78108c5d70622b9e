package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"boostbot-backend/models"
	"boostbot-backend/repository"

	"github.com/google/uuid"
)

// In-memory stand-ins for the storage and transport interfaces. The
// referral fake mirrors the database's conditional-insert semantics so
// the idempotency tests exercise the same contract production relies on.

type fakeReferralStore struct {
	mu         sync.Mutex
	byCode     map[string]*models.Referral
	byPhone    map[string]*models.Referral
	referred   map[string]bool
	points     map[string]int
	collideAll bool
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{
		byCode:   make(map[string]*models.Referral),
		byPhone:  make(map[string]*models.Referral),
		referred: make(map[string]bool),
		points:   make(map[string]int),
	}
}

func (f *fakeReferralStore) GetByCode(code string) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collideAll {
		return &models.Referral{ID: uuid.New(), ReferralCode: code}, nil
	}
	r, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeReferralStore) GetByPhone(phone string) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byPhone[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeReferralStore) Create(referral *models.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	f.byCode[referral.ReferralCode] = referral
	f.byPhone[referral.ReferrerPhone] = referral
	return nil
}

func tripleKey(id uuid.UUID, phone, campaign string) string {
	return fmt.Sprintf("%s|%s|%s", id, phone, campaign)
}

func pairKey(id uuid.UUID, campaign string) string {
	return fmt.Sprintf("%s|%s", id, campaign)
}

// AddReferredUser reproduces the conditional insert: the second call
// for the same triple reports no row inserted.
func (f *fakeReferralStore) AddReferredUser(referralID uuid.UUID, phone, campaignCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := tripleKey(referralID, phone, campaignCode)
	if f.referred[key] {
		return false, nil
	}
	f.referred[key] = true
	for _, r := range f.byCode {
		if r.ID == referralID {
			r.ReferredUsers = append(r.ReferredUsers, models.ReferredUser{
				ReferralID:   referralID,
				PhoneNumber:  phone,
				CampaignCode: campaignCode,
				ReferredAt:   time.Now(),
			})
		}
	}
	return true, nil
}

func (f *fakeReferralStore) IncrementPoints(referralID uuid.UUID, campaignCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[pairKey(referralID, campaignCode)]++
	return nil
}

func (f *fakeReferralStore) EnsurePointsEntry(referralID uuid.UUID, campaignCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey(referralID, campaignCode)
	if _, ok := f.points[key]; !ok {
		f.points[key] = 0
	}
	return nil
}

func (f *fakeReferralStore) pointsFor(referralID uuid.UUID, campaignCode string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points[pairKey(referralID, campaignCode)]
}

func (f *fakeReferralStore) creditedCount(referralID uuid.UUID, campaignCode string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.byCode {
		if r.ID != referralID {
			continue
		}
		for _, u := range r.ReferredUsers {
			if u.CampaignCode == campaignCode {
				count++
			}
		}
	}
	return count
}

type fakeCampaignStore struct {
	campaigns map[string]*models.Campaign
}

func newFakeCampaignStore(campaigns ...*models.Campaign) *fakeCampaignStore {
	f := &fakeCampaignStore{campaigns: make(map[string]*models.Campaign)}
	for _, c := range campaigns {
		f.campaigns[c.Code] = c
	}
	return f
}

func (f *fakeCampaignStore) GetByCode(code string) (*models.Campaign, error) {
	c, ok := f.campaigns[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCampaignStore) Active() ([]models.Campaign, error) {
	var out []models.Campaign
	for _, c := range f.campaigns {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeCustomerStore struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
	merges    []map[string]interface{}
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]*models.Customer)}
}

func (f *fakeCustomerStore) GetByPhone(phone string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerStore) Create(customer *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[customer.PhoneNumber] = customer
	return nil
}

func (f *fakeCustomerStore) Merge(phone string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merges = append(f.merges, updates)
	return nil
}

func (f *fakeCustomerStore) IsEscalated(phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[phone]; ok {
		return c.EscalationStatus, nil
	}
	return false, nil
}

type fakeChatStore struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func (f *fakeChatStore) Append(message *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeChatStore) Recent(phone string, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.PhoneNumber == phone {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeTransport struct {
	mu        sync.Mutex
	sent      []sentMessage
	templates []sentMessage
}

func (f *fakeTransport) Send(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}

func (f *fakeTransport) SendTemplate(ctx context.Context, to, templateSID string, params map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, sentMessage{To: to, Body: templateSID})
	return "SM" + uuid.NewString(), nil
}

type fakeClassifier struct {
	decision *RoutingDecision
	err      error
	calls    int
}

func (f *fakeClassifier) Classify(ctx context.Context, gc *GlobalContext, message string) (*RoutingDecision, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

type fakeAgent struct {
	reply string
	calls int
}

func (f *fakeAgent) Handle(ctx context.Context, gc *GlobalContext, message string) (string, error) {
	f.calls++
	return f.reply, nil
}
