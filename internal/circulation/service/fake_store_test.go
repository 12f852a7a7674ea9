package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"circulation/internal/store"
	"circulation/pkg/model"
)

// fakeStore keeps every ledger in memory. Transactions are serialized and
// roll back to a snapshot when fn fails, which is all the service relies on.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	assets    map[string]*model.Asset
	statuses  map[string]*model.Status
	holds     map[string]*model.Hold
	checkouts map[string]*model.Checkout
	histories map[string]*model.CheckoutHistory
	cards     map[string]*model.Card
	patrons   map[string]*model.Patron

	seq     int
	failOn  map[string]error
	txCount int
	commits int
	inTx    bool

	// staleExists makes ExistsForAsset miss existing checkouts, the way a
	// concurrent transaction's uncommitted write is invisible.
	staleExists bool
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		assets:    map[string]*model.Asset{},
		statuses:  map[string]*model.Status{},
		holds:     map[string]*model.Hold{},
		checkouts: map[string]*model.Checkout{},
		histories: map[string]*model.CheckoutHistory{},
		cards:     map[string]*model.Card{},
		patrons:   map[string]*model.Patron{},
		failOn:    map[string]error{},
	}
	for i, st := range model.DefaultStatuses {
		st := st
		st.ID = fmt.Sprint(i + 1)
		s.statuses[st.Name] = &st
	}
	return s
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

func (s *fakeStore) fail(op string) error {
	return s.failOn[op]
}

func (s *fakeStore) addAsset(id, status string) *model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &model.Asset{
		ID:       id,
		Title:    "Title " + id,
		Kind:     model.AssetKindBook,
		Status:   status,
		Location: model.Branch{ID: "main", Name: "Main"},
		Book:     &model.BookDetails{Author: "Author", ISBN: "9780441013593", DeweyIndex: "813.54"},
	}
	s.assets[id] = a
	return a
}

func (s *fakeStore) addPatron(cardID, first, last string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[cardID] = &model.Card{ID: cardID}
	s.patrons[cardID] = &model.Patron{ID: "p-" + cardID, FirstName: first, LastName: last, CardID: cardID}
}

func (s *fakeStore) status(assetID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets[assetID].Status
}

func (s *fakeStore) checkoutsFor(assetID string) []*model.Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Checkout
	for _, c := range s.checkouts {
		if c.AssetID == assetID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

func (s *fakeStore) historiesFor(assetID string) []*model.CheckoutHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.CheckoutHistory
	for _, h := range s.histories {
		if h.AssetID == assetID {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) holdsFor(assetID string) []*model.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Hold
	for _, h := range s.holds {
		if h.AssetID == assetID {
			cp := *h
			out = append(out, &cp)
		}
	}
	model.SortHolds(out)
	return out
}

type snapshot struct {
	assets    map[string]*model.Asset
	holds     map[string]*model.Hold
	checkouts map[string]*model.Checkout
	histories map[string]*model.CheckoutHistory
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (s *fakeStore) ExecuteTransaction(ctx context.Context, fn store.TransactionFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	snap := snapshot{
		assets:    cloneMap(s.assets),
		holds:     cloneMap(s.holds),
		checkouts: cloneMap(s.checkouts),
		histories: cloneMap(s.histories),
	}
	s.inTx = true
	s.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		err = s.fail("commit")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	if err != nil {
		s.assets = snap.assets
		s.holds = snap.holds
		s.checkouts = snap.checkouts
		s.histories = snap.histories
		return err
	}
	s.commits++
	return nil
}

func (s *fakeStore) Ping(context.Context) error { return s.fail("ping") }

func (s *fakeStore) Assets() store.AssetDirectory    { return (*fakeAssets)(s) }
func (s *fakeStore) Statuses() store.StatusRegistry  { return (*fakeStatuses)(s) }
func (s *fakeStore) Holds() store.HoldLedger         { return (*fakeHolds)(s) }
func (s *fakeStore) Checkouts() store.CheckoutLedger { return (*fakeCheckouts)(s) }
func (s *fakeStore) Cards() store.CardDirectory      { return (*fakeCards)(s) }

type fakeAssets fakeStore

func (f *fakeAssets) Create(_ context.Context, a *model.Asset) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("assets.Create"); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = s.nextID("asset")
	}
	cp := *a
	s.assets[a.ID] = &cp
	return nil
}

func (f *fakeAssets) FindByID(_ context.Context, id string) (*model.Asset, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("assets.FindByID"); err != nil {
		return nil, err
	}
	a, ok := s.assets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssets) FindForUpdate(ctx context.Context, id string) (*model.Asset, error) {
	s := (*fakeStore)(f)
	if err := s.fail("assets.FindForUpdate"); err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeAssets) FindAll(_ context.Context, limit int, offset int64) ([]*model.Asset, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*model.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return page(all, limit, offset), nil
}

func (f *fakeAssets) Count(context.Context) (int64, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.assets)), nil
}

func (f *fakeAssets) UpdateStatus(_ context.Context, id string, status string) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("assets.UpdateStatus"); err != nil {
		return err
	}
	a, ok := s.assets[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Status = status
	return nil
}

type fakeStatuses fakeStore

func (f *fakeStatuses) FindByName(_ context.Context, name string) (*model.Status, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStatuses) FindAll(context.Context) ([]*model.Status, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Status, 0, len(s.statuses))
	for _, st := range s.statuses {
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeHolds fakeStore

func (f *fakeHolds) Create(_ context.Context, h *model.Hold) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("holds.Create"); err != nil {
		return err
	}
	h.ID = s.nextID("hold")
	cp := *h
	s.holds[h.ID] = &cp
	return nil
}

func (f *fakeHolds) FindByID(_ context.Context, id string) (*model.Hold, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHolds) ListByAsset(_ context.Context, assetID string) ([]*model.Hold, error) {
	s := (*fakeStore)(f)
	if err := s.fail("holds.ListByAsset"); err != nil {
		return nil, err
	}
	holds := s.holdsFor(assetID)
	if holds == nil {
		holds = []*model.Hold{}
	}
	return holds, nil
}

func (f *fakeHolds) CountByAsset(_ context.Context, assetID string) (int64, error) {
	return int64(len((*fakeStore)(f).holdsFor(assetID))), nil
}

func (f *fakeHolds) Delete(_ context.Context, id string) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holds[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.holds, id)
	return nil
}

type fakeCheckouts fakeStore

func (f *fakeCheckouts) Create(_ context.Context, c *model.Checkout) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("checkouts.Create"); err != nil {
		return err
	}
	for _, existing := range s.checkouts {
		if existing.AssetID == c.AssetID {
			return fmt.Errorf("failed to create checkout: %w", store.ErrDuplicate)
		}
	}
	c.ID = s.nextID("checkout")
	cp := *c
	s.checkouts[c.ID] = &cp
	return nil
}

func (f *fakeCheckouts) FindByID(_ context.Context, id string) (*model.Checkout, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checkouts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCheckouts) ExistsForAsset(_ context.Context, assetID string) (bool, error) {
	s := (*fakeStore)(f)
	if err := s.fail("checkouts.ExistsForAsset"); err != nil {
		return false, err
	}
	if s.staleExists {
		return false, nil
	}
	return len(s.checkoutsFor(assetID)) > 0, nil
}

func (f *fakeCheckouts) LatestByAsset(_ context.Context, assetID string) (*model.Checkout, error) {
	all := (*fakeStore)(f).checkoutsFor(assetID)
	if len(all) == 0 {
		return nil, store.ErrNotFound
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Since.After(all[j].Since) })
	return all[0], nil
}

func (f *fakeCheckouts) FindAll(_ context.Context, limit int, offset int64) ([]*model.Checkout, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*model.Checkout, 0, len(s.checkouts))
	for _, c := range s.checkouts {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (f *fakeCheckouts) Count(context.Context) (int64, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.checkouts)), nil
}

func (f *fakeCheckouts) DeleteByAsset(_ context.Context, assetID string) (bool, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := false
	for id, c := range s.checkouts {
		if c.AssetID == assetID {
			delete(s.checkouts, id)
			deleted = true
		}
	}
	return deleted, nil
}

func (f *fakeCheckouts) CreateHistory(_ context.Context, h *model.CheckoutHistory) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("checkouts.CreateHistory"); err != nil {
		return err
	}
	for _, existing := range s.histories {
		if existing.AssetID == h.AssetID && existing.Open {
			return fmt.Errorf("failed to create checkout history: %w", store.ErrDuplicate)
		}
	}
	h.ID = s.nextID("history")
	cp := *h
	s.histories[h.ID] = &cp
	return nil
}

func (f *fakeCheckouts) CloseOpenHistory(_ context.Context, assetID string, at time.Time) (bool, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	closed := false
	for _, h := range s.histories {
		if h.AssetID == assetID && h.Open {
			h.Close(at)
			closed = true
		}
	}
	return closed, nil
}

func (f *fakeCheckouts) ListHistory(_ context.Context, assetID string) ([]*model.CheckoutHistory, error) {
	out := (*fakeStore)(f).historiesFor(assetID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedOut.After(out[j].CheckedOut) })
	if out == nil {
		out = []*model.CheckoutHistory{}
	}
	return out, nil
}

type fakeCards fakeStore

func (f *fakeCards) FindCardByID(_ context.Context, id string) (*model.Card, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCards) FindPatronByCardID(_ context.Context, cardID string) (*model.Patron, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patrons[cardID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func page[T any](all []*T, limit int, offset int64) []*T {
	if offset >= int64(len(all)) {
		return []*T{}
	}
	end := int(offset) + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
