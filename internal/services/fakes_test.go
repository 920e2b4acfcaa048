package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// --- in-memory fakes shared by the service tests ---

type memDB struct {
	seq          int
	accounts     map[string]*models.Account
	txs          map[string]*models.Transaction
	budgets      map[string]*models.Budget
	tags         map[string]*models.Tag
	connections  map[string]*models.Connection
	budgetTxs    map[[2]string]bool
	budgetTags   map[[2]string]bool
	budgetWrites int
}

func newMemDB() *memDB {
	return &memDB{
		accounts:    map[string]*models.Account{},
		txs:         map[string]*models.Transaction{},
		budgets:     map[string]*models.Budget{},
		tags:        map[string]*models.Tag{},
		connections: map[string]*models.Connection{},
		budgetTxs:   map[[2]string]bool{},
		budgetTags:  map[[2]string]bool{},
	}
}

func (m *memDB) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

type fakeAccounts struct {
	db        *memDB
	insertErr error
}

func (f *fakeAccounts) Insert(_ context.Context, a *models.Account) (string, bool, error) {
	if f.insertErr != nil {
		return "", false, f.insertErr
	}
	for _, existing := range f.db.accounts {
		if existing.Fingerprint == a.Fingerprint {
			return existing.AccountID, false, nil
		}
	}
	if a.AccountID == "" {
		a.AccountID = f.db.nextID("acc")
	}
	cp := *a
	f.db.accounts[a.AccountID] = &cp
	return a.AccountID, true, nil
}

func (f *fakeAccounts) Get(_ context.Context, id string) (*models.Account, error) {
	a, ok := f.db.accounts[id]
	if !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) FindIDByFingerprint(_ context.Context, fp string) (string, error) {
	for _, a := range f.db.accounts {
		if a.Fingerprint == fp {
			return a.AccountID, nil
		}
	}
	return "", nil
}

func (f *fakeAccounts) List(_ context.Context) ([]*models.Account, error) {
	out := []*models.Account{}
	for _, a := range f.db.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAccounts) ListByConnection(_ context.Context, connectionID string) ([]*models.Account, error) {
	out := []*models.Account{}
	for _, a := range f.db.accounts {
		if a.ConnectionID == connectionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	delete(f.db.accounts, id)
	for txID, t := range f.db.txs {
		if t.AccountID == id {
			f.db.deleteTx(txID)
		}
	}
	return nil
}

func (m *memDB) deleteTx(id string) {
	delete(m.txs, id)
	for k := range m.budgetTxs {
		if k[1] == id {
			delete(m.budgetTxs, k)
		}
	}
}

type fakeTxs struct {
	db          *memDB
	insertCalls int
	findErr     error
}

func (f *fakeTxs) find(fp, ext string) string {
	for _, t := range f.db.txs {
		if ext != "" && t.ExternalID == ext {
			return t.TransactionID
		}
	}
	for _, t := range f.db.txs {
		if t.Fingerprint == fp {
			return t.TransactionID
		}
	}
	return ""
}

func (f *fakeTxs) Insert(_ context.Context, t *models.Transaction) (string, bool, error) {
	f.insertCalls++
	if id := f.find(t.Fingerprint, t.ExternalID); id != "" {
		return id, false, nil
	}
	if t.TransactionID == "" {
		t.TransactionID = f.db.nextID("tx")
	}
	cp := *t
	f.db.txs[t.TransactionID] = &cp
	return t.TransactionID, true, nil
}

func (f *fakeTxs) FindID(_ context.Context, fp, ext string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.find(fp, ext), nil
}

func (f *fakeTxs) Get(_ context.Context, id string) (*models.Transaction, error) {
	t, ok := f.db.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTxs) ListRange(_ context.Context, start, end time.Time) ([]*models.Transaction, error) {
	out := []*models.Transaction{}
	for _, t := range f.db.txs {
		if inRange(t.OccurredAt, start, end) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTxs) ListByAccount(_ context.Context, accountID string) ([]*models.Transaction, error) {
	out := []*models.Transaction{}
	for _, t := range f.db.txs {
		if t.AccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTxs) UpdateNote(_ context.Context, id, note string) error {
	t, ok := f.db.txs[id]
	if !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	t.Note = note
	return nil
}

func (f *fakeTxs) Delete(_ context.Context, id string) error {
	f.db.deleteTx(id)
	return nil
}

type fakeBudgets struct {
	db *memDB
}

func (f *fakeBudgets) Create(_ context.Context, b *models.Budget) (string, error) {
	if b.BudgetID == "" {
		b.BudgetID = f.db.nextID("budget")
	}
	cp := *b
	f.db.budgets[b.BudgetID] = &cp
	return b.BudgetID, nil
}

func (f *fakeBudgets) Get(_ context.Context, id string) (*models.Budget, error) {
	b, ok := f.db.budgets[id]
	if !ok {
		return nil, errs.NewNotFoundError("budget not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBudgets) ListRange(_ context.Context, start, end time.Time) ([]*models.Budget, error) {
	out := []*models.Budget{}
	for _, b := range f.db.budgets {
		if inRange(b.CreatedAt, start, end) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeBudgets) Update(_ context.Context, b *models.Budget) error {
	if _, ok := f.db.budgets[b.BudgetID]; !ok {
		return errs.NewNotFoundError("budget not found")
	}
	f.db.budgetWrites++
	cp := *b
	f.db.budgets[b.BudgetID] = &cp
	return nil
}

func (f *fakeBudgets) Delete(_ context.Context, id string) error {
	delete(f.db.budgets, id)
	for k := range f.db.budgetTxs {
		if k[0] == id {
			delete(f.db.budgetTxs, k)
		}
	}
	for k := range f.db.budgetTags {
		if k[0] == id {
			delete(f.db.budgetTags, k)
		}
	}
	return nil
}

func (f *fakeBudgets) Link(_ context.Context, budgetID, txID string) error {
	f.db.budgetTxs[[2]string{budgetID, txID}] = true
	return nil
}

func (f *fakeBudgets) Unlink(_ context.Context, budgetID, txID string) (bool, error) {
	k := [2]string{budgetID, txID}
	if !f.db.budgetTxs[k] {
		return false, nil
	}
	delete(f.db.budgetTxs, k)
	return true, nil
}

func (f *fakeBudgets) FindBudgetIDForTransaction(_ context.Context, txID string) (string, error) {
	for k := range f.db.budgetTxs {
		if k[1] == txID {
			return k[0], nil
		}
	}
	return "", nil
}

func (f *fakeBudgets) LinkedTransactions(_ context.Context, budgetID string) ([]*models.Transaction, error) {
	out := []*models.Transaction{}
	for k := range f.db.budgetTxs {
		if k[0] == budgetID {
			if t, ok := f.db.txs[k[1]]; ok {
				cp := *t
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type fakeTags struct {
	db *memDB
}

func (f *fakeTags) Create(_ context.Context, t *models.Tag) (string, error) {
	if t.TagID == "" {
		t.TagID = f.db.nextID("tag")
	}
	cp := *t
	f.db.tags[t.TagID] = &cp
	return t.TagID, nil
}

func (f *fakeTags) Get(_ context.Context, id string) (*models.Tag, error) {
	t, ok := f.db.tags[id]
	if !ok {
		return nil, errs.NewNotFoundError("tag not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTags) List(_ context.Context) ([]*models.Tag, error) {
	out := []*models.Tag{}
	for _, t := range f.db.tags {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTags) Rename(_ context.Context, id, name string) error {
	t, ok := f.db.tags[id]
	if !ok {
		return errs.NewNotFoundError("tag not found")
	}
	t.Name = name
	return nil
}

func (f *fakeTags) Delete(_ context.Context, id string) error {
	delete(f.db.tags, id)
	for k := range f.db.budgetTags {
		if k[1] == id {
			delete(f.db.budgetTags, k)
		}
	}
	return nil
}

func (f *fakeTags) LinkBudget(_ context.Context, budgetID, tagID string) error {
	f.db.budgetTags[[2]string{budgetID, tagID}] = true
	return nil
}

func (f *fakeTags) UnlinkBudget(_ context.Context, budgetID, tagID string) (bool, error) {
	k := [2]string{budgetID, tagID}
	if !f.db.budgetTags[k] {
		return false, nil
	}
	delete(f.db.budgetTags, k)
	return true, nil
}

func (f *fakeTags) ListForBudget(_ context.Context, budgetID string) ([]*models.Tag, error) {
	out := []*models.Tag{}
	for k := range f.db.budgetTags {
		if k[0] == budgetID {
			if t, ok := f.db.tags[k[1]]; ok {
				cp := *t
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type fakeConnections struct {
	db      *memDB
	cursors map[string]string
}

func (f *fakeConnections) Create(_ context.Context, c *models.Connection) (string, error) {
	if c.ConnectionID == "" {
		c.ConnectionID = f.db.nextID("conn")
	}
	cp := *c
	f.db.connections[c.ConnectionID] = &cp
	return c.ConnectionID, nil
}

func (f *fakeConnections) List(_ context.Context) ([]*models.Connection, error) {
	out := []*models.Connection{}
	for _, c := range f.db.connections {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectionID < out[j].ConnectionID })
	return out, nil
}

func (f *fakeConnections) SetCursor(_ context.Context, id, cursor string, syncedAt time.Time) error {
	c, ok := f.db.connections[id]
	if !ok {
		return errs.NewNotFoundError("connection not found")
	}
	c.Cursor = cursor
	c.LastSyncAt = syncedAt
	return nil
}

// prefixVault "seals" by prefixing so tests can tell sealed from raw.
type prefixVault struct {
	sealed []string
}

func (v *prefixVault) Seal(_ context.Context, itemID, token string) (string, error) {
	v.sealed = append(v.sealed, itemID)
	return "sealed:" + token, nil
}

func (v *prefixVault) Open(_ context.Context, _ string, sealed string) (string, error) {
	if len(sealed) < 7 || sealed[:7] != "sealed:" {
		return "", errs.NewEncryptionError("not sealed", nil)
	}
	return sealed[7:], nil
}

type fakeAggregator struct {
	linkToken    string
	exchange     dto.ExchangeResult
	accounts     []dto.AggregatorAccount
	pages        []dto.AggregatorPage
	syncErr      error
	syncErrAt    int
	exchangeErr  error
	syncCalls    int
	syncTokens   []string
	syncCursors  []string
	endlessPages bool
}

func (f *fakeAggregator) CreateLinkToken(context.Context) (string, error) {
	return f.linkToken, nil
}

func (f *fakeAggregator) ExchangePublicToken(context.Context, string) (dto.ExchangeResult, error) {
	return f.exchange, f.exchangeErr
}

func (f *fakeAggregator) ListAccounts(context.Context, string) ([]dto.AggregatorAccount, error) {
	return f.accounts, nil
}

func (f *fakeAggregator) SyncTransactions(_ context.Context, token, cursor string) (dto.AggregatorPage, error) {
	f.syncCalls++
	f.syncTokens = append(f.syncTokens, token)
	f.syncCursors = append(f.syncCursors, cursor)
	if f.syncErr != nil && f.syncCalls >= f.syncErrAt {
		return dto.AggregatorPage{}, f.syncErr
	}
	if f.endlessPages {
		return dto.AggregatorPage{Cursor: fmt.Sprintf("c%d", f.syncCalls), HasMore: true}, nil
	}
	if f.syncCalls > len(f.pages) {
		return dto.AggregatorPage{Cursor: cursor}, nil
	}
	return f.pages[f.syncCalls-1], nil
}

type fakeParser struct {
	rows    []dto.ImportRow
	skipped int
	err     error
}

func (f *fakeParser) Parse(io.Reader) ([]dto.ImportRow, int, error) {
	return f.rows, f.skipped, f.err
}

// --- wiring helpers ---

type fixture struct {
	db          *memDB
	accounts    *fakeAccounts
	txs         *fakeTxs
	budgets     *fakeBudgets
	tags        *fakeTags
	connections *fakeConnections
	vault       *prefixVault
	aggregator  *fakeAggregator
	parser      *fakeParser
	budgetSvc   *budgetService
	reconcile   *reconcileService
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:          db,
		accounts:    &fakeAccounts{db: db},
		txs:         &fakeTxs{db: db},
		budgets:     &fakeBudgets{db: db},
		tags:        &fakeTags{db: db},
		connections: &fakeConnections{db: db},
		vault:       &prefixVault{},
		aggregator:  &fakeAggregator{},
		parser:      &fakeParser{},
	}
	f.budgetSvc = NewBudgetService(f.budgets, f.txs)
	f.budgetSvc.clockNow = func() time.Time { return fixedNow }
	f.reconcile = NewReconcileService(f.aggregator, f.accounts, f.txs, f.connections, f.vault, f.budgetSvc, f.parser, ReconcileOptions{MaxPages: 5})
	f.reconcile.clockNow = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) addTx(accountID, name string, amount int64, dir models.Direction, at time.Time) string {
	id := f.db.nextID("tx")
	f.db.txs[id] = &models.Transaction{
		TransactionID: id,
		AccountID:     accountID,
		Name:          name,
		Amount:        amount,
		Direction:     dir,
		OccurredAt:    at,
		Fingerprint:   "fp-" + id,
	}
	return id
}

func (f *fixture) addBudget(name string, allocated int64, createdAt time.Time) string {
	id := f.db.nextID("budget")
	f.db.budgets[id] = &models.Budget{BudgetID: id, Name: name, AmountAllocated: allocated, CreatedAt: createdAt}
	return id
}
