package command

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/internal/ports"
)

// This file collects small in-memory fakes for every port the command
// package depends on. The teacher generates gomock mocks per adapter
// package (go:generate mockgen); this core has no adapter-local mock
// packages to generate against, so these hand-written fakes play the same
// role — deterministic, inspectable stand-ins wired directly into UseCase
// the way the teacher's tests wire in *MockRepository values.

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeRefGen struct{}

func (fakeRefGen) TransactionReference() string     { return "TXN" + uuid.NewString() }
func (fakeRefGen) EFTReference() string              { return "EFT" + uuid.NewString() }
func (fakeRefGen) BatchID(t time.Time) string        { return "BATCH" + t.Format("2006010215") }
func (fakeRefGen) CustomerNumber() string            { return "CUST" + uuid.NewString() }
func (fakeRefGen) AccountNumber() string             { return "ACC" + uuid.NewString() }

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*mmodel.Account
}

func newFakeAccountRepo(accounts ...*mmodel.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[uuid.UUID]*mmodel.Account)}
	for _, a := range accounts {
		r.accounts[uuid.MustParse(a.ID)] = a
	}

	return r
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *mmodel.Account) (*mmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[uuid.MustParse(account.ID)] = account

	return account, nil
}

func (r *fakeAccountRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, errNotFound
	}

	cp := *a

	return &cp, nil
}

func (r *fakeAccountRepo) FindForUpdate(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	return r.Find(ctx, id)
}

func (r *fakeAccountRepo) FindByAccountNumber(ctx context.Context, accountNumber string) (*mmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.AccountNumber == accountNumber {
			cp := *a
			return &cp, nil
		}
	}

	return nil, errNotFound
}

func (r *fakeAccountRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.Account

	for _, a := range r.accounts {
		if a.CustomerID == customerID.String() {
			cp := *a
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *fakeAccountRepo) UpdateBalances(ctx context.Context, account *mmodel.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[uuid.MustParse(account.ID)] = account

	return nil
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.AccountStatus) (*mmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, errNotFound
	}

	a.Status = status

	return a, nil
}

type fakeTransactionRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*mmodel.Transaction
	calls int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byID: make(map[uuid.UUID]*mmodel.Transaction)}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, txn *mmodel.Transaction) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.byID[uuid.MustParse(txn.ID)] = txn

	return txn, nil
}

func (r *fakeTransactionRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return t, nil
}

func (r *fakeTransactionRepo) FindByReference(ctx context.Context, reference string) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.byID {
		if t.TransactionReference == reference {
			return t, nil
		}
	}

	return nil, errNotFound
}

func (r *fakeTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.TransactionStatus, failureReason *string) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	t.Status = status
	t.FailureReason = failureReason

	return t, nil
}

func (r *fakeTransactionRepo) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.Transaction

	for _, t := range r.byID {
		if t.AccountID == accountID.String() {
			out = append(out, t)
		}
	}

	return out, nil
}

type fakeBeneficiaryRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*mmodel.Beneficiary
}

func newFakeBeneficiaryRepo(beneficiaries ...*mmodel.Beneficiary) *fakeBeneficiaryRepo {
	r := &fakeBeneficiaryRepo{byID: make(map[uuid.UUID]*mmodel.Beneficiary)}
	for _, b := range beneficiaries {
		r.byID[uuid.MustParse(b.ID)] = b
	}

	return r
}

func (r *fakeBeneficiaryRepo) Create(ctx context.Context, b *mmodel.Beneficiary) (*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(b.ID)] = b

	return b, nil
}

func (r *fakeBeneficiaryRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return b, nil
}

func (r *fakeBeneficiaryRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.Beneficiary

	for _, b := range r.byID {
		if b.CustomerID == customerID.String() {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *fakeBeneficiaryRepo) FindDuplicate(ctx context.Context, customerID uuid.UUID, accountNumber, ifscCode string) (*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.byID {
		if b.CustomerID == customerID.String() && b.AccountNumber == accountNumber && b.IFSCCode == ifscCode {
			return b, nil
		}
	}

	return nil, nil
}

func (r *fakeBeneficiaryRepo) FindByStatus(ctx context.Context, status mmodel.BeneficiaryStatus, page, limit int) ([]*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.Beneficiary

	for _, b := range r.byID {
		if b.Status == status {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *fakeBeneficiaryRepo) Update(ctx context.Context, b *mmodel.Beneficiary) (*mmodel.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(b.ID)] = b

	return b, nil
}

func (r *fakeBeneficiaryRepo) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return errNotFound
	}

	b.LastUsedAt = &usedAt

	return nil
}

type fakeEFTRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.EFTTransaction
}

func newFakeEFTRepo() *fakeEFTRepo {
	return &fakeEFTRepo{byID: make(map[uuid.UUID]*mmodel.EFTTransaction)}
}

func (r *fakeEFTRepo) Create(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(eft.ID)] = eft

	return eft, nil
}

func (r *fakeEFTRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.EFTTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return e, nil
}

func (r *fakeEFTRepo) FindByReference(ctx context.Context, reference string) (*mmodel.EFTTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.byID {
		if e.EFTReference == reference {
			return e, nil
		}
	}

	return nil, errNotFound
}

// FindQueuedForBatch mirrors the Postgres adapter's real predicate
// (status IN (PENDING, QUEUED), spec.md §4.3 step 2/I5) rather than a
// stale snapshot, so tests exercise the same contract production does.
func (r *fakeEFTRepo) FindQueuedForBatch(ctx context.Context) ([]*mmodel.EFTTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.EFTTransaction

	for _, e := range r.byID {
		if e.Status == mmodel.EFTPending || e.Status == mmodel.EFTQueued {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *fakeEFTRepo) Update(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(eft.ID)] = eft

	return eft, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*mmodel.User
	taken map[string]bool
}

func newFakeUserRepo(users ...*mmodel.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: make(map[uuid.UUID]*mmodel.User), taken: make(map[string]bool)}
	for _, u := range users {
		r.byID[uuid.MustParse(u.ID)] = u
		r.taken[u.Username] = true
	}

	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *mmodel.User) (*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(user.ID)] = user
	r.taken[user.Username] = true

	return user, nil
}

func (r *fakeUserRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return u, nil
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, usernameOrEmailOrMobile string) (*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == usernameOrEmailOrMobile || u.Email == usernameOrEmailOrMobile || u.Mobile == usernameOrEmailOrMobile {
			return u, nil
		}
	}

	return nil, errNotFound
}

func (r *fakeUserRepo) FindByStatus(ctx context.Context, status mmodel.UserStatus, page, limit int) ([]*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.User

	for _, u := range r.byID {
		if u.Status == status {
			out = append(out, u)
		}
	}

	return out, nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.UserStatus) (*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	u.Status = status

	return u, nil
}

func (r *fakeUserRepo) LinkCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return errNotFound
	}

	cid := customerID.String()
	u.CustomerID = &cid

	return nil
}

func (r *fakeUserRepo) ExistsByUsernameEmailMobile(ctx context.Context, username, email, mobile string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == username || (email != "" && u.Email == email) || (mobile != "" && u.Mobile == mobile) {
			return true, nil
		}
	}

	return false, nil
}

type fakeCustomerRepo struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]*mmodel.Customer
	byUserID   map[uuid.UUID]*mmodel.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byID: make(map[uuid.UUID]*mmodel.Customer), byUserID: make(map[uuid.UUID]*mmodel.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *mmodel.Customer) (*mmodel.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(c.ID)] = c
	r.byUserID[uuid.MustParse(c.UserID)] = c

	return c, nil
}

func (r *fakeCustomerRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return c, nil
}

func (r *fakeCustomerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*mmodel.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byUserID[userID]
	if !ok {
		return nil, errNotFound
	}

	return c, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *mmodel.Customer) (*mmodel.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(c.ID)] = c
	r.byUserID[uuid.MustParse(c.UserID)] = c

	return c, nil
}

func (r *fakeCustomerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.CustomerStatus) (*mmodel.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	c.Status = status

	return c, nil
}

type fakeRoleRepo struct {
	byName map[string]*mmodel.Role
}

func newFakeRoleRepo(roles ...*mmodel.Role) *fakeRoleRepo {
	r := &fakeRoleRepo{byName: make(map[string]*mmodel.Role)}
	for _, role := range roles {
		r.byName[role.Name] = role
	}

	return r
}

func (r *fakeRoleRepo) FindByName(ctx context.Context, name string) (*mmodel.Role, error) {
	role, ok := r.byName[name]
	if !ok {
		return nil, errNotFound
	}

	return role, nil
}

func (r *fakeRoleRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]mmodel.Role, error) {
	return nil, nil
}

func (r *fakeRoleRepo) UpdatePermissions(ctx context.Context, roleID uuid.UUID, permissionNames []string) (*mmodel.Role, error) {
	return nil, nil
}

type fakeQRRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.QRRequest
}

func newFakeQRRepo() *fakeQRRepo {
	return &fakeQRRepo{byID: make(map[uuid.UUID]*mmodel.QRRequest)}
}

func (r *fakeQRRepo) Create(ctx context.Context, req *mmodel.QRRequest) (*mmodel.QRRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(req.ID)] = req

	return req, nil
}

func (r *fakeQRRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.QRRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return req, nil
}

func (r *fakeQRRepo) MarkPaid(ctx context.Context, id uuid.UUID, payerUserID string, paidAt time.Time, debitTxnID, creditTxnID string) (*mmodel.QRRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	req.Status = mmodel.QRRequestPaid
	req.PaidBy = &payerUserID
	req.PaidAt = &paidAt
	req.DebitTransactionID = &debitTxnID
	req.CreditTransactionID = &creditTxnID

	return req, nil
}

type fakeUPIRepo struct {
	mu   sync.Mutex
	byID map[string]*mmodel.UPIIdentifier
}

func newFakeUPIRepo(identifiers ...*mmodel.UPIIdentifier) *fakeUPIRepo {
	r := &fakeUPIRepo{byID: make(map[string]*mmodel.UPIIdentifier)}
	for _, u := range identifiers {
		r.byID[u.UPIID] = u
	}

	return r
}

func (r *fakeUPIRepo) Create(ctx context.Context, upi *mmodel.UPIIdentifier) (*mmodel.UPIIdentifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[upi.UPIID] = upi

	return upi, nil
}

func (r *fakeUPIRepo) FindByUPIID(ctx context.Context, upiID string) (*mmodel.UPIIdentifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[upiID]
	if !ok {
		return nil, errNotFound
	}

	return u, nil
}

func (r *fakeUPIRepo) Deactivate(ctx context.Context, upiID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[upiID]
	if !ok {
		return errNotFound
	}

	u.Status = mmodel.UPIInactive

	return nil
}

type fakeMetadataRepo struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{docs: make(map[string]map[string]any)}
}

func (r *fakeMetadataRepo) Create(ctx context.Context, collection, entityID string, metadata map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[collection+"/"+entityID] = metadata

	return nil
}

func (r *fakeMetadataRepo) Find(ctx context.Context, collection, entityID string) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[collection+"/"+entityID]
	if !ok {
		return nil, errNotFound
	}

	return doc, nil
}

type fakeLockRepo struct {
	mu      sync.Mutex
	granted map[string]bool
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{granted: make(map[string]bool)}
}

func (r *fakeLockRepo) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.granted[key] {
		return false, nil
	}

	r.granted[key] = true

	return true, nil
}

func (r *fakeLockRepo) ReleaseLock(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.granted, key)

	return nil
}

type fakeEventPublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *fakeEventPublisher) Publish(ctx context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, topic)

	return nil
}

type fakeEFTGateway struct {
	err error
}

func (g fakeEFTGateway) Submit(ctx context.Context, eft mmodel.EFTTransaction) error {
	return g.err
}

type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakePasswordHasher) Verify(plaintext, hash string) bool {
	return hash == "hashed:"+plaintext
}

type fakeIFSCValidator struct {
	err error
}

func (v fakeIFSCValidator) Validate(ctx context.Context, ifscCode string) (ports.IFSCValidator, error) {
	if v.err != nil {
		return ports.IFSCValidator{}, v.err
	}

	return ports.IFSCValidator{BankName: "Fake Bank", BranchName: "Fake Branch"}, nil
}

type fakeTokenIssuer struct {
	token string
}

func (i fakeTokenIssuer) Issue(authz mmodel.AuthzContext) (string, time.Time, error) {
	return i.token, time.Now().Add(time.Hour), nil
}

var errNotFound = errNotFoundErr{}

type errNotFoundErr struct{}

func (errNotFoundErr) Error() string { return "not found" }

// testNEFTTariff mirrors bootstrap.NEFTTariff's bands (spec.md §4.3) without
// importing package bootstrap, which itself imports this package.
func testNEFTTariff() []mmodel.TariffBand {
	tenK := decimal.NewFromInt(10000)
	oneLakh := decimal.NewFromInt(100000)
	twoLakh := decimal.NewFromInt(200000)

	return []mmodel.TariffBand{
		{UpperBound: &tenK, Charge: decimal.NewFromFloat(2.50)},
		{UpperBound: &oneLakh, Charge: decimal.NewFromFloat(5)},
		{UpperBound: &twoLakh, Charge: decimal.NewFromFloat(15)},
		{UpperBound: nil, Charge: decimal.NewFromFloat(25)},
	}
}

// testRTGSTariff mirrors bootstrap.RTGSTariff's bands (spec.md §4.4).
func testRTGSTariff() []mmodel.TariffBand {
	fiveLakh := decimal.NewFromInt(500000)

	return []mmodel.TariffBand{
		{UpperBound: &fiveLakh, Charge: decimal.NewFromFloat(25)},
		{UpperBound: nil, Charge: decimal.NewFromFloat(50)},
	}
}
