package query

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fernbank/core/common/mmodel"
)

// This file collects small in-memory fakes for the ports the query package
// reads through, mirroring internal/services/command/fakes_test.go's
// approach: hand-written stand-ins in place of the gomock mocks the
// teacher would generate, wired directly into UseCase struct literals.

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
			return a, nil
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
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.Transaction
}

func newFakeTransactionRepo(txns ...*mmodel.Transaction) *fakeTransactionRepo {
	r := &fakeTransactionRepo{byID: make(map[uuid.UUID]*mmodel.Transaction)}
	for _, txn := range txns {
		r.byID[uuid.MustParse(txn.ID)] = txn
	}

	return r
}

func (r *fakeTransactionRepo) Create(ctx context.Context, txn *mmodel.Transaction) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(txn.ID)] = txn

	return txn, nil
}

func (r *fakeTransactionRepo) Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	return txn, nil
}

func (r *fakeTransactionRepo) FindByReference(ctx context.Context, reference string) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, txn := range r.byID {
		if txn.TransactionReference == reference {
			return txn, nil
		}
	}

	return nil, errNotFound
}

func (r *fakeTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.TransactionStatus) (*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}

	txn.Status = status

	return txn, nil
}

func (r *fakeTransactionRepo) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*mmodel.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*mmodel.Transaction

	for _, txn := range r.byID {
		if txn.AccountID == accountID.String() {
			out = append(out, txn)
		}
	}

	return out, nil
}

type fakeBeneficiaryRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.Beneficiary
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

func newFakeEFTRepo(efts ...*mmodel.EFTTransaction) *fakeEFTRepo {
	r := &fakeEFTRepo{byID: make(map[uuid.UUID]*mmodel.EFTTransaction)}
	for _, e := range efts {
		r.byID[uuid.MustParse(e.ID)] = e
	}

	return r
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
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.User
}

func newFakeUserRepo(users ...*mmodel.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: make(map[uuid.UUID]*mmodel.User)}
	for _, u := range users {
		r.byID[uuid.MustParse(u.ID)] = u
	}

	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *mmodel.User) (*mmodel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[uuid.MustParse(user.ID)] = user

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
		if u.Username == username || u.Email == email || (mobile != "" && u.Mobile == mobile) {
			return true, nil
		}
	}

	return false, nil
}

type fakeCustomerRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*mmodel.Customer
	byUserID map[uuid.UUID]*mmodel.Customer
}

func newFakeCustomerRepo(customers ...*mmodel.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{byID: make(map[uuid.UUID]*mmodel.Customer), byUserID: make(map[uuid.UUID]*mmodel.Customer)}
	for _, c := range customers {
		r.byID[uuid.MustParse(c.ID)] = c
		r.byUserID[uuid.MustParse(c.UserID)] = c
	}

	return r
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

type fakeQRRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*mmodel.QRRequest
}

func newFakeQRRepo(requests ...*mmodel.QRRequest) *fakeQRRepo {
	r := &fakeQRRepo{byID: make(map[uuid.UUID]*mmodel.QRRequest)}
	for _, req := range requests {
		r.byID[uuid.MustParse(req.ID)] = req
	}

	return r
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
	for _, upi := range identifiers {
		r.byID[upi.UPIID] = upi
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

	upi, ok := r.byID[upiID]
	if !ok {
		return nil, errNotFound
	}

	return upi, nil
}

func (r *fakeUPIRepo) Deactivate(ctx context.Context, upiID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	upi, ok := r.byID[upiID]
	if !ok {
		return errNotFound
	}

	upi.Status = mmodel.UPIInactive

	return nil
}

var errNotFound = errNotFoundErr{}

type errNotFoundErr struct{}

func (errNotFoundErr) Error() string { return "not found" }
