package in

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common/mlog"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
	"github.com/fernbank/core/common/net/http"
)

// buildVersion is stamped by the bootstrap package; routes only need a
// stable default for local/unstamped builds.
const buildVersion = "dev"

// NewRouter wires every handler of this package onto the HTTP surface of
// spec.md §6. Ownership gates (an authenticated user acting on their own
// customer/account) are enforced inside the handler; WithPermission only
// guards staff-capability routes.
func NewRouter(
	lg mlog.Logger,
	tl *mopentelemetry.Telemetry,
	issuer *http.TokenIssuer,
	authHandler *AuthHandler,
	onboardingHandler *OnboardingHandler,
	accountHandler *AccountHandler,
	transactionHandler *TransactionHandler,
	transferHandler *TransferHandler,
	beneficiaryHandler *BeneficiaryHandler,
	eftHandler *EFTHandler,
	qrUPIHandler *QRUPIHandler,
	healthHandler *HealthHandler,
) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	f.Use(http.WithCORS())
	f.Use(http.WithCorrelationID())
	f.Use(http.WithHTTPLogging(http.WithCustomLogger(lg)))

	telemetry := http.NewTelemetryMiddleware(tl)
	f.Use(telemetry.WithTelemetry(tl))
	f.Use(telemetry.EndTracingSpans)

	jwt := http.NewJWTMiddleware(issuer)

	// Auth
	f.Post("/auth/register", http.WithBody(new(mmodel.RegisterUserInput), authHandler.Register))
	f.Post("/auth/login", http.WithBody(new(mmodel.LoginInput), authHandler.Login))

	// Onboarding
	f.Post("/users/customer-details", jwt.Protect(), http.WithBody(new(mmodel.SubmitCustomerDetailsInput), onboardingHandler.SubmitCustomerDetails))
	f.Get("/admin/pending-details", jwt.Protect(), jwt.WithPermission(mmodel.PermissionUserRead), onboardingHandler.ListPendingDetails)
	f.Get("/admin/pending-review", jwt.Protect(), jwt.WithPermission(mmodel.PermissionUserRead), onboardingHandler.ListPendingReview)
	f.Post("/admin/approve-user/:id", jwt.Protect(), jwt.WithPermission(mmodel.PermissionUserWrite), http.ParseUUIDPathParameters, onboardingHandler.ApproveUser)
	f.Post("/admin/reject-user/:id", jwt.Protect(), jwt.WithPermission(mmodel.PermissionUserWrite), http.ParseUUIDPathParameters, http.WithBody(new(mmodel.RejectUserInput), onboardingHandler.RejectUser))

	// Accounts
	f.Get("/accounts", jwt.Protect(), accountHandler.ListOwnAccounts)
	f.Get("/accounts/:id", jwt.Protect(), http.ParseUUIDPathParameters, accountHandler.GetAccount)

	// Transactions
	f.Post("/transactions", jwt.Protect(), jwt.WithPermission(mmodel.PermissionTransactionWrite), http.WithBody(new(mmodel.CreateTransactionInput), transactionHandler.CreateTransaction))
	f.Get("/transactions/history/:accountNumber", jwt.Protect(), transactionHandler.GetTransactionHistory)
	f.Post("/transactions/bulk-upload", jwt.Protect(), jwt.WithPermission(mmodel.PermissionTransactionWrite), transactionHandler.BulkUpload)

	// Transfers (in-network, ownership-gated in-handler)
	f.Post("/transfers/send", jwt.Protect(), http.WithBody(new(TransferInput), transferHandler.Send))

	// Beneficiaries
	f.Post("/eft/beneficiaries", jwt.Protect(), http.WithBody(new(mmodel.CreateBeneficiaryInput), beneficiaryHandler.CreateBeneficiary))
	f.Get("/eft/beneficiaries", jwt.Protect(), beneficiaryHandler.ListBeneficiaries)
	f.Get("/eft/beneficiaries/:id", jwt.Protect(), http.ParseUUIDPathParameters, beneficiaryHandler.GetBeneficiary)
	f.Patch("/eft/beneficiaries/:id", jwt.Protect(), http.ParseUUIDPathParameters, http.WithBody(new(mmodel.UpdateBeneficiaryInput), beneficiaryHandler.UpdateBeneficiary))
	f.Delete("/eft/beneficiaries/:id", jwt.Protect(), http.ParseUUIDPathParameters, beneficiaryHandler.DeleteBeneficiary)

	// EFT: NEFT/RTGS submission and status
	f.Post("/eft/transfer/initiate", jwt.Protect(), http.WithBody(new(mmodel.InitiateEFTInput), eftHandler.InitiateNEFT))
	f.Post("/eft/rtgs/transfer", jwt.Protect(), http.WithBody(new(mmodel.InitiateEFTInput), eftHandler.InitiateRTGS))
	f.Get("/eft/neft/status/:reference", jwt.Protect(), eftHandler.GetEFTStatus)
	f.Get("/eft/rtgs/status/:reference", jwt.Protect(), eftHandler.GetEFTStatus)

	// EFT/Beneficiary admin
	f.Post("/admin/eft/process-batch", jwt.Protect(), jwt.WithPermission(mmodel.PermissionTransactionWrite), eftHandler.ProcessBatch)
	f.Post("/admin/eft/beneficiaries/:id/approve", jwt.Protect(), jwt.WithPermission(mmodel.PermissionAccountWrite), http.ParseUUIDPathParameters, beneficiaryHandler.ApproveBeneficiary)
	f.Post("/admin/eft/beneficiaries/:id/reject", jwt.Protect(), jwt.WithPermission(mmodel.PermissionAccountWrite), http.ParseUUIDPathParameters, beneficiaryHandler.RejectBeneficiary)
	f.Post("/admin/eft/beneficiaries/:id/block", jwt.Protect(), jwt.WithPermission(mmodel.PermissionAccountWrite), http.ParseUUIDPathParameters, beneficiaryHandler.BlockBeneficiary)

	// QR
	f.Post("/qr/requests", jwt.Protect(), http.WithBody(new(mmodel.CreateQRRequestInput), qrUPIHandler.CreateQRRequest))
	f.Get("/qr/requests/:id", jwt.Protect(), http.ParseUUIDPathParameters, qrUPIHandler.GetQRRequest)
	f.Post("/qr/requests/:id/pay", jwt.Protect(), http.ParseUUIDPathParameters, http.WithBody(new(mmodel.PayQRRequestInput), qrUPIHandler.PayQRRequest))

	// UPI
	f.Post("/upi/register", jwt.Protect(), http.WithBody(new(mmodel.RegisterUPIInput), qrUPIHandler.RegisterUPI))
	f.Delete("/upi/:upiId", jwt.Protect(), qrUPIHandler.DeregisterUPI)
	f.Post("/upi/send", jwt.Protect(), http.WithBody(new(mmodel.SendViaUPIInput), qrUPIHandler.SendViaUPI))

	// Health
	f.Get("/health", http.Ping)
	f.Get("/health/detailed", healthHandler.Detailed)

	// Version and docs
	f.Get("/version", http.Version(buildVersion))
	http.DocAPI("fernbank-core", "Fernbank Core API", f)

	return f
}
