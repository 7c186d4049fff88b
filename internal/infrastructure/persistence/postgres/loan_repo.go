package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
	pkgpostgres "github.com/crediario/loan-engine/pkg/postgres"
)

// ErrLoanNotFound is returned when no loan matches the lookup.
var ErrLoanNotFound = errors.New("loan not found")

// LoanRepo implements port.LoanRepository. Save writes the loan row, its
// installment states and its payment rows in one transaction; the
// version-guarded upsert takes the row lock, so concurrent mutations of the
// same loan serialize here.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan aggregate: loan row, installments and payments.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return r.save(ctx, tx, loan)
	})
}

func (r *LoanRepo) save(ctx context.Context, tx pgx.Tx, loan model.Loan) error {
	loanQuery := `
		INSERT INTO loans (
			id, tenant_id, borrower_id,
			principal, nominal_rate, interest_mode,
			installment_count, cadence, contract_date, grace_days,
			terms, total_payable, installment_amount,
			status, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			status     = EXCLUDED.status,
			terms      = EXCLUDED.terms,
			version    = loans.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE loans.version = $15
	`
	tag, err := tx.Exec(ctx, loanQuery,
		loan.ID(), loan.TenantID(), loan.BorrowerID(),
		loan.Principal(), loan.NominalRate(), loan.InterestMode().String(),
		loan.InstallmentCount(), loan.Cadence().String(), loan.ContractDate(), loan.GraceDays(),
		termsToRecord(loan.Terms()), loan.TotalPayable(), loan.InstallmentAmount(),
		loan.Status().String(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}

	instQuery := `
		INSERT INTO installments (
			loan_id, sequence, due_date,
			base_amount, paid_amount, remaining_balance,
			paid, paid_at, penalty, late_interest, penalty_applied_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (loan_id, sequence) DO UPDATE SET
			due_date           = EXCLUDED.due_date,
			paid_amount        = EXCLUDED.paid_amount,
			remaining_balance  = EXCLUDED.remaining_balance,
			paid               = EXCLUDED.paid,
			paid_at            = EXCLUDED.paid_at,
			penalty            = EXCLUDED.penalty,
			late_interest      = EXCLUDED.late_interest,
			penalty_applied_at = EXCLUDED.penalty_applied_at
	`
	for _, inst := range loan.Installments() {
		_, err := tx.Exec(ctx, instQuery,
			loan.ID(), inst.Sequence, inst.DueDate,
			inst.BaseAmount, inst.PaidAmount, inst.RemainingBalance,
			inst.Paid, inst.PaidAt, inst.Penalty, inst.LateInterest, inst.PenaltyAppliedAt,
		)
		if err != nil {
			return fmt.Errorf("save installment %d: %w", inst.Sequence, err)
		}
	}

	payQuery := `
		INSERT INTO payments (
			id, loan_id, installment_seq, type,
			amount, interest_portion, payment_date, recorded_by,
			reversed_at, reversed_by, reversal_reason, metadata, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			reversed_at     = EXCLUDED.reversed_at,
			reversed_by     = EXCLUDED.reversed_by,
			reversal_reason = EXCLUDED.reversal_reason
	`
	for _, p := range loan.Payments() {
		_, err := tx.Exec(ctx, payQuery,
			p.ID, p.LoanID, p.InstallmentSeq, p.Type.String(),
			p.Amount, p.InterestPortion, p.PaymentDate, p.RecordedBy,
			p.ReversedAt, p.ReversedBy, p.ReversalReason, p.Metadata, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save payment %s: %w", p.ID, err)
		}
	}

	return nil
}

// FindByID retrieves a loan with its installments and payment history.
func (r *LoanRepo) FindByID(ctx context.Context, tenantID, id string) (model.Loan, error) {
	query := loanSelect + ` WHERE tenant_id = $1 AND id = $2`
	head, err := r.scanOneLoan(ctx, query, tenantID, id)
	if err != nil {
		return model.Loan{}, err
	}
	return r.hydrate(ctx, head)
}

// FindByBorrowerID retrieves all loans of a borrower, newest first.
func (r *LoanRepo) FindByBorrowerID(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
	query := loanSelect + ` WHERE tenant_id = $1 AND borrower_id = $2 ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, tenantID, borrowerID)
}

// FindOverdue retrieves active loans with at least one unpaid installment due
// before asOf.
func (r *LoanRepo) FindOverdue(ctx context.Context, tenantID string, asOf time.Time) ([]model.Loan, error) {
	query := loanSelect + `
		WHERE tenant_id = $1 AND status = 'ACTIVE' AND id IN (
			SELECT loan_id FROM installments WHERE paid = false AND due_date < $2
		)
		ORDER BY created_at`
	return r.queryLoans(ctx, query, tenantID, asOf)
}

const loanSelect = `
	SELECT id, tenant_id, borrower_id,
	       principal, nominal_rate, interest_mode,
	       installment_count, cadence, contract_date, grace_days,
	       terms, total_payable, installment_amount,
	       status, version, created_at, updated_at
	FROM loans`

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

// loanHead is the loans row before its children are loaded.
type loanHead struct {
	id, tenantID, borrowerID string
	principal, nominalRate   decimal.Decimal
	interestMode             valueobject.InterestMode
	cadence                  valueobject.Cadence
	contractDate             time.Time
	graceDays                int
	terms                    valueobject.ContractTerms
	totalPayable             decimal.Decimal
	installmentAmount        decimal.Decimal
	status                   valueobject.LoanStatus
	version                  int
	createdAt, updatedAt     time.Time
}

func (r *LoanRepo) scanOneLoan(ctx context.Context, query string, args ...any) (loanHead, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	head, err := scanLoanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return loanHead{}, ErrLoanNotFound
	}
	return head, err
}

func scanLoanRow(s scannable) (loanHead, error) {
	var (
		head                           loanHead
		modeStr, cadenceStr, statusStr string
		installmentCount               int
		terms                          termsRecord
	)
	err := s.Scan(
		&head.id, &head.tenantID, &head.borrowerID,
		&head.principal, &head.nominalRate, &modeStr,
		&installmentCount, &cadenceStr, &head.contractDate, &head.graceDays,
		&terms, &head.totalPayable, &head.installmentAmount,
		&statusStr, &head.version, &head.createdAt, &head.updatedAt,
	)
	if err != nil {
		return loanHead{}, fmt.Errorf("scan loan: %w", err)
	}

	if head.interestMode, err = valueobject.NewInterestMode(modeStr); err != nil {
		return loanHead{}, fmt.Errorf("parse interest mode: %w", err)
	}
	if head.cadence, err = valueobject.NewCadence(cadenceStr); err != nil {
		return loanHead{}, fmt.Errorf("parse cadence: %w", err)
	}
	if head.status, err = valueobject.NewLoanStatus(statusStr); err != nil {
		return loanHead{}, fmt.Errorf("parse loan status: %w", err)
	}
	head.terms = terms.toTerms()
	return head, nil
}

func (r *LoanRepo) queryLoans(ctx context.Context, query string, args ...any) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var heads []loanHead
	for rows.Next() {
		head, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		heads = append(heads, head)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0, len(heads))
	for _, head := range heads {
		loan, err := r.hydrate(ctx, head)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func (r *LoanRepo) hydrate(ctx context.Context, head loanHead) (model.Loan, error) {
	installments, err := r.loadInstallments(ctx, r.pool, head.id)
	if err != nil {
		return model.Loan{}, err
	}
	payments, err := r.loadPayments(ctx, r.pool, head.id)
	if err != nil {
		return model.Loan{}, err
	}
	return model.ReconstructLoan(
		head.id, head.tenantID, head.borrowerID,
		head.principal, head.nominalRate,
		head.interestMode, head.cadence,
		head.contractDate, head.graceDays,
		head.terms,
		head.totalPayable, head.installmentAmount,
		head.status,
		installments, payments,
		head.version, head.createdAt, head.updatedAt,
	), nil
}

func (r *LoanRepo) loadInstallments(ctx context.Context, q pkgpostgres.Querier, loanID string) ([]model.Installment, error) {
	query := `
		SELECT sequence, due_date, base_amount, paid_amount, remaining_balance,
		       paid, paid_at, penalty, late_interest, penalty_applied_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence
	`
	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var installments []model.Installment
	for rows.Next() {
		var inst model.Installment
		err := rows.Scan(
			&inst.Sequence, &inst.DueDate, &inst.BaseAmount, &inst.PaidAmount, &inst.RemainingBalance,
			&inst.Paid, &inst.PaidAt, &inst.Penalty, &inst.LateInterest, &inst.PenaltyAppliedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (r *LoanRepo) loadPayments(ctx context.Context, q pkgpostgres.Querier, loanID string) ([]model.Payment, error) {
	query := `
		SELECT id, loan_id, installment_seq, type,
		       amount, interest_portion, payment_date, recorded_by,
		       reversed_at, reversed_by, reversal_reason, metadata, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY created_at, id
	`
	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var (
			p       model.Payment
			typeStr string
		)
		err := rows.Scan(
			&p.ID, &p.LoanID, &p.InstallmentSeq, &typeStr,
			&p.Amount, &p.InterestPortion, &p.PaymentDate, &p.RecordedBy,
			&p.ReversedAt, &p.ReversedBy, &p.ReversalReason, &p.Metadata, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.Type, err = valueobject.NewPaymentType(typeStr); err != nil {
			return nil, fmt.Errorf("parse payment type: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
