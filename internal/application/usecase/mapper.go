package usecase

import (
	"fmt"

	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	insts := loan.Installments()
	instResp := make([]dto.InstallmentResponse, len(insts))
	for i, inst := range insts {
		instResp[i] = toInstallmentResponse(inst)
	}

	pays := loan.Payments()
	payResp := make([]dto.PaymentResponse, len(pays))
	for i, p := range pays {
		payResp[i] = toPaymentResponse(p)
	}

	return dto.LoanResponse{
		ID:                loan.ID(),
		TenantID:          loan.TenantID(),
		BorrowerID:        loan.BorrowerID(),
		Principal:         loan.Principal(),
		NominalRate:       loan.NominalRate(),
		InterestMode:      loan.InterestMode().String(),
		InstallmentCount:  loan.InstallmentCount(),
		Cadence:           loan.Cadence().String(),
		ContractDate:      loan.ContractDate(),
		GraceDays:         loan.GraceDays(),
		TotalPayable:      loan.TotalPayable(),
		InstallmentAmount: loan.InstallmentAmount(),
		Outstanding:       loan.Outstanding(),
		Status:            loan.Status().String(),
		Installments:      instResp,
		Payments:          payResp,
		CreatedAt:         loan.CreatedAt(),
		UpdatedAt:         loan.UpdatedAt(),
	}
}

func toInstallmentResponse(inst model.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		Sequence:         inst.Sequence,
		DueDate:          inst.DueDate,
		BaseAmount:       inst.BaseAmount,
		PaidAmount:       inst.PaidAmount,
		RemainingBalance: inst.RemainingBalance,
		Penalty:          inst.Penalty,
		LateInterest:     inst.LateInterest,
		State:            inst.State().String(),
		Paid:             inst.Paid,
		PaidAt:           inst.PaidAt,
	}
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:              p.ID,
		LoanID:          p.LoanID,
		InstallmentSeq:  p.InstallmentSeq,
		Type:            p.Type.String(),
		Amount:          p.Amount,
		InterestPortion: p.InterestPortion,
		PaymentDate:     p.PaymentDate,
		RecordedBy:      p.RecordedBy,
		ReversedAt:      p.ReversedAt,
		ReversedBy:      p.ReversedBy,
		ReversalReason:  p.ReversalReason,
		Metadata:        p.Metadata,
		CreatedAt:       p.CreatedAt,
	}
}

func toQuoteResponse(q service.LoanQuote) dto.QuoteResponse {
	lines := make([]dto.QuoteInstallmentResponse, len(q.Installments))
	for i, line := range q.Installments {
		lines[i] = dto.QuoteInstallmentResponse{
			Sequence:       line.Sequence,
			DueDate:        line.DueDate,
			State:          line.State,
			DaysLate:       line.DaysLate,
			BaseAmount:     line.BaseAmount,
			PaidAmount:     line.PaidAmount,
			AccruedPenalty: line.AccruedPenalty,
			AccruedLateInt: line.AccruedLateInt,
			AmountDue:      line.AmountDue,
		}
	}
	return dto.QuoteResponse{
		LoanID:          q.LoanID,
		AsOf:            q.AsOf,
		TotalReceivable: q.TotalReceivable,
		TotalPaid:       q.TotalPaid,
		Outstanding:     q.Outstanding,
		OverdueCount:    q.OverdueCount,
		DaysLate:        q.DaysLate,
		NextDueDate:     q.NextDueDate,
		NextDueAmount:   q.NextDueAmount,
		Installments:    lines,
	}
}

func toScoreResponse(s model.ScoreSnapshot) dto.ScoreResponse {
	return dto.ScoreResponse{
		BorrowerID:  s.BorrowerID,
		Score:       s.Score,
		Band:        s.Band.String(),
		Evaluated:   s.Evaluated,
		OnTimePaid:  s.OnTimePaid,
		LatePaid:    s.LatePaid,
		LateUnpaid:  s.LateUnpaid,
		EvaluatedAt: s.EvaluatedAt,
	}
}

func parseActor(id, role string) (valueobject.Actor, error) {
	if id == "" {
		return valueobject.Actor{}, fmt.Errorf("actor ID is required")
	}
	r, err := valueobject.NewRole(role)
	if err != nil {
		return valueobject.Actor{}, fmt.Errorf("parse actor role: %w", err)
	}
	return valueobject.Actor{ID: id, Role: r}, nil
}
