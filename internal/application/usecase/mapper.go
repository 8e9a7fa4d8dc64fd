package usecase

import (
	"github.com/samber/lo"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
)

func toApplicationResponse(app model.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:                           app.ID(),
		ApplicantID:                  app.ApplicantID(),
		LoanType:                     app.LoanType().String(),
		LoanSubtype:                  app.LoanSubtype().String(),
		RequestedAmount:              app.RequestedAmount(),
		RepaymentAmount:              app.RepaymentAmount(),
		TermYears:                    app.TermYears(),
		Status:                       app.Status().String(),
		Decision:                     app.Decision().String(),
		Reason:                       app.Reason(),
		DSCR:                         dto.Ratio(app.DSCR()),
		CCR:                          dto.Ratio(app.CCR()),
		CreditScore:                  app.CreditScore(),
		NeedsManagerApproval:         app.NeedsManagerApproval(),
		RequiresAdditionalCollateral: app.RequiresAdditionalCollateral(),
		ManagerApproved:              app.ManagerApproval().Ptr(),
		ApprovalNote:                 app.ApprovalNote(),
		HandledBy:                    app.HandledBy(),
		ManagerID:                    app.ManagerID(),
		InterestRate:                 app.InterestRate(),
		MonthlyPayment:               app.MonthlyPayment(),
		OfferCreated:                 app.OfferCreated(),
		OfferSent:                    app.OfferSent(),
		Version:                      app.Version(),
		CreatedAt:                    app.CreatedAt(),
		UpdatedAt:                    app.UpdatedAt(),
		DecidedAt:                    app.DecidedAt(),
	}
}

func toApplicationResponses(apps []model.Application) []dto.ApplicationResponse {
	return lo.Map(apps, func(app model.Application, _ int) dto.ApplicationResponse {
		return toApplicationResponse(app)
	})
}

func toPersonResponse(p model.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role.String(),
	}
}

// ToNotificationResponses maps notifications for the transports.
func ToNotificationResponses(list []model.Notification) []dto.NotificationResponse {
	return lo.Map(list, func(n model.Notification, _ int) dto.NotificationResponse {
		return dto.NotificationResponse{
			ID:            n.ID,
			SenderID:      n.SenderID,
			ApplicationID: n.ApplicationID,
			Message:       n.Message,
			Type:          string(n.Type),
			Read:          n.Read,
			CreatedAt:     n.CreatedAt,
		}
	})
}
