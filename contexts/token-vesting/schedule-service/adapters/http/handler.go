package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tranche/contexts/token-vesting/schedule-service/application"
	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	httptransport "tranche/contexts/token-vesting/schedule-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitializeScheduleHandler(
	ctx context.Context,
	actor string,
	req httptransport.InitializeScheduleRequest,
) (httptransport.ScheduleResponse, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return httptransport.ScheduleResponse{}, domainerrors.ErrInvalidTimestamp
	}
	schedule, err := h.Service.InitializeSchedule(ctx, actor, application.InitializeScheduleInput{
		ScheduleID:  req.ScheduleID,
		Mint:        req.Mint,
		Distributor: req.Distributor,
		StartAt:     startAt,
		TotalSupply: req.TotalSupply,
	})
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return httptransport.ScheduleResponse{
		Status: "success",
		Data:   toScheduleDTO(schedule),
	}, nil
}

func (h Handler) GetScheduleHandler(
	ctx context.Context,
	scheduleID string,
) (httptransport.ScheduleResponse, error) {
	schedule, err := h.Service.GetSchedule(ctx, scheduleID)
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return httptransport.ScheduleResponse{
		Status: "success",
		Data:   toScheduleDTO(schedule),
	}, nil
}

func (h Handler) AddRecipientsHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.AddRecipientsRequest,
) (httptransport.AddRecipientsResponse, error) {
	inputs := make([]entities.RecipientInput, 0, len(req.Recipients))
	for _, item := range req.Recipients {
		inputs = append(inputs, entities.RecipientInput{
			Wallet:     item.Wallet,
			Allocation: item.Allocation,
		})
	}
	result, err := h.Service.AddRecipients(ctx, actor, scheduleID, inputs, req.Seal)
	if err != nil {
		return httptransport.AddRecipientsResponse{}, err
	}
	resp := httptransport.AddRecipientsResponse{Status: "success"}
	resp.Data.Added = result.Added
	resp.Data.RecipientCount = result.RecipientCount
	resp.Data.AllocationSum = result.AllocationSum
	resp.Data.Sealed = result.Sealed
	return resp, nil
}

func (h Handler) ListRecipientsHandler(
	ctx context.Context,
	scheduleID string,
) (httptransport.RecipientListResponse, error) {
	items, err := h.Service.ListRecipients(ctx, scheduleID)
	if err != nil {
		return httptransport.RecipientListResponse{}, err
	}
	resp := httptransport.RecipientListResponse{
		Status: "success",
		Data:   make([]httptransport.RecipientDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.RecipientDTO{
			Wallet:         item.Wallet,
			Allocation:     item.Allocation,
			MonthlyAmount:  item.MonthlyAmount,
			ReleasedAmount: item.ReleasedAmount,
			Revoked:        item.Revoked,
			Position:       item.Position,
			RegisteredAt:   item.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) ReleaseHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.ReleaseRequest,
) (httptransport.ReleaseResponse, error) {
	result, err := h.Service.ReleaseToRecipient(ctx, actor, scheduleID, req.Wallet, req.Destination)
	if err != nil {
		return httptransport.ReleaseResponse{}, err
	}
	return httptransport.ReleaseResponse{
		Status: "success",
		Data:   toReleaseDTO(result),
	}, nil
}

func (h Handler) BatchReleaseHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.BatchReleaseRequest,
) (httptransport.BatchReleaseResponse, error) {
	results, err := h.Service.BatchRelease(ctx, actor, scheduleID, req.Wallets)
	if err != nil {
		return httptransport.BatchReleaseResponse{}, err
	}
	resp := httptransport.BatchReleaseResponse{
		Status: "success",
		Data:   make([]httptransport.ReleaseDTO, 0, len(results)),
	}
	for _, result := range results {
		resp.Data = append(resp.Data, toReleaseDTO(result))
	}
	return resp, nil
}

func (h Handler) QuoteHandler(
	ctx context.Context,
	scheduleID string,
	wallet string,
) (httptransport.QuoteResponse, error) {
	quote, err := h.Service.Quote(ctx, scheduleID, wallet)
	if err != nil {
		return httptransport.QuoteResponse{}, err
	}
	resp := httptransport.QuoteResponse{Status: "success"}
	resp.Data.Wallet = quote.Wallet
	resp.Data.MonthIndex = quote.MonthIndex
	resp.Data.VestedAmount = quote.VestedAmount
	resp.Data.ReleasedAmount = quote.ReleasedAmount
	resp.Data.Releasable = quote.Releasable
	resp.Data.Revoked = quote.Revoked
	return resp, nil
}

func (h Handler) DepositHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.DepositRequest,
) (httptransport.DepositResponse, error) {
	vaultBalance, err := h.Service.DepositTokens(ctx, actor, scheduleID, req.Source, req.Amount)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	resp := httptransport.DepositResponse{Status: "success"}
	resp.Data.VaultBalance = vaultBalance
	return resp, nil
}

func (h Handler) PauseHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
) (httptransport.AckResponse, error) {
	if err := h.Service.Pause(ctx, actor, scheduleID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) UnpauseHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
) (httptransport.AckResponse, error) {
	if err := h.Service.Unpause(ctx, actor, scheduleID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) SetDistributorHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.SetDistributorRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.SetDistributor(ctx, actor, scheduleID, req.Distributor); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) RevokeRecipientHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.RevokeRecipientRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.RevokeRecipient(ctx, actor, scheduleID, req.Wallet); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.WithdrawRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.AdminWithdraw(ctx, actor, scheduleID, req.Destination, req.Amount, req.QueryID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) SweepHandler(
	ctx context.Context,
	actor string,
	scheduleID string,
	req httptransport.SweepRequest,
) (httptransport.SweepResponse, error) {
	swept, err := h.Service.SweepDustAfterEnd(ctx, actor, scheduleID, req.Destination)
	if err != nil {
		return httptransport.SweepResponse{}, err
	}
	resp := httptransport.SweepResponse{Status: "success"}
	resp.Data.Swept = swept
	return resp, nil
}

func toScheduleDTO(schedule entities.Schedule) httptransport.ScheduleDTO {
	return httptransport.ScheduleDTO{
		ScheduleID:     schedule.ScheduleID,
		Mint:           schedule.Mint,
		Admin:          schedule.Admin,
		Distributor:    schedule.Distributor,
		StartAt:        schedule.StartAt.UTC().Format(time.RFC3339),
		DurationMonths: schedule.DurationMonths,
		Paused:         schedule.Paused,
		TotalSupply:    schedule.TotalSupply,
		ReleasedSupply: schedule.ReleasedSupply,
		RecipientCount: schedule.RecipientCount,
		Sealed:         schedule.Sealed,
		CreatedAt:      schedule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      schedule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toReleaseDTO(result application.ReleaseResult) httptransport.ReleaseDTO {
	return httptransport.ReleaseDTO{
		Wallet:        result.Wallet,
		MonthIndex:    result.MonthIndex,
		Amount:        result.Amount,
		Allocation:    result.Allocation,
		ReleasedTotal: result.ReleasedTotal,
	}
}
